package postgres

import (
	"orderetl/internal/ddl"
	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/internal/storage"
)

// MapType maps a relation column kind to a Postgres type.
func MapType(kind string) string {
	switch kind {
	case schema.KindInt:
		return "BIGINT"
	case pipeline.KindBool:
		return "BOOLEAN"
	case schema.KindFloat, schema.KindScore:
		return "DOUBLE PRECISION"
	case schema.KindMoney:
		return "NUMERIC(14,2)"
	case schema.KindDate:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

var dialect = ddl.Dialect{Quote: ddl.DoubleQuote, IfNotExists: true}

func createTable(table string, cols []pipeline.Column) (string, error) {
	names, kinds := storage.SchemaKinds(cols)
	return ddl.BuildCreateTableSQL(ddl.Build(table, names, kinds, MapType, "order_id"), dialect)
}

func truncate(table string) string {
	return "TRUNCATE TABLE " + ddl.QuoteFQN(table, ddl.DoubleQuote)
}
