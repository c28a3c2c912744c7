package mysql

import (
	"orderetl/internal/ddl"
	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/internal/storage"
)

// MapType maps a relation column kind to a MySQL type. Identifier columns
// get VARCHAR so they can be indexed; free text gets TEXT.
func MapType(kind string) string {
	switch kind {
	case schema.KindInt:
		return "BIGINT"
	case pipeline.KindBool:
		return "BOOLEAN"
	case schema.KindFloat, schema.KindScore:
		return "DOUBLE"
	case schema.KindMoney:
		return "DECIMAL(14,2)"
	case schema.KindDate:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

var dialect = ddl.Dialect{Quote: ddl.Backtick, IfNotExists: true}

func createTable(table string, cols []pipeline.Column) (string, error) {
	names, kinds := storage.SchemaKinds(cols)
	td := ddl.Build(table, names, kinds, MapType, "order_id")
	td.Columns[0].SQLType = "VARCHAR(64)"
	return ddl.BuildCreateTableSQL(td, dialect)
}

func truncate(table string) string {
	return "TRUNCATE TABLE " + ddl.QuoteFQN(table, ddl.Backtick)
}
