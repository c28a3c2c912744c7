package sqlite

import (
	"orderetl/internal/ddl"
	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/internal/storage"
)

// MapType maps a relation column kind to a SQLite type affinity. Timestamps
// are stored as TEXT, booleans as INTEGER 0/1.
func MapType(kind string) string {
	switch kind {
	case schema.KindInt, pipeline.KindBool:
		return "INTEGER"
	case schema.KindFloat, schema.KindMoney, schema.KindScore:
		return "REAL"
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
	return "DELETE FROM " + ddl.QuoteFQN(table, ddl.DoubleQuote)
}
