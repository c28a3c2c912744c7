package clickhouse

import (
	"orderetl/internal/ddl"
	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/internal/storage"
)

// MapType maps a relation column kind to a ClickHouse type.
func MapType(kind string) string {
	switch kind {
	case schema.KindInt:
		return "Int64"
	case pipeline.KindBool:
		return "Bool"
	case schema.KindFloat, schema.KindMoney, schema.KindScore:
		return "Float64"
	case schema.KindDate:
		return "DateTime64(3)"
	default:
		return "String"
	}
}

var dialect = ddl.Dialect{
	Quote:       ddl.Backtick,
	IfNotExists: true,
	Nullable:    func(t string) string { return "Nullable(" + t + ")" },
	Suffix:      "\nENGINE = MergeTree\nORDER BY order_id",
}

func createTable(table string, cols []pipeline.Column) (string, error) {
	names, kinds := storage.SchemaKinds(cols)
	return ddl.BuildCreateTableSQL(ddl.Build(table, names, kinds, MapType, "order_id"), dialect)
}

func truncate(table string) string {
	return "TRUNCATE TABLE IF EXISTS " + ddl.QuoteFQN(table, ddl.Backtick)
}
