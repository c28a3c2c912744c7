package mssql

import (
	"strings"

	"orderetl/internal/ddl"
	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/internal/storage"
)

// MapType maps a relation column kind to a SQL Server type.
func MapType(kind string) string {
	switch kind {
	case schema.KindInt:
		return "BIGINT"
	case pipeline.KindBool:
		return "BIT"
	case schema.KindFloat, schema.KindScore:
		return "FLOAT"
	case schema.KindMoney:
		return "DECIMAL(14, 2)"
	case schema.KindDate:
		return "DATETIME2"
	default:
		return "NVARCHAR(4000)"
	}
}

var dialect = ddl.Dialect{
	Quote: ddl.Bracket,
	Guard: func(fqn, stmt string) string {
		return "IF OBJECT_ID(N'" + strings.ReplaceAll(fqn, "'", "''") + "', N'U') IS NULL\n" + stmt
	},
}

func createTable(table string, cols []pipeline.Column) (string, error) {
	names, kinds := storage.SchemaKinds(cols)
	return ddl.BuildCreateTableSQL(ddl.Build(table, names, kinds, MapType, "order_id"), dialect)
}

func truncate(table string) string {
	return "TRUNCATE TABLE " + ddl.QuoteFQN(table, ddl.Bracket)
}
