package ddl

import "strings"

// ColumnDef is one column of a table definition. Name is unquoted; quoting
// happens at render time through the Dialect.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name (optionally "schema.table") and its ordered
// columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect holds the per-backend rendering rules.
type Dialect struct {
	// Quote quotes a single identifier segment.
	Quote func(ident string) string
	// IfNotExists renders CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
	// Guard, when set, wraps the statement for backends without IF NOT
	// EXISTS (SQL Server). It receives the unquoted FQN.
	Guard func(fqn, stmt string) string
	// Nullable wraps a nullable column type (ClickHouse). When nil, NOT NULL
	// is appended to non-nullable columns instead.
	Nullable func(sqlType string) string
	// Suffix is appended after the closing parenthesis, e.g. an ENGINE clause.
	Suffix string
}

// DoubleQuote is the ANSI identifier quoting used by Postgres and SQLite.
func DoubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// Backtick quotes identifiers for MySQL and ClickHouse.
func Backtick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// Bracket quotes identifiers for SQL Server.
func Bracket(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// QuoteFQN quotes each dot-separated segment of name.
func QuoteFQN(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}
