// Package ddl renders CREATE TABLE statements for the storage backends from
// a small dialect-neutral model.
package ddl

import (
	"fmt"
	"strings"
)

// Build returns one TableDef column per (name, kind) pair, mapping kinds with
// mapType. Columns listed in keys become non-nullable.
func Build(fqn string, names, kinds []string, mapType func(kind string) string, keys ...string) TableDef {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(names))}
	for i, n := range names {
		td.Columns[i] = ColumnDef{Name: n, SQLType: mapType(kinds[i]), Nullable: !keySet[n]}
	}
	return td
}

// BuildCreateTableSQL renders t for dialect d:
//
//	CREATE TABLE [IF NOT EXISTS] <fqn> (
//	  <col> <type> [NOT NULL],
//	  ...
//	  [PRIMARY KEY (<cols>)]
//	)<suffix>;
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	quote := d.Quote
	if quote == nil {
		quote = DoubleQuote
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		switch {
		case c.Nullable && d.Nullable != nil:
			typ = d.Nullable(typ)
		case !c.Nullable && d.Nullable == nil:
			typ += " NOT NULL"
		}
		cols = append(cols, quote(name)+" "+typ)
		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	head := "CREATE TABLE "
	if d.IfNotExists {
		head += "IF NOT EXISTS "
	}
	stmt := fmt.Sprintf("%s%s (\n  %s\n)%s", head, QuoteFQN(fqn, quote), strings.Join(cols, ",\n  "), d.Suffix)
	if d.Guard != nil {
		stmt = d.Guard(fqn, stmt)
	}
	return stmt + ";", nil
}
