// Package records defines the loosely typed row shapes exchanged between
// sources, transformers and the typed pipeline stages.
package records

// Record is a single raw row keyed by column name. Values are whatever the
// source produced: string, []byte, int64, float64, time.Time or nil.
type Record map[string]any

// Table is a named, ordered set of raw records together with the column names
// the source reported. Columns are known even when Rows is empty, which lets
// callers validate a table's shape before any data arrives.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// HasColumn reports whether the source reported a column with the given name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a shallow copy of r. Values are shared; the map is not.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRows returns a copy of the table whose records can be mutated without
// touching the source table.
func (t Table) CloneRows() Table {
	rows := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	cols := append([]string(nil), t.Columns...)
	return Table{Name: t.Name, Columns: cols, Rows: rows}
}
