package ddl

import (
	"strings"
	"testing"
)

// TestBuildCreateTableSQL covers validation errors and per-dialect rendering.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	cols := []ColumnDef{
		{Name: "order_id", SQLType: "TEXT", PrimaryKey: false},
		{Name: "price", SQLType: "REAL", Nullable: true},
	}

	tests := []struct {
		name        string
		def         TableDef
		dialect     Dialect
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN",
			def:         TableDef{Columns: cols},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns",
			def:         TableDef{FQN: "t"},
			errContains: "at least one column is required",
		},
		{
			name:        "empty column name",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "empty type",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name:    "ansi with if not exists",
			def:     TableDef{FQN: "public.olist", Columns: cols},
			dialect: Dialect{Quote: DoubleQuote, IfNotExists: true},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"olist\" (\n  \"order_id\" TEXT NOT NULL,\n  \"price\" REAL\n);",
		},
		{
			name: "nullable wrapper and suffix",
			def:  TableDef{FQN: "olist", Columns: cols},
			dialect: Dialect{
				Quote:    Backtick,
				Nullable: func(s string) string { return "Nullable(" + s + ")" },
				Suffix:   " ENGINE = MergeTree ORDER BY order_id",
			},
			wantSQL: "CREATE TABLE `olist` (\n  `order_id` TEXT,\n  `price` Nullable(REAL)\n) ENGINE = MergeTree ORDER BY order_id;",
		},
		{
			name: "guard and primary key",
			def:  TableDef{FQN: "dbo.olist", Columns: []ColumnDef{{Name: "id", SQLType: "BIGINT", PrimaryKey: true}}},
			dialect: Dialect{
				Quote: Bracket,
				Guard: func(fqn, stmt string) string { return "IF OBJECT_ID(N'" + fqn + "') IS NULL " + stmt },
			},
			wantSQL: "IF OBJECT_ID(N'dbo.olist') IS NULL CREATE TABLE [dbo].[olist] (\n  [id] BIGINT NOT NULL,\n  PRIMARY KEY ([id])\n);",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := BuildCreateTableSQL(tc.def, tc.dialect)
			if tc.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tc.errContains) {
					t.Fatalf("err=%v, want containing %q", err, tc.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantSQL {
				t.Fatalf("SQL mismatch\n got: %q\nwant: %q", got, tc.wantSQL)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	td := Build("olist", []string{"order_id", "price"}, []string{"text", "money"},
		func(k string) string { return strings.ToUpper(k) }, "order_id")
	if td.FQN != "olist" || len(td.Columns) != 2 {
		t.Fatalf("td=%+v", td)
	}
	if td.Columns[0].Nullable || td.Columns[0].SQLType != "TEXT" {
		t.Fatalf("key column = %+v", td.Columns[0])
	}
	if !td.Columns[1].Nullable || td.Columns[1].SQLType != "MONEY" {
		t.Fatalf("price column = %+v", td.Columns[1])
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	if got := QuoteFQN("dbo.my]t", Bracket); got != "[dbo].[my]]t]" {
		t.Fatalf("got %q", got)
	}
	if got := QuoteFQN("a`b", Backtick); got != "`a``b`" {
		t.Fatalf("got %q", got)
	}
}
