// Package sqlds loads source tables from a relational store with
// SELECT * FROM <table>. Supported drivers: mysql, postgres (pgx), sqlite
// (modernc) and sqlserver.
package sqlds

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"orderetl/pkg/records"
)

// Config selects the driver and connection string. The DSN comes from
// configuration or the environment, never from code.
type Config struct {
	Driver       string // mysql | postgres | sqlite | sqlserver
	DSN          string
	MaxOpenConns int
}

// driverNames maps config names to registered database/sql driver names.
var driverNames = map[string]string{
	"mysql":     "mysql",
	"postgres":  "pgx",
	"sqlite":    "sqlite",
	"sqlserver": "sqlserver",
	"mssql":     "sqlserver",
}

// DB is a TableSource backed by database/sql.
type DB struct {
	db      *sql.DB
	dialect string
}

// Open connects and pings the database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	name, ok := driverNames[strings.ToLower(cfg.Driver)]
	if !ok {
		return nil, fmt.Errorf("sqlds: unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sqlds: dsn is required")
	}
	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlds: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlds: ping %s: %w", cfg.Driver, err)
	}
	return New(db, name), nil
}

// New wraps an existing handle. dialect is a driver name from driverNames.
func New(db *sql.DB, dialect string) *DB { return &DB{db: db, dialect: dialect} }

func (d *DB) Close() error { return d.db.Close() }

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// quoteIdent quotes a possibly schema-qualified table name for the dialect.
func quoteIdent(dialect, name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("sqlds: invalid table name %q", name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		switch dialect {
		case "mysql":
			parts[i] = "`" + p + "`"
		case "sqlserver":
			parts[i] = "[" + p + "]"
		default:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, "."), nil
}

// LoadTable reads every row of table name. []byte values are returned as
// strings; everything else is passed through as the driver produced it.
func (d *DB) LoadTable(ctx context.Context, name string) (records.Table, error) {
	q, err := quoteIdent(d.dialect, name)
	if err != nil {
		return records.Table{}, err
	}
	rows, err := d.db.QueryContext(ctx, "SELECT * FROM "+q)
	if err != nil {
		return records.Table{}, fmt.Errorf("sqlds: select %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return records.Table{}, fmt.Errorf("sqlds: columns %s: %w", name, err)
	}
	tbl := records.Table{Name: name, Columns: cols}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return records.Table{}, fmt.Errorf("sqlds: scan %s: %w", name, err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = vals[i]
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return records.Table{}, fmt.Errorf("sqlds: read %s: %w", name, err)
	}
	return tbl, nil
}
