// Package sources builds the TableSource a pipeline config names.
package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"orderetl/internal/config"
	"orderetl/internal/datasource"
	"orderetl/internal/datasource/file"
	"orderetl/internal/datasource/httpds"
	"orderetl/internal/datasource/sqlds"
	"orderetl/internal/logging"
	"orderetl/internal/schema"
)

// Open returns the TableSource for s.Kind: dir, http or one of the SQL
// drivers known to sqlds.
func Open(ctx context.Context, s config.Source, log *zap.Logger) (datasource.TableSource, error) {
	if log == nil {
		log = zap.NewNop()
	}
	comma, err := Comma(s.CSV.Comma)
	if err != nil {
		return nil, err
	}
	switch s.Kind {
	case "dir":
		return file.NewDir(s.CSV.Dir, comma, log), nil
	case "http":
		client := httpds.NewClient(httpds.Config{})
		return httpds.NewTables(client, s.CSV.BaseURL, comma, log), nil
	default:
		log.Info("source", zap.String("kind", s.Kind), zap.String("dsn", logging.MaskDSN(s.DB.DSN)))
		db, err := sqlds.Open(ctx, sqlds.Config{Driver: s.Kind, DSN: s.DB.DSN, MaxOpenConns: s.DB.MaxOpenConns})
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Comma parses a configured delimiter; empty means ','.
func Comma(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("csv comma must be a single character, got %q", s)
	}
	return rs[0], nil
}

// TableNames merges the configured overrides over the public dataset names.
// Unknown logical names and blank overrides are ignored.
func TableNames(s config.Source) map[string]string {
	names := schema.DefaultTableNames()
	for logical, physical := range s.Tables {
		if _, ok := names[logical]; ok && strings.TrimSpace(physical) != "" {
			names[logical] = physical
		}
	}
	return names
}
