package storage

import (
	"context"
	"fmt"
	"sync"

	"orderetl/internal/pipeline"
)

// Dialect describes how a backend creates and empties the export table.
type Dialect struct {
	// CreateTable renders DDL for table from the relation schema.
	CreateTable func(table string, cols []pipeline.Column) (string, error)
	// Truncate renders a statement that removes every row of table.
	Truncate func(table string) string
}

var (
	ddlMu    sync.RWMutex
	dialects = map[string]Dialect{}
)

// RegisterDDL registers (or replaces) the dialect for kind. Backends call it
// from init.
func RegisterDDL(kind string, d Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

func dialectFor(kind string) (Dialect, error) {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return Dialect{}, fmt.Errorf("storage: no DDL registered for kind %q", kind)
	}
	return d, nil
}

// EnsureTable creates table for the relation schema if it does not exist.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string) error {
	d, err := dialectFor(kind)
	if err != nil {
		return err
	}
	stmt, err := d.CreateTable(table, pipeline.Schema)
	if err != nil {
		return fmt.Errorf("render DDL: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply DDL: %w", err)
	}
	return nil
}

// Truncate removes every row from table.
func Truncate(ctx context.Context, kind string, repo Repository, table string) error {
	d, err := dialectFor(kind)
	if err != nil {
		return err
	}
	if d.Truncate == nil {
		return fmt.Errorf("storage: kind %q cannot truncate", kind)
	}
	if err := repo.Exec(ctx, d.Truncate(table)); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// SchemaKinds splits cols into parallel name and kind slices.
func SchemaKinds(cols []pipeline.Column) (names, kinds []string) {
	names = make([]string, len(cols))
	kinds = make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		kinds[i] = c.Kind
	}
	return names, kinds
}
