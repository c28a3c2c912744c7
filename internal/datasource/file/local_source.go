// Package file reads source tables from CSV exports on the local disk.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"orderetl/internal/datasource"
	"orderetl/internal/parser/csv"
	"orderetl/pkg/records"
)

// Local opens a single file from the local disk.
type Local struct{ path string }

func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file for sequential reading. A canceled context is
// reported before touching the filesystem. Errors keep os.ErrNotExist
// matchable.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}

// Dir loads table <name> from <dir>/<name>.csv.
type Dir struct {
	dir string
	opt csv.Options
}

// NewDir returns a table source over dir. comma may be zero for ','.
func NewDir(dir string, comma rune, log *zap.Logger) *Dir {
	return &Dir{dir: dir, opt: csv.Options{Comma: comma, TrimSpace: true, Logger: log}}
}

func (d *Dir) LoadTable(ctx context.Context, name string) (records.Table, error) {
	return datasource.DecodeCSV(ctx, NewLocal(filepath.Join(d.dir, name+".csv")), name, d.opt)
}

func (d *Dir) Close() error { return nil }
