package storage

import (
	"context"
	"strings"
	"sync"
	"testing"
)

// fakeRepo records statements and copied rows.
type fakeRepo struct {
	mu     sync.Mutex
	execs  []string
	rows   [][]any
	cols   []string
	closed bool
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cols = columns
	for _, r := range rows {
		f.rows = append(f.rows, append([]any(nil), r...))
	}
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) Close() { f.closed = true }

// TestRegisterAndNew verifies a registered factory is reachable through New
// and listed by ListKinds.
func TestRegisterAndNew(t *testing.T) {
	t.Parallel()

	var got Config
	Register("fake-new", func(ctx context.Context, cfg Config) (Repository, error) {
		got = cfg
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: "fake-new", Table: "olist"})
	if err != nil || repo == nil {
		t.Fatalf("New: repo=%v err=%v", repo, err)
	}
	if got.Table != "olist" {
		t.Fatalf("factory got %+v", got)
	}

	found := false
	for _, k := range ListKinds() {
		if k == "fake-new" {
			found = true
		}
	}
	if !found {
		t.Fatalf("ListKinds missing fake-new: %v", ListKinds())
	}
}

func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil || !strings.Contains(err.Error(), `unsupported kind "does-not-exist"`) {
		t.Fatalf("err=%v", err)
	}
}
