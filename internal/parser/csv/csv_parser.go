// Package csv parses delimited exports of the source tables into raw
// records. Malformed rows are skipped and counted instead of aborting the
// read.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"orderetl/internal/parser"
	"orderetl/pkg/records"
)

var _ parser.Parser = (*Parser)(nil)

// Options configures the CSV parser. All fields are optional.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune
	// TrimSpace trims every field value.
	TrimSpace bool
	// HeaderMap renames source headers to canonical column names.
	HeaderMap map[string]string
	// Logger receives one warning per skipped row, up to LogLimit.
	Logger   *zap.Logger
	LogLimit int
}

// Parser parses CSV input with a header row. It is not safe for concurrent
// use; create one per goroutine.
type Parser struct{ opt Options }

func NewParser(opt Options) *Parser {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.LogLimit <= 0 {
		opt.LogLimit = 100
	}
	return &Parser{opt: opt}
}

const utf8BOM = "\uFEFF"

// Parse reads the header and every body row from r. Rows whose width does
// not match the header are skipped; the second result is the skip count.
// Empty fields become nil. An empty input yields an empty table.
func (p *Parser) Parse(r io.Reader) (records.Table, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records.Table{}, 0, nil
	}
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	tbl := records.Table{Columns: p.normalizeHeaders(h)}

	var skipped int
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil && len(row) != len(tbl.Columns) {
			err = fmt.Errorf("expected %d fields, got %d", len(tbl.Columns), len(row))
		}
		if err != nil {
			if skipped < p.opt.LogLimit {
				p.opt.Logger.Warn("skipping csv row", zap.Int("line", line), zap.Error(err))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[tbl.Columns[i]] = emptyToNil(val)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, skipped, nil
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders trims header cells, strips a leading BOM and applies
// HeaderMap. Unmapped names are lowercased with spaces turned into
// underscores.
func (p *Parser) normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := p.opt.HeaderMap[c]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
