// Package probe checks source tables against the raw table contracts before a
// pipeline run: every required column must be present, and the report counts
// how many values of each typed column are missing or fail to parse.
package probe

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orderetl/internal/datasource"
	"orderetl/internal/metrics"
	"orderetl/internal/schema"
	"orderetl/internal/transformer/builtin"
	"orderetl/pkg/records"
)

// Options control sampling.
type Options struct {
	// SampleRows limits how many rows per table are parsed; 0 parses all.
	SampleRows int
	// Parallelism bounds concurrent table loads; 0 means 4.
	Parallelism int
	Job         string
	Logger      *zap.Logger
}

// ColumnReport describes one contract column of a table.
type ColumnReport struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Present  bool   `json:"present"`
	Missing  int    `json:"missing"`
	Invalid  int    `json:"invalid"`
	// Example is the first value that failed to parse.
	Example string `json:"example,omitempty"`
}

// TableReport describes one logical table.
type TableReport struct {
	Logical  string         `json:"logical"`
	Physical string         `json:"physical"`
	Rows     int            `json:"rows"`
	Sampled  int            `json:"sampled"`
	Columns  []ColumnReport `json:"columns"`
	Extra    []string       `json:"extra,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// OK reports whether the table loaded and carries every required column.
func (t TableReport) OK() bool {
	if t.Error != "" {
		return false
	}
	for _, c := range t.Columns {
		if c.Required && !c.Present {
			return false
		}
	}
	return true
}

// Report is the outcome of one probe, tables in logical-name order.
type Report struct {
	Tables []TableReport `json:"tables"`
}

// OK reports whether every table is OK.
func (r Report) OK() bool {
	for _, t := range r.Tables {
		if !t.OK() {
			return false
		}
	}
	return true
}

// Run loads every table in names (logical -> physical) and checks it against
// its contract. Load failures are recorded per table rather than returned;
// the error is non-nil only when ctx ends.
func Run(ctx context.Context, src datasource.TableSource, names map[string]string, opt Options) (Report, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	par := opt.Parallelism
	if par <= 0 {
		par = 4
	}
	contracts := schema.Contracts()

	logical := make([]string, 0, len(names))
	for l := range names {
		logical = append(logical, l)
	}
	sort.Strings(logical)

	start := time.Now()
	out := make([]TableReport, len(logical))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(par)
	for i, l := range logical {
		i, l := i, l
		g.Go(func() error {
			phys := names[l]
			tr := TableReport{Logical: l, Physical: phys}
			t, err := src.LoadTable(gctx, phys)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				tr.Error = err.Error()
				log.Warn("probe: load failed", zap.String("table", phys), zap.Error(err))
				out[i] = tr
				return nil
			}
			c, ok := contracts[l]
			if !ok {
				tr.Error = fmt.Sprintf("no contract for logical table %q", l)
				out[i] = tr
				return nil
			}
			out[i] = checkTable(tr, t, c, opt.SampleRows)
			log.Debug("probe: table checked",
				zap.String("table", phys),
				zap.Int("rows", out[i].Rows),
				zap.Bool("ok", out[i].OK()),
			)
			return nil
		})
	}
	err := g.Wait()
	metrics.RecordStep(opt.Job, "probe", err, time.Since(start))
	if err != nil {
		return Report{}, err
	}
	return Report{Tables: out}, nil
}

// checkTable fills tr from t and c.
func checkTable(tr TableReport, t records.Table, c schema.Contract, sample int) TableReport {
	tr.Rows = t.Len()
	rows := t.Rows
	if sample > 0 && len(rows) > sample {
		rows = rows[:sample]
	}
	tr.Sampled = len(rows)

	known := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		known[f.Name] = struct{}{}
		cr := ColumnReport{Name: f.Name, Type: f.Type, Required: f.Required, Present: t.HasColumn(f.Name)}
		if cr.Present {
			for _, r := range rows {
				v := r[f.Name]
				if _, ok := builtin.ParseText(v); !ok {
					cr.Missing++
					continue
				}
				if !parses(f.Type, v) {
					if cr.Invalid == 0 {
						cr.Example = fmt.Sprint(v)
					}
					cr.Invalid++
				}
			}
		}
		tr.Columns = append(tr.Columns, cr)
	}
	for _, col := range t.Columns {
		if _, ok := known[col]; !ok {
			tr.Extra = append(tr.Extra, col)
		}
	}
	return tr
}

// parses reports whether a non-missing v parses as kind. Money columns are
// checked strictly even though the pipeline zero-fills them.
func parses(kind string, v any) bool {
	var ok bool
	switch kind {
	case schema.KindInt:
		_, ok = builtin.ParseInt(v)
	case schema.KindFloat, schema.KindMoney, schema.KindScore:
		_, ok = builtin.ParseNumber(v)
	case schema.KindDate:
		_, ok = builtin.ParseDate(v)
	default:
		ok = true
	}
	return ok
}

// WriteText renders r as an aligned table, one line per column.
func WriteText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tCOLUMN\tTYPE\tPRESENT\tMISSING\tINVALID\tEXAMPLE")
	for _, t := range r.Tables {
		if t.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t%s\n", t.Physical, t.Error)
			continue
		}
		for _, c := range t.Columns {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%d\t%s\n",
				t.Physical, c.Name, c.Type, c.Present, c.Missing, c.Invalid, c.Example)
		}
		if len(t.Extra) > 0 {
			fmt.Fprintf(tw, "%s\t(extra)\t-\t-\t-\t-\t%s\n", t.Physical, strings.Join(t.Extra, ","))
		}
	}
	return tw.Flush()
}
