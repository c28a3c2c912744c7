// Package notify publishes a JSON summary of each pipeline run.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"orderetl/internal/pipeline"
)

// Summary describes one completed run.
type Summary struct {
	RunID       string         `json:"run_id"`
	Job         string         `json:"job"`
	StartedAt   time.Time      `json:"started_at"`
	DurationMS  int64          `json:"duration_ms"`
	Stats       pipeline.Stats `json:"stats"`
	Views       map[string]int `json:"views"`
	Fingerprint string         `json:"fingerprint"`
}

// NewSummary builds the summary for res.
func NewSummary(runID, job string, started time.Time, took time.Duration, res *pipeline.Result) Summary {
	views := make(map[string]int, len(pipeline.ViewNames))
	for _, name := range pipeline.ViewNames {
		if rel, ok := res.View(name); ok && rel != nil {
			views[name] = rel.Len()
		}
	}
	return Summary{
		RunID:       runID,
		Job:         job,
		StartedAt:   started.UTC(),
		DurationMS:  took.Milliseconds(),
		Stats:       res.Stats,
		Views:       views,
		Fingerprint: fmt.Sprintf("%016x", res.Full.Fingerprint()),
	}
}

// Notifier delivers run summaries.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
	Close() error
}

// Nop discards summaries.
type Nop struct{}

func (Nop) Notify(context.Context, Summary) error { return nil }
func (Nop) Close() error                          { return nil }

// New returns the notifier for kind: "" or "none" disables notifications,
// "rabbitmq" publishes to queue at url.
func New(kind, url, queue string, log *zap.Logger) (Notifier, error) {
	switch strings.ToLower(kind) {
	case "", "none":
		return Nop{}, nil
	case "rabbitmq", "amqp":
		return NewRabbitMQ(url, queue, log)
	default:
		return nil, fmt.Errorf("notify: unsupported kind %q", kind)
	}
}
