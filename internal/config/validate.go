package config

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"orderetl/internal/schema"
)

// IssueSeverity is the severity of a configuration finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single finding. Path is a dotted path into the document, e.g.
// "source.db.dsn" or "transform[0].options.max_days".
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Path     string        `json:"path"`
	Message  string        `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SQLSourceKinds are the source kinds read with SELECT * FROM <table>.
var SQLSourceKinds = []string{"mysql", "postgres", "sqlite", "sqlserver"}

// StorageKinds are the sink kinds registered by storage/all.
var StorageKinds = []string{"sqlite", "postgres", "mssql", "sqlserver", "mysql", "clickhouse"}

// ValidatePipeline lints p without mutating it.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, errorf("job", "job must not be empty; it labels metrics and run summaries"))
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateAnalytics(p.Analytics)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateNotify(p.Notify)...)
	if p.Cache.TTLSeconds < 0 {
		issues = append(issues, errorf("cache.ttl_seconds", "ttl_seconds must not be negative"))
	}
	issues = append(issues, validateRuntime(p.Runtime)...)
	return issues
}

func errorf(path, format string, args ...any) Issue {
	return Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)}
}

func warnf(path, format string, args ...any) Issue {
	return Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func validateSource(s Source) []Issue {
	var issues []Issue
	switch {
	case strings.TrimSpace(s.Kind) == "":
		return []Issue{errorf("source.kind", "source.kind must not be empty")}
	case contains(SQLSourceKinds, s.Kind):
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, errorf("source.db.dsn", "%s source requires a dsn; reference an environment variable such as ${OLIST_DSN}", s.Kind))
		}
		if s.DB.MaxOpenConns < 0 {
			issues = append(issues, errorf("source.db.max_open_conns", "max_open_conns must not be negative"))
		}
	case s.Kind == "dir":
		if strings.TrimSpace(s.CSV.Dir) == "" {
			issues = append(issues, errorf("source.csv.dir", "dir source requires csv.dir"))
		}
	case s.Kind == "http":
		u, err := url.Parse(s.CSV.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, errorf("source.csv.base_url", "http source requires an absolute http(s) base_url, got %q", s.CSV.BaseURL))
		}
	default:
		return []Issue{errorf("source.kind", "unknown source kind %q", s.Kind)}
	}

	if s.CSV.Comma != "" && utf8.RuneCountInString(s.CSV.Comma) != 1 {
		issues = append(issues, errorf("source.csv.comma", "comma must be a single character, got %q", s.CSV.Comma))
	}
	for logical, physical := range s.Tables {
		path := "source.tables." + logical
		if !contains(schema.LogicalTables, logical) {
			issues = append(issues, warnf(path, "unknown logical table %q is ignored", logical))
			continue
		}
		if strings.TrimSpace(physical) == "" {
			issues = append(issues, errorf(path, "physical table name must not be empty"))
		}
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		switch t.Kind {
		case "":
			issues = append(issues, errorf(path+".kind", "transform kind must not be empty"))
		case "outlier":
			minDays := t.Options.Int("min_days", 0)
			maxDays := t.Options.Int("max_days", 180)
			if minDays > maxDays {
				issues = append(issues, errorf(path+".options", "min_days=%d exceeds max_days=%d", minDays, maxDays))
			}
			if minDays < 0 {
				issues = append(issues, warnf(path+".options.min_days", "negative min_days keeps deliveries recorded before purchase"))
			}
		default:
			issues = append(issues, warnf(path+".kind", "unknown transform kind %q is ignored", t.Kind))
		}
	}
	return issues
}

func validateAnalytics(o Options) []Issue {
	var issues []Issue
	for _, key := range []string{"top_n", "bottom_n", "histogram_bins"} {
		if o.Int(key, 0) < 0 {
			issues = append(issues, errorf("analytics."+key, "%s must not be negative", key))
		}
	}
	if o.Has("revenue_statuses") && o.StringSlice("revenue_statuses") == nil {
		issues = append(issues, errorf("analytics.revenue_statuses", "revenue_statuses must be an array of strings"))
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}
	var issues []Issue
	if !contains(StorageKinds, s.Kind) {
		issues = append(issues, errorf("storage.kind", "unknown storage kind %q", s.Kind))
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, errorf("storage.db.dsn", "storage.db.dsn must not be empty"))
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, errorf("storage.db.table", "storage.db.table must not be empty"))
	}
	if s.DB.Replace && !s.DB.AutoCreateTable {
		issues = append(issues, warnf("storage.db.replace", "replace without auto_create_table fails when the table does not exist"))
	}
	return issues
}

func validateNotify(n Notify) []Issue {
	switch n.Kind {
	case "", "none":
		return nil
	case "rabbitmq", "amqp":
		if strings.TrimSpace(n.URL) == "" {
			return []Issue{errorf("notify.url", "rabbitmq notifier requires a url")}
		}
		return nil
	default:
		return []Issue{errorf("notify.kind", "unknown notify kind %q", n.Kind)}
	}
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.BatchSize < 0 {
		issues = append(issues, errorf("runtime.batch_size", "batch_size must not be negative"))
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, errorf("runtime.channel_buffer", "channel_buffer must not be negative"))
	}
	return issues
}
