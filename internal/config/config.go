// Package config defines the JSON pipeline file consumed by cmd/etl.
//
// Example (trimmed):
//
//	{
//	  "job": "olist",
//	  "source": {
//	    "kind": "mysql",
//	    "db": { "dsn": "${OLIST_MYSQL_DSN}" },
//	    "tables": { "orders": "olist_orders_dataset" }
//	  },
//	  "transform": [ { "kind": "outlier", "options": { "min_days": 0, "max_days": 180 } } ],
//	  "storage": { "kind": "sqlite", "db": { "dsn": "${OLIST_SINK_DSN}", "table": "olist_consolidated" } }
//	}
//
// Credentials never belong in the file itself: DSNs and URLs reference
// environment variables, optionally loaded from a .env file.
package config

import (
	"encoding/json"
	"time"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels metrics, logs and run summaries.
	Job string `json:"job"`

	Source Source `json:"source"`

	// Transform holds the tunable pipeline steps. Kind "outlier" sets the
	// delivery window through min_days and max_days.
	Transform []Transform `json:"transform"`

	// Analytics options: top_n, bottom_n, histogram_bins, revenue_statuses.
	Analytics Options `json:"analytics"`

	Storage Storage       `json:"storage"`
	Cache   Cache         `json:"cache"`
	Notify  Notify        `json:"notify"`
	Runtime RuntimeConfig `json:"runtime"`
}

// Source identifies where the seven raw tables come from.
type Source struct {
	// Kind is one of mysql, postgres, sqlite, sqlserver (SQL sources), dir
	// (local CSV exports) or http (CSV exports behind a base URL).
	Kind string `json:"kind"`

	DB  SourceDB  `json:"db"`
	CSV SourceCSV `json:"csv"`

	// Tables overrides logical -> physical table names. Missing entries fall
	// back to the public dataset names.
	Tables map[string]string `json:"tables"`
}

// SourceDB configures SQL sources.
type SourceDB struct {
	DSN          string `json:"dsn"`
	MaxOpenConns int    `json:"max_open_conns"`
}

// SourceCSV configures CSV sources.
type SourceCSV struct {
	Dir     string `json:"dir"`
	BaseURL string `json:"base_url"`
	Comma   string `json:"comma"`
}

// Transform is one tunable step with a free-form options bag.
type Transform struct {
	Kind    string  `json:"kind"`
	Options Options `json:"options"`
}

// Storage selects the optional sink for the full relation. An empty kind
// disables the export.
type Storage struct {
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`

	// AutoCreateTable creates the table from the relation schema when missing.
	AutoCreateTable bool `json:"auto_create_table"`

	// Replace empties the table before loading.
	Replace bool `json:"replace"`
}

// Cache controls snapshot memoization in the HTTP server.
type Cache struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// TTL returns the cache TTL, defaulting to ten minutes.
func (c Cache) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// Notify configures run summary publishing. An empty kind disables it.
type Notify struct {
	Kind  string `json:"kind"`
	URL   string `json:"url"`
	Queue string `json:"queue"`
}

// RuntimeConfig controls batching for the storage export.
type RuntimeConfig struct {
	BatchSize     int `json:"batch_size"`
	ChannelBuffer int `json:"channel_buffer"`
}

// TransformOptions returns the options of the first transform of kind, or an
// empty bag.
func (p Pipeline) TransformOptions(kind string) Options {
	for _, t := range p.Transform {
		if t.Kind == kind {
			return t.Options
		}
	}
	return Options{}
}

// Options fetches typed values from free-form JSON maps, returning def when
// a key is absent or of an unexpected type.
type Options map[string]any

func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int accepts float64 (as decoded by encoding/json) and int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value, e.g. a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns the string values of an object; non-strings are skipped.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// StringSlice returns the strings of an array value, or nil.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// UnmarshalJSON decodes a missing or null object into an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
