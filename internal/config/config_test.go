package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const sampleJSON = `{
  "job": "olist",
  "source": {
    "kind": "mysql",
    "db": { "dsn": "${ORDERETL_TEST_SRC_DSN}", "max_open_conns": 4 },
    "tables": { "orders": "orders_v2" }
  },
  "transform": [ { "kind": "outlier", "options": { "min_days": 1, "max_days": 90 } } ],
  "analytics": { "top_n": 5, "revenue_statuses": ["delivered", "shipped"] },
  "storage": {
    "kind": "sqlite",
    "db": { "dsn": "${ORDERETL_TEST_SINK}/olist.db", "table": "olist_consolidated", "auto_create_table": true, "replace": true }
  },
  "cache": { "ttl_seconds": 60 },
  "notify": { "kind": "rabbitmq", "url": "${ORDERETL_TEST_AMQP}", "queue": "runs" },
  "runtime": { "batch_size": 1000, "channel_buffer": 500 }
}`

// TestDecode checks the document maps onto the struct graph and option
// helpers read typed values.
func TestDecode(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Job != "olist" || p.Source.Kind != "mysql" || p.Source.DB.MaxOpenConns != 4 {
		t.Fatalf("pipeline=%+v", p)
	}
	if p.Source.Tables["orders"] != "orders_v2" {
		t.Fatalf("tables=%v", p.Source.Tables)
	}
	out := p.TransformOptions("outlier")
	if out.Int("min_days", 0) != 1 || out.Int("max_days", 0) != 90 {
		t.Fatalf("outlier options=%v", out)
	}
	if got := p.Analytics.StringSlice("revenue_statuses"); !reflect.DeepEqual(got, []string{"delivered", "shipped"}) {
		t.Fatalf("revenue_statuses=%v", got)
	}
	if !p.Storage.DB.AutoCreateTable || !p.Storage.DB.Replace || p.Cache.TTL() != time.Minute {
		t.Fatalf("storage=%+v cache=%+v", p.Storage, p.Cache)
	}
	if p.Runtime.BatchSize != 1000 || p.Notify.Queue != "runs" {
		t.Fatalf("runtime=%+v notify=%+v", p.Runtime, p.Notify)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"job":"x","parser":{}}`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

/*
TestLoad_ExpandsEnvFromDotEnv writes a pipeline and a .env file next to it
and checks DSN and URL fields are expanded while the process environment
wins over the file. Not parallel: it changes the environment.
*/
func TestLoad_ExpandsEnvFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "olist.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	env := "ORDERETL_TEST_SRC_DSN=reader@tcp(db:3306)/olist\nORDERETL_TEST_SINK=/from/file\nORDERETL_TEST_AMQP=amqp://mq:5672/\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ORDERETL_TEST_SINK", "/from/env")
	for _, k := range []string{"ORDERETL_TEST_SRC_DSN", "ORDERETL_TEST_AMQP"} {
		k := k
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	p, err := Load(path, filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Source.DB.DSN != "reader@tcp(db:3306)/olist" {
		t.Fatalf("source dsn=%q", p.Source.DB.DSN)
	}
	if p.Storage.DB.DSN != "/from/env/olist.db" {
		t.Fatalf("sink dsn=%q", p.Storage.DB.DSN)
	}
	if p.Notify.URL != "amqp://mq:5672/" {
		t.Fatalf("notify url=%q", p.Notify.URL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("expected error for missing pipeline file")
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := Options{
		"s": "x", "b": true, "f": float64(3), "i": 4, "comma": ";",
		"m":  map[string]any{"a": "b", "n": 1},
		"sl": []any{"a", 2, "c"},
	}
	if o.String("s", "") != "x" || o.String("b", "def") != "def" {
		t.Fatal("String")
	}
	if !o.Bool("b", false) || o.Bool("s", true) != true {
		t.Fatal("Bool")
	}
	if o.Int("f", 0) != 3 || o.Int("i", 0) != 4 || o.Int("s", 7) != 7 {
		t.Fatal("Int")
	}
	if o.Rune("comma", ',') != ';' || o.Rune("missing", ',') != ',' {
		t.Fatal("Rune")
	}
	if got := o.StringMap("m"); !reflect.DeepEqual(got, map[string]string{"a": "b"}) {
		t.Fatalf("StringMap=%v", got)
	}
	if got := o.StringSlice("sl"); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("StringSlice=%v", got)
	}
	if o.StringSlice("s") != nil || !o.Has("s") || o.Has("zzz") {
		t.Fatal("StringSlice/Has")
	}
}

func TestOptions_NullDecodesEmpty(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(`{"job":"x","transform":[{"kind":"outlier","options":null}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Transform[0].Options == nil {
		t.Fatal("null options should decode to an empty map")
	}
}
