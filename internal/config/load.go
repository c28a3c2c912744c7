package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Load reads .env files (if present) into the environment, decodes the
// pipeline file at path and expands ${VAR} references in DSN and URL fields.
// Variables already set in the environment win over .env values.
func Load(path string, envFiles ...string) (Pipeline, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", filepath.Join(filepath.Dir(path), ".env")}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Pipeline{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read pipeline: %w", err)
	}
	return Decode(b)
}

// Decode parses a pipeline document and expands environment references.
// Unknown fields are rejected.
func Decode(b []byte) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode pipeline: %w", err)
	}
	p.expandEnv()
	return p, nil
}

func (p *Pipeline) expandEnv() {
	p.Source.DB.DSN = os.ExpandEnv(p.Source.DB.DSN)
	p.Source.CSV.Dir = os.ExpandEnv(p.Source.CSV.Dir)
	p.Source.CSV.BaseURL = os.ExpandEnv(p.Source.CSV.BaseURL)
	p.Storage.DB.DSN = os.ExpandEnv(p.Storage.DB.DSN)
	p.Notify.URL = os.ExpandEnv(p.Notify.URL)
}
