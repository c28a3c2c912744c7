// Package parser defines the contract for decoding a raw table export.
package parser

import (
	"io"

	"orderetl/pkg/records"
)

// Parser decodes one table from r. The int result counts rows that were
// skipped as malformed.
type Parser interface {
	Parse(r io.Reader) (records.Table, int, error)
}
