// Package output serializes per-file excerpt reports.
package output

import (
	"fmt"
	"io"

	"github.com/halostatue/tableau-excerpt-extension/internal/pipeline"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer serializes excerpt results.
type Writer interface {
	// Write outputs or buffers a single result.
	Write(res pipeline.Result) error

	// Flush writes any buffered results and completes the output.
	Flush() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
