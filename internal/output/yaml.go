package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/halostatue/tableau-excerpt-extension/internal/pipeline"
)

// YAMLWriter buffers results and writes them as one YAML sequence.
type YAMLWriter struct {
	w       *bufio.Writer
	results []pipeline.Result
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Write buffers a single result.
func (w *YAMLWriter) Write(res pipeline.Result) error {
	w.results = append(w.results, res)
	return nil
}

// Flush writes the buffered results as YAML.
func (w *YAMLWriter) Flush() error {
	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(2)
	if err := enc.Encode(w.results); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
