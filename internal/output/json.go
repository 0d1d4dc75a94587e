package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/halostatue/tableau-excerpt-extension/internal/pipeline"
)

// JSONWriter buffers results and writes them as one JSON array.
type JSONWriter struct {
	w       *bufio.Writer
	results []pipeline.Result
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// Write buffers a single result.
func (w *JSONWriter) Write(res pipeline.Result) error {
	w.results = append(w.results, res)
	return nil
}

// Flush writes the buffered results as a pretty-printed JSON array.
func (w *JSONWriter) Flush() error {
	out, err := json.MarshalIndent(w.results, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter streams results as newline-delimited JSON.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes a single result as a JSON line.
func (w *JSONLWriter) Write(res pipeline.Result) error {
	out, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return nil
}

// Flush flushes the stream.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}
