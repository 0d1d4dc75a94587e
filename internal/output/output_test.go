package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/halostatue/tableau-excerpt-extension/internal/pipeline"
)

var sample = []pipeline.Result{
	{Path: "posts/a.md", Outcome: "excerpt", Excerpt: "The first paragraph."},
	{Path: "posts/b.md", Outcome: "none"},
	{Path: "posts/c.md", Outcome: "error", Err: "read failed"},
}

func writeAll(t *testing.T, w Writer) {
	t.Helper()
	for _, res := range sample {
		if err := w.Write(res); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestJSONWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	writeAll(t, w)

	var got []pipeline.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != len(sample) {
		t.Fatalf("decoded %d results, want %d", len(got), len(sample))
	}
	if got[0].Excerpt != sample[0].Excerpt {
		t.Errorf("Excerpt = %q, want %q", got[0].Excerpt, sample[0].Excerpt)
	}
	if got[1].Excerpt != "" {
		t.Errorf("empty excerpt should be omitted, got %q", got[1].Excerpt)
	}
}

func TestJSONLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSONL)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	writeAll(t, w)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(sample) {
		t.Fatalf("got %d lines, want %d", len(lines), len(sample))
	}
	for i, line := range lines {
		var got pipeline.Result
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if got.Path != sample[i].Path {
			t.Errorf("line %d Path = %q, want %q", i, got.Path, sample[i].Path)
		}
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	writeAll(t, w)

	out := buf.String()
	if !strings.Contains(out, "path: posts/a.md") {
		t.Errorf("missing path entry: %q", out)
	}
	if !strings.Contains(out, "error: read failed") {
		t.Errorf("missing error entry: %q", out)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, Format("xml")); err == nil {
		t.Error("NewWriter() error = nil, want unsupported format")
	}
}
