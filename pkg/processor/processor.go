// Package processor provides per-format paragraph filtering and excerpt
// cleaning. A processor decides which blocks of a document read as prose and
// transforms raw candidate excerpts into their final form.
package processor

import (
	"regexp"
	"strings"
)

// FormatProcessor filters paragraph blocks and cleans candidate excerpts for
// a single document format.
type FormatProcessor interface {
	// FilterParagraphs returns the subsequence of blocks that read as
	// paragraphs. Blocks are text already split on blank-line boundaries.
	// Implementations may drop blocks but must never reorder or merge them.
	FilterParagraphs(blocks []string) []string

	// Clean transforms a raw candidate excerpt. body is the complete
	// original document body, available for cross-referencing. The second
	// return is false when nothing remains after cleaning, telling the
	// caller to fall through to its next extraction tier.
	Clean(excerpt, body string) (string, bool)

	// Name returns the processor type for logging/debugging.
	Name() string
}

// Registry maps a document format key (e.g. "md") to its processor.
type Registry map[string]FormatProcessor

// Default returns a registry of the built-in processors.
func Default() Registry {
	md := NewMarkdown()
	html := NewHTML()
	return Registry{
		"md":       md,
		"markdown": md,
		"html":     html,
		"htm":      html,
	}
}

var passthrough = NewPassthrough()

// Lookup resolves a format key to its processor. Keys without a registered
// processor resolve to the shared passthrough processor.
func (r Registry) Lookup(formatKey string) FormatProcessor {
	if p, ok := r[formatKey]; ok {
		return p
	}
	return passthrough
}

var blockBoundaryRe = regexp.MustCompile(`\n\n+`)

// splitBlocks splits text on blank-line boundaries, dropping blocks that
// are only whitespace.
func splitBlocks(text string) []string {
	parts := blockBoundaryRe.Split(strings.TrimSpace(text), -1)
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

// firstNonBlankLine returns the first line of block containing a non-space
// character, with surrounding whitespace trimmed.
func firstNonBlankLine(block string) string {
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
