package processor

import "strings"

// Passthrough keeps excerpts exactly as extracted. It is the default for
// formats without a registered processor.
type Passthrough struct{}

// NewPassthrough creates a new passthrough processor.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// FilterParagraphs returns blocks unchanged.
func (p *Passthrough) FilterParagraphs(blocks []string) []string {
	return blocks
}

// Clean returns the excerpt unchanged, reporting false only when nothing
// but whitespace remains.
func (p *Passthrough) Clean(excerpt, _ string) (string, bool) {
	if strings.TrimSpace(excerpt) == "" {
		return "", false
	}
	return excerpt, true
}

// Name returns the processor type.
func (p *Passthrough) Name() string {
	return "passthrough"
}
