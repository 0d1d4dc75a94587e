package processor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Opening heading or rule tag at the start of a block.
	htmlHeadingRe = regexp.MustCompile(`(?i)^<(?:h[1-6]|hr)\b`)

	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// HTML cleans excerpts whose markup is raw HTML rather than Markdown: tags
// are stripped and the excerpt becomes normalized text content.
type HTML struct{}

// NewHTML creates a new HTML processor.
func NewHTML() *HTML {
	return &HTML{}
}

// FilterParagraphs drops blocks that open with a heading or rule tag.
func (h *HTML) FilterParagraphs(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if htmlHeadingRe.MatchString(firstNonBlankLine(block)) {
			continue
		}
		out = append(out, block)
	}
	return out
}

// Clean strips markup from the excerpt and returns its text content with
// whitespace runs collapsed. Returns false when no text remains.
func (h *HTML) Clean(excerpt, _ string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(excerpt))
	if err != nil {
		// Unparseable markup degrades to the raw text.
		trimmed := strings.TrimSpace(excerpt)
		return trimmed, trimmed != ""
	}
	doc.Find("script, style").Remove()
	text := whitespaceRunRe.ReplaceAllString(doc.Text(), " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// Name returns the processor type.
func (h *HTML) Name() string {
	return "html"
}
