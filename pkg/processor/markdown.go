package processor

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ATX heading: one to six # characters followed by a space.
	atxHeadingRe = regexp.MustCompile(`^#{1,6} `)

	// Horizontal rule: three or more repeated -, * or _ alone on a line.
	horizontalRuleRe = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)

	// Footnote definition line plus any indented continuation lines.
	footnoteDefRe = regexp.MustCompile(`(?m)^\[\^[^\]]+\]:[^\n]*(?:\n[ \t]+[^\n]*)*\n?`)

	// Inline footnote reference.
	footnoteRefRe = regexp.MustCompile(`\[\^[^\]]+\]`)

	spaceRunRe   = regexp.MustCompile(` {2,}`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)

	// Reference-style link usage: [text][ref] or the implicit [text][].
	refLinkRe = regexp.MustCompile(`\[([^\]]*)\]\[([^\]]*)\]`)

	// Reference definition: [ref]: url "optional title". The first character
	// of the ref must not be ^, which would be a footnote definition.
	refDefRe = regexp.MustCompile(`(?m)^[ \t]*\[([^\^\]][^\]]*)\]:[ \t]*(\S+)(?:[ \t]+"([^"]*)")?[ \t]*$`)
)

// Markdown filters and cleans Markdown content: headings and rules are not
// paragraphs, footnote syntax is stripped from excerpts, and reference-style
// links are resolved against definitions in the full body so the excerpt
// stands alone.
type Markdown struct{}

// NewMarkdown creates a new Markdown processor.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// FilterParagraphs drops blocks whose first non-blank line is an ATX heading
// or a horizontal rule.
func (m *Markdown) FilterParagraphs(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		line := firstNonBlankLine(block)
		if atxHeadingRe.MatchString(line) || horizontalRuleRe.MatchString(line) {
			continue
		}
		out = append(out, block)
	}
	return out
}

// Clean drops heading and rule blocks, strips footnote definitions and
// references, normalizes whitespace runs, and inlines reference-style links.
// Returns false when the cleaned excerpt trims to empty, as it does for an
// excerpt that was only a heading.
func (m *Markdown) Clean(excerpt, body string) (string, bool) {
	blocks := m.FilterParagraphs(splitBlocks(excerpt))
	s := footnoteDefRe.ReplaceAllString(strings.Join(blocks, "\n\n"), "")
	s = footnoteRefRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	s = resolveReferenceLinks(s, body)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Name returns the processor type.
func (m *Markdown) Name() string {
	return "markdown"
}

type linkDefinition struct {
	url   string
	title string
}

// resolveReferenceLinks rewrites [text][ref] and [text][] into inline links
// using definitions parsed from the full body. Refs are matched
// case-insensitively; an unmatched reference collapses to plain text.
func resolveReferenceLinks(excerpt, body string) string {
	if !strings.Contains(excerpt, "][") {
		return excerpt
	}

	defs := make(map[string]linkDefinition)
	for _, m := range refDefRe.FindAllStringSubmatch(body, -1) {
		key := strings.ToLower(m[1])
		if _, seen := defs[key]; !seen {
			defs[key] = linkDefinition{url: m[2], title: m[3]}
		}
	}

	return refLinkRe.ReplaceAllStringFunc(excerpt, func(link string) string {
		m := refLinkRe.FindStringSubmatch(link)
		text, ref := m[1], m[2]
		if ref == "" {
			// Implicit form: the link text is the ref key.
			ref = text
		}
		def, ok := defs[strings.ToLower(ref)]
		if !ok {
			return text
		}
		if def.title != "" {
			return fmt.Sprintf("[%s](%s %q)", text, def.url, def.title)
		}
		return fmt.Sprintf("[%s](%s)", text, def.url)
	})
}
