package excerpt

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/halostatue/tableau-excerpt-extension/pkg/processor"
)

var (
	// Paragraphs are maximal spans between blank-line boundaries.
	blankLineRe = regexp.MustCompile(`\n\n+`)

	// Text already ending a sentence, optionally closed by a quote.
	terminalPunctRe = regexp.MustCompile(`[.!?‽]["'”’]?$`)

	// A sentence boundary is terminal punctuation plus an optional closing
	// quote, whitespace, and an uppercase letter opening the next sentence.
	// The punctuation stays with the left sentence and the letter with the
	// right one, which needs lookaround the stdlib RE2 engine cannot
	// express.
	sentenceBoundaryRe = regexp2.MustCompile(`(?<=[.!?‽]["'”’]?)\s+(?=\p{Lu})`, regexp2.None)
)

func init() {
	// Bounds regexp2's backtracking on adversarial paragraph text.
	sentenceBoundaryRe.MatchTimeout = time.Second
}

// fallbackCandidate derives a raw excerpt from document structure when no
// marker matched. The empty string means the body had no usable paragraphs.
func (e *Engine) fallbackCandidate(body string, proc processor.FormatProcessor) string {
	fb := e.cfg.Fallback
	blocks := proc.FilterParagraphs(splitParagraphs(body))
	if len(blocks) == 0 {
		return ""
	}

	switch fb.Strategy {
	case StrategySentence:
		return firstSentences(blocks[0], fb.Count)
	case StrategyWord:
		return firstWords(blocks[0], fb.Count, fb.More)
	default:
		n := fb.Count
		if n > len(blocks) {
			n = len(blocks)
		}
		return strings.TrimSpace(strings.Join(blocks[:n], "\n\n"))
	}
}

func splitParagraphs(body string) []string {
	parts := blankLineRe.Split(strings.TrimSpace(body), -1)
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

// firstSentences joins the first n sentence units of paragraph with single
// spaces. A trailing fragment with no terminal punctuation still counts as
// a unit.
func firstSentences(paragraph string, n int) string {
	units := splitSentences(strings.TrimSpace(paragraph))
	if len(units) > n {
		units = units[:n]
	}
	return strings.TrimSpace(strings.Join(units, " "))
}

// splitSentences cuts text at sentence boundaries. regexp2 indexes runes,
// not bytes, so the text is sliced as runes throughout.
func splitSentences(text string) []string {
	runes := []rune(text)
	var units []string
	start := 0

	m, err := sentenceBoundaryRe.FindRunesMatch(runes)
	for err == nil && m != nil {
		units = append(units, strings.TrimSpace(string(runes[start:m.Index])))
		start = m.Index + m.Length
		m, err = sentenceBoundaryRe.FindNextMatch(m)
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		units = append(units, tail)
	}
	return units
}

// firstWords truncates paragraph to its first n whitespace-separated words.
// A paragraph of n or fewer words is kept verbatim; a truncation that does
// not already land on terminal punctuation gets the more suffix.
func firstWords(paragraph string, n int, more string) string {
	words := strings.Fields(paragraph)
	if len(words) <= n {
		return strings.TrimSpace(paragraph)
	}

	out := strings.Join(words[:n], " ")
	if !terminalPunctRe.MatchString(out) {
		out += more
	}
	return out
}
