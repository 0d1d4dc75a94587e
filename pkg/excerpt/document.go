// Package excerpt implements deterministic excerpt extraction over document
// bodies. A resolved Config drives a three-tier precedence chain: range
// markers, a split marker, then a structural fallback over paragraphs,
// sentences or words. The engine works purely on in-memory text and performs
// no I/O.
package excerpt

// Document is the engine's read-only view of one content document. The
// engine touches nothing beyond the body, the excerpt field and the format
// key.
type Document struct {
	// Body is the raw text body, after any front matter has been removed.
	Body string

	// Excerpt is the author-supplied excerpt when one is present.
	// ExcerptSet distinguishes a present key from an absent one: a present
	// key with an explicit null value is ExcerptSet true with Excerpt nil.
	// Any present excerpt, including an empty string or explicit null,
	// short-circuits extraction entirely.
	Excerpt    *string
	ExcerptSet bool

	// Format is the registry key used to select a processor (e.g. "md").
	Format string
}

// Outcome describes what an extraction produced.
type Outcome int

const (
	// OutcomeNone means no excerpt was produced; the document is unchanged.
	OutcomeNone Outcome = iota

	// OutcomeExcerpt means an excerpt was produced with an unchanged body.
	OutcomeExcerpt

	// OutcomeExcerptAndBody means an excerpt was produced together with a
	// rewritten body.
	OutcomeExcerptAndBody
)

// String returns the outcome name for logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeExcerpt:
		return "excerpt"
	case OutcomeExcerptAndBody:
		return "excerpt-and-body"
	default:
		return "none"
	}
}

// Result is the pure value returned by Engine.Extract. The engine never
// mutates the input Document; applying a Result is the caller's concern.
type Result struct {
	Outcome Outcome

	// Excerpt is the extracted excerpt text. Empty for OutcomeNone.
	Excerpt string

	// Body is the rewritten body. Meaningful only for
	// OutcomeExcerptAndBody.
	Body string
}
