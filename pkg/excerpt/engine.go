package excerpt

import "github.com/halostatue/tableau-excerpt-extension/pkg/processor"

// Engine applies the extraction precedence chain to documents: range markers
// first, then the split marker, then the structural fallback. An Engine is
// pure and safe for concurrent use; every worker may share one Engine over
// the same immutable Config.
type Engine struct {
	cfg *Config
}

// New creates an Engine over a resolved configuration.
func New(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// Extract runs the precedence chain over doc. It never fails: a missing
// marker, a non-matching range or an empty-after-cleaning excerpt all
// degrade to the next tier or to OutcomeNone. A document whose excerpt
// field is already present, whatever its value, is returned untouched.
func (e *Engine) Extract(doc Document) Result {
	if !e.cfg.Enabled || doc.ExcerptSet {
		return Result{Outcome: OutcomeNone}
	}
	proc := e.cfg.Processors.Lookup(doc.Format)

	if e.cfg.Range != nil {
		if res, matched := e.extractRange(doc.Body, proc); matched {
			return res
		}
	}

	// candidateBody always has the marker spliced out so the structural
	// tier never mistakes the marker itself for a paragraph; the returned
	// body still honors marker.remove.
	body, candidateBody := doc.Body, doc.Body
	modified := false
	if e.cfg.Marker != nil {
		res, stripped, out, done := e.extractMarker(body, proc)
		if done {
			return res
		}
		candidateBody = stripped
		modified = out != body
		body = out
	}

	if e.cfg.Fallback == nil {
		return Result{Outcome: OutcomeNone}
	}
	candidate := e.fallbackCandidate(candidateBody, proc)
	cleaned, ok := proc.Clean(candidate, body)
	if !ok {
		// No further tier: the document stays as it was.
		return Result{Outcome: OutcomeNone}
	}
	if modified {
		return Result{Outcome: OutcomeExcerptAndBody, Excerpt: cleaned, Body: body}
	}
	return Result{Outcome: OutcomeExcerpt, Excerpt: cleaned}
}

// extractRange takes the text strictly between the first start/end marker
// pair. A matched range is intentional: it terminates the chain even when
// cleaning empties the excerpt, so the second return reports whether the
// range matched at all.
func (e *Engine) extractRange(body string, proc processor.FormatProcessor) (Result, bool) {
	rc := e.cfg.Range
	m := rc.pair.FindStringSubmatchIndex(body)
	if m == nil {
		return Result{}, false
	}

	raw := body[m[2*rc.innerIdx]:m[2*rc.innerIdx+1]]
	out := body
	if rc.Remove {
		openLo, openHi := m[2*rc.openIdx], m[2*rc.openIdx+1]
		closeLo, closeHi := m[2*rc.closeIdx], m[2*rc.closeIdx+1]
		out = body[:openLo] + body[openHi:closeLo] + body[closeHi:]
	}

	cleaned, ok := proc.Clean(raw, out)
	if !ok {
		return Result{Outcome: OutcomeNone}, true
	}
	return Result{Outcome: OutcomeExcerptAndBody, Excerpt: cleaned, Body: out}, true
}

// extractMarker splits the body at the first split-marker occurrence and
// takes everything before it. When cleaning empties the excerpt (say the
// text before the marker was only a heading) the chain falls through to the
// structural tier: stripped is the body with the marker spliced out for
// candidate derivation, out is the body to return per marker.remove.
func (e *Engine) extractMarker(body string, proc processor.FormatProcessor) (res Result, stripped, out string, done bool) {
	mc := e.cfg.Marker
	loc := mc.Pattern.FindStringIndex(body)
	if loc == nil {
		return Result{}, body, body, false
	}

	before := body[:loc[0]]
	stripped = body[:loc[0]] + body[loc[1]:]
	out = body
	if mc.Remove {
		out = stripped
	}

	cleaned, ok := proc.Clean(before, out)
	if !ok {
		return Result{}, stripped, out, false
	}
	return Result{Outcome: OutcomeExcerptAndBody, Excerpt: cleaned, Body: out}, stripped, out, true
}
