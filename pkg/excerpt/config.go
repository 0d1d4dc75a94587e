package excerpt

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/halostatue/tableau-excerpt-extension/pkg/processor"
)

// Strategy selects the structural fallback algorithm.
type Strategy string

const (
	StrategyParagraph Strategy = "paragraph"
	StrategySentence  Strategy = "sentence"
	StrategyWord      Strategy = "word"
)

// defaultCounts fills fallback.count when the user leaves it unset.
var defaultCounts = map[Strategy]int{
	StrategyParagraph: 1,
	StrategySentence:  2,
	StrategyWord:      25,
}

const (
	defaultMarkerPattern = `<!--\s*more\s*-->`
	defaultMoreSuffix    = "…"
)

// DiagnosticAllTiersDisabled is the non-fatal warning carried on a Config
// whose range, marker and fallback tiers are all disabled.
const DiagnosticAllTiersDisabled = "disabled because no extraction method is enabled"

// Sentinel errors for the fatal configuration taxonomy. Resolve returns
// ConfigError values that unwrap to one of these.
var (
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrInvalidStrategy = errors.New("invalid fallback strategy")
	ErrInvalidCount    = errors.New("invalid fallback count")
)

// ConfigError describes a fatal configuration problem for a single field.
type ConfigError struct {
	Field string
	Err   error
	msg   string
}

func (e *ConfigError) Error() string { return e.msg }
func (e *ConfigError) Unwrap() error { return e.Err }

// sectionState tracks how a config section appeared in the raw input.
// Absent sections take built-in defaults; an explicit YAML `false` disables
// the section outright.
type sectionState int

const (
	sectionDefault sectionState = iota
	sectionDisabled
	sectionSet
)

// boolNode reports whether node is a YAML boolean scalar and its value.
func boolNode(node *yaml.Node) (value, ok bool) {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
		return false, false
	}
	if err := node.Decode(&value); err != nil {
		return false, false
	}
	return value, true
}

// RawRange configures range-marker extraction. Its YAML value is either
// `false` or a mapping of {start, end, remove}.
type RawRange struct {
	state  sectionState
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Remove bool   `yaml:"remove"`
}

// Enable marks the section as explicitly configured, as a YAML mapping does.
func (r *RawRange) Enable() { r.state = sectionSet }

// Disable marks the section as explicitly disabled, as YAML `false` does.
func (r *RawRange) Disable() { r.state = sectionDisabled }

func (r *RawRange) UnmarshalYAML(node *yaml.Node) error {
	if b, ok := boolNode(node); ok {
		if !b {
			r.state = sectionDisabled
		}
		return nil
	}
	type plain RawRange
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = RawRange(p)
	r.state = sectionSet
	return nil
}

// RawMarker configures split-marker extraction. Its YAML value is either
// `false` or a mapping of {pattern, remove}.
type RawMarker struct {
	state   sectionState
	Pattern string `yaml:"pattern"`
	Remove  bool   `yaml:"remove"`
}

// Enable marks the section as explicitly configured.
func (m *RawMarker) Enable() { m.state = sectionSet }

// Disable marks the section as explicitly disabled.
func (m *RawMarker) Disable() { m.state = sectionDisabled }

func (m *RawMarker) UnmarshalYAML(node *yaml.Node) error {
	if b, ok := boolNode(node); ok {
		if !b {
			m.state = sectionDisabled
		}
		return nil
	}
	type plain RawMarker
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*m = RawMarker(p)
	m.state = sectionSet
	return nil
}

// RawFallback configures structural extraction. Its YAML value is either
// `false` or a mapping of {strategy, count, more}. Count and More are
// pointers so that an explicit zero value can be told apart from absence.
type RawFallback struct {
	state    sectionState
	Strategy string  `yaml:"strategy" validate:"omitempty,oneof=paragraph sentence word"`
	Count    *int    `yaml:"count" validate:"omitnil,gt=0"`
	More     *string `yaml:"more"`
}

// Enable marks the section as explicitly configured.
func (f *RawFallback) Enable() { f.state = sectionSet }

// Disable marks the section as explicitly disabled.
func (f *RawFallback) Disable() { f.state = sectionDisabled }

func (f *RawFallback) UnmarshalYAML(node *yaml.Node) error {
	if b, ok := boolNode(node); ok {
		if !b {
			f.state = sectionDisabled
		}
		return nil
	}
	type plain RawFallback
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = RawFallback(p)
	f.state = sectionSet
	return nil
}

// RawConfig is the untrusted configuration shape accepted from the host:
// YAML config files, CLI flag glue, or values built in code. An absent
// section takes the built-in defaults.
type RawConfig struct {
	Enabled  *bool       `yaml:"enabled"`
	Range    RawRange    `yaml:"range"`
	Marker   RawMarker   `yaml:"marker"`
	Fallback RawFallback `yaml:"fallback"`
}

// RangeConfig is the resolved range tier: the text between the first
// start/end pair is always the excerpt, wherever it sits in the body.
type RangeConfig struct {
	Start  *regexp.Regexp
	End    *regexp.Regexp
	Remove bool

	// pair matches start, a non-greedy interior, and end in one pass with
	// dot matching newlines. Named groups locate the three spans without
	// being disturbed by capture groups inside the user's patterns.
	pair     *regexp.Regexp
	openIdx  int
	innerIdx int
	closeIdx int
}

// MarkerConfig is the resolved split-marker tier.
type MarkerConfig struct {
	Pattern *regexp.Regexp
	Remove  bool
}

// FallbackConfig is the resolved structural tier.
type FallbackConfig struct {
	Strategy Strategy
	Count    int
	More     string
}

// Config is the canonical, immutable engine configuration, built once per
// run and shared read-only across workers. A nil section pointer means that
// tier is disabled.
type Config struct {
	Enabled    bool
	Range      *RangeConfig
	Marker     *MarkerConfig
	Fallback   *FallbackConfig
	Processors processor.Registry

	// Diagnostics carries non-fatal resolution warnings for the host to
	// surface. It is never an error to have diagnostics.
	Diagnostics []string
}

var validate = validator.New()

// Resolve normalizes and validates raw input into a canonical Config using
// the built-in processor registry. Resolution is pure and idempotent; the
// only non-fatal condition is all three tiers being disabled, which forces
// Enabled to false with a diagnostic.
func Resolve(raw RawConfig) (*Config, error) {
	return ResolveWithProcessors(raw, processor.Default())
}

// ResolveWithProcessors resolves raw with reg in place of the built-in
// processor registry. Keys absent from reg resolve to passthrough.
func ResolveWithProcessors(raw RawConfig, reg processor.Registry) (*Config, error) {
	cfg := &Config{
		Enabled:    raw.Enabled == nil || *raw.Enabled,
		Processors: reg,
	}

	if err := cfg.resolveRange(raw.Range); err != nil {
		return nil, err
	}
	if err := cfg.resolveMarker(raw.Marker); err != nil {
		return nil, err
	}
	if err := cfg.resolveFallback(raw.Fallback); err != nil {
		return nil, err
	}

	if cfg.Range == nil && cfg.Marker == nil && cfg.Fallback == nil {
		cfg.Enabled = false
		cfg.Diagnostics = append(cfg.Diagnostics, DiagnosticAllTiersDisabled)
	}
	return cfg, nil
}

func (c *Config) resolveRange(raw RawRange) error {
	// The range tier is off unless explicitly configured.
	if raw.state != sectionSet {
		return nil
	}
	if raw.Start == "" || raw.End == "" {
		c.Diagnostics = append(c.Diagnostics,
			"range disabled because both start and end patterns are required")
		return nil
	}

	start, err := compilePattern("range.start", raw.Start)
	if err != nil {
		return err
	}
	end, err := compilePattern("range.end", raw.End)
	if err != nil {
		return err
	}

	pair, err := regexp.Compile(`(?s)(?P<exopen>` + raw.Start + `)(?P<exinner>.*?)(?P<exclose>` + raw.End + `)`)
	if err != nil {
		// Individually valid patterns that cannot combine, e.g. a named
		// group colliding with ours.
		return &ConfigError{
			Field: "range",
			Err:   ErrInvalidPattern,
			msg:   fmt.Sprintf("range.start and range.end cannot be combined into one pattern: %v", err),
		}
	}

	c.Range = &RangeConfig{
		Start:    start,
		End:      end,
		Remove:   raw.Remove,
		pair:     pair,
		openIdx:  pair.SubexpIndex("exopen"),
		innerIdx: pair.SubexpIndex("exinner"),
		closeIdx: pair.SubexpIndex("exclose"),
	}
	return nil
}

func (c *Config) resolveMarker(raw RawMarker) error {
	if raw.state == sectionDisabled {
		return nil
	}
	pattern := raw.Pattern
	if pattern == "" {
		pattern = defaultMarkerPattern
	}
	re, err := compilePattern("marker.pattern", pattern)
	if err != nil {
		return err
	}
	c.Marker = &MarkerConfig{Pattern: re, Remove: raw.Remove}
	return nil
}

func (c *Config) resolveFallback(raw RawFallback) error {
	if raw.state == sectionDisabled {
		return nil
	}
	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fallbackConfigError(raw, verrs)
		}
		return err
	}

	strategy := Strategy(raw.Strategy)
	if strategy == "" {
		strategy = StrategyParagraph
	}
	count := defaultCounts[strategy]
	if raw.Count != nil {
		count = *raw.Count
	}
	more := defaultMoreSuffix
	if raw.More != nil {
		more = *raw.More
	}

	c.Fallback = &FallbackConfig{Strategy: strategy, Count: count, More: more}
	return nil
}

func fallbackConfigError(raw RawFallback, verrs validator.ValidationErrors) error {
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Strategy":
			return &ConfigError{
				Field: "fallback.strategy",
				Err:   ErrInvalidStrategy,
				msg: fmt.Sprintf("fallback.strategy must be one of paragraph, sentence or word, got: %s",
					raw.Strategy),
			}
		case "Count":
			return &ConfigError{
				Field: "fallback.count",
				Err:   ErrInvalidCount,
				msg:   fmt.Sprintf("fallback.count must be a positive integer, got: %d", *raw.Count),
			}
		}
	}
	return verrs
}

func compilePattern(field, value string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(value)
	if err != nil {
		return nil, &ConfigError{
			Field: field,
			Err:   ErrInvalidPattern,
			msg:   fmt.Sprintf("%s must be a valid regular expression, got: %s", field, value),
		}
	}
	return re, nil
}
