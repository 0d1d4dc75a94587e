package excerpt

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func mustResolve(t *testing.T, raw RawConfig) *Config {
	t.Helper()
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return cfg
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestResolve_Defaults(t *testing.T) {
	cfg := mustResolve(t, RawConfig{})

	if !cfg.Enabled {
		t.Error("Enabled = false, want true")
	}
	if cfg.Range != nil {
		t.Error("Range should be disabled by default")
	}
	if cfg.Marker == nil {
		t.Fatal("Marker should be enabled by default")
	}
	if !cfg.Marker.Pattern.MatchString("<!--more-->") || !cfg.Marker.Pattern.MatchString("<!-- more -->") {
		t.Errorf("default marker pattern %q does not match more comments", cfg.Marker.Pattern)
	}
	if cfg.Marker.Remove {
		t.Error("Marker.Remove = true, want false")
	}
	if cfg.Fallback == nil {
		t.Fatal("Fallback should be enabled by default")
	}
	if cfg.Fallback.Strategy != StrategyParagraph {
		t.Errorf("Fallback.Strategy = %q, want paragraph", cfg.Fallback.Strategy)
	}
	if cfg.Fallback.Count != 1 {
		t.Errorf("Fallback.Count = %d, want 1", cfg.Fallback.Count)
	}
	if len(cfg.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %q, want none", cfg.Diagnostics)
	}
}

func TestResolve_StrategyDefaultCounts(t *testing.T) {
	tests := []struct {
		strategy string
		want     int
	}{
		{"paragraph", 1},
		{"sentence", 2},
		{"word", 25},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			raw := RawConfig{}
			raw.Fallback.Strategy = tt.strategy
			raw.Fallback.Enable()

			cfg := mustResolve(t, raw)
			if cfg.Fallback.Count != tt.want {
				t.Errorf("Count = %d, want %d", cfg.Fallback.Count, tt.want)
			}
		})
	}
}

func TestResolve_ExplicitCountWins(t *testing.T) {
	raw := RawConfig{}
	raw.Fallback.Strategy = "word"
	raw.Fallback.Count = intPtr(7)
	raw.Fallback.More = strPtr("...")
	raw.Fallback.Enable()

	cfg := mustResolve(t, raw)
	if cfg.Fallback.Count != 7 {
		t.Errorf("Count = %d, want 7", cfg.Fallback.Count)
	}
	if cfg.Fallback.More != "..." {
		t.Errorf("More = %q, want %q", cfg.Fallback.More, "...")
	}
}

func TestResolve_InvalidPattern(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RawConfig)
		wantMsg string
	}{
		{
			name: "marker",
			mutate: func(raw *RawConfig) {
				raw.Marker.Pattern = "["
				raw.Marker.Enable()
			},
			wantMsg: "marker.pattern must be a valid regular expression, got: [",
		},
		{
			name: "range_start",
			mutate: func(raw *RawConfig) {
				raw.Range.Start = "(unclosed"
				raw.Range.End = "END"
				raw.Range.Enable()
			},
			wantMsg: "range.start must be a valid regular expression, got: (unclosed",
		},
		{
			name: "range_end",
			mutate: func(raw *RawConfig) {
				raw.Range.Start = "START"
				raw.Range.End = "*bad"
				raw.Range.Enable()
			},
			wantMsg: "range.end must be a valid regular expression, got: *bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawConfig{}
			tt.mutate(&raw)

			_, err := Resolve(raw)
			if err == nil {
				t.Fatal("Resolve() error = nil, want invalid pattern")
			}
			if !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("errors.Is(err, ErrInvalidPattern) = false for %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestResolve_InvalidStrategy(t *testing.T) {
	raw := RawConfig{}
	raw.Fallback.Strategy = "chars"
	raw.Fallback.Enable()

	_, err := Resolve(raw)
	if !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("Resolve() error = %v, want ErrInvalidStrategy", err)
	}
}

func TestResolve_InvalidCount(t *testing.T) {
	for _, count := range []int{0, -3} {
		raw := RawConfig{}
		raw.Fallback.Strategy = "word"
		raw.Fallback.Count = intPtr(count)
		raw.Fallback.Enable()

		_, err := Resolve(raw)
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Resolve() with count %d error = %v, want ErrInvalidCount", count, err)
		}
	}
}

func TestResolve_AllTiersDisabled(t *testing.T) {
	raw := RawConfig{Enabled: boolPtr(true)}
	raw.Range.Disable()
	raw.Marker.Disable()
	raw.Fallback.Disable()

	cfg := mustResolve(t, raw)
	if cfg.Enabled {
		t.Error("Enabled = true, want false when every tier is disabled")
	}
	if len(cfg.Diagnostics) != 1 || cfg.Diagnostics[0] != DiagnosticAllTiersDisabled {
		t.Errorf("Diagnostics = %q, want [%q]", cfg.Diagnostics, DiagnosticAllTiersDisabled)
	}
}

func TestResolve_RangeRequiresBothPatterns(t *testing.T) {
	raw := RawConfig{}
	raw.Range.Start = "BEGIN"
	raw.Range.Enable()

	cfg := mustResolve(t, raw)
	if cfg.Range != nil {
		t.Error("Range should stay disabled without an end pattern")
	}
	if len(cfg.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %q, want one entry", cfg.Diagnostics)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	raw := RawConfig{}
	raw.Range.Start = "<!-- excerpt -->"
	raw.Range.End = "<!-- /excerpt -->"
	raw.Range.Remove = true
	raw.Range.Enable()
	raw.Fallback.Strategy = "sentence"
	raw.Fallback.Enable()

	first := mustResolve(t, raw)
	second := mustResolve(t, raw)

	if first.Enabled != second.Enabled {
		t.Error("Enabled differs between resolutions")
	}
	if first.Range.Start.String() != second.Range.Start.String() ||
		first.Range.End.String() != second.Range.End.String() ||
		first.Range.Remove != second.Range.Remove {
		t.Error("Range differs between resolutions")
	}
	if first.Marker.Pattern.String() != second.Marker.Pattern.String() {
		t.Error("Marker differs between resolutions")
	}
	if *first.Fallback != *second.Fallback {
		t.Error("Fallback differs between resolutions")
	}
}

func TestRawConfig_UnmarshalYAML(t *testing.T) {
	t.Run("sections_accept_false", func(t *testing.T) {
		var raw RawConfig
		input := "enabled: true\nrange: false\nmarker: false\nfallback: false\n"
		if err := yaml.Unmarshal([]byte(input), &raw); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		cfg := mustResolve(t, raw)
		if cfg.Enabled {
			t.Error("Enabled = true, want false")
		}
	})

	t.Run("sections_accept_mappings", func(t *testing.T) {
		var raw RawConfig
		input := `
marker:
  pattern: '<!-- split -->'
  remove: true
fallback:
  strategy: word
  count: 10
  more: '...'
`
		if err := yaml.Unmarshal([]byte(input), &raw); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		cfg := mustResolve(t, raw)
		if cfg.Marker == nil || !cfg.Marker.Remove {
			t.Fatal("marker mapping not applied")
		}
		if !cfg.Marker.Pattern.MatchString("<!-- split -->") {
			t.Error("marker pattern not compiled from mapping")
		}
		if cfg.Fallback.Strategy != StrategyWord || cfg.Fallback.Count != 10 || cfg.Fallback.More != "..." {
			t.Errorf("Fallback = %+v, want word/10/...", cfg.Fallback)
		}
	})

	t.Run("absent_sections_take_defaults", func(t *testing.T) {
		var raw RawConfig
		if err := yaml.Unmarshal([]byte("enabled: true\n"), &raw); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		cfg := mustResolve(t, raw)
		if cfg.Marker == nil || cfg.Fallback == nil {
			t.Error("absent sections should resolve to defaults")
		}
	})
}
