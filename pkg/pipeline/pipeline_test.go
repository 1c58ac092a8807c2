package pipeline

import (
	"math"
	"testing"

	"github.com/matzehuels/seed/pkg/errors"
)

func TestValidateGraphFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"DOT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateGraphFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGraphFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.ViewportWidth != DefaultViewportWidth || opts.ViewportHeight != DefaultViewportHeight {
		t.Errorf("viewport = %vx%v, want %vx%v", opts.ViewportWidth, opts.ViewportHeight, DefaultViewportWidth, DefaultViewportHeight)
	}
	if opts.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", opts.FontSize, DefaultFontSize)
	}
	if opts.LineHeight != DefaultLineHeight {
		t.Errorf("LineHeight = %v, want %v", opts.LineHeight, DefaultLineHeight)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %v, want %v", opts.MaxIterations, DefaultMaxIterations)
	}
	if opts.GraphFormat != DefaultGraphFormat {
		t.Errorf("GraphFormat = %q, want %q", opts.GraphFormat, DefaultGraphFormat)
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}

	custom := Options{ViewportWidth: 1024, FontSize: 14}
	if err := custom.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if custom.ViewportWidth != 1024 || custom.FontSize != 14 {
		t.Errorf("explicit values overwritten: %+v", custom)
	}
}

func TestValidateAndSetDefaultsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative width", Options{ViewportWidth: -1}},
		{"nan height", Options{ViewportHeight: math.NaN()}},
		{"inf font", Options{FontSize: math.Inf(1)}},
		{"negative line height", Options{LineHeight: -0.5}},
		{"negative iterations", Options{MaxIterations: -3}},
		{"bad format", Options{GraphFormat: "png"}},
		{"nan suggestion", Options{Suggestions: []Suggestion{{Element: "A", Property: "width", Value: math.NaN()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		in      string
		want    Suggestion
		wantErr bool
	}{
		{"Box.width=120", Suggestion{"Box", "width", 120}, false},
		{" Card.x = -8.5 ", Suggestion{"Card", "x", -8.5}, false},
		{"Box.width", Suggestion{}, true},
		{"width=120", Suggestion{}, true},
		{"Box.width=wide", Suggestion{}, true},
		{".width=1", Suggestion{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSuggestion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSuggestion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSuggestion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{Suggestions: []Suggestion{{"Box", "width", 120}}}
	a.SetDefaults()
	b := a
	b.Suggestions = nil

	ka, kb := a.LayoutKeyOpts(), b.LayoutKeyOpts()
	if len(ka.Suggestions) != 1 || ka.Suggestions[0] != "Box.width=120" {
		t.Errorf("LayoutKeyOpts().Suggestions = %v, want [Box.width=120]", ka.Suggestions)
	}
	if kb.Suggestions != nil {
		t.Errorf("LayoutKeyOpts().Suggestions = %v, want nil", kb.Suggestions)
	}

	g := Options{GraphFormat: "svg", Detailed: true}
	if got := g.GraphKeyOpts().Format; got != "svg+detailed" {
		t.Errorf("GraphKeyOpts().Format = %q, want svg+detailed", got)
	}
}

func TestOverlay(t *testing.T) {
	base := Options{ViewportWidth: 1024, ViewportHeight: 768, FontSize: 14, GraphFormat: "svg"}
	got := Options{ViewportWidth: 320, Detailed: true}.Overlay(base)

	if got.ViewportWidth != 320 {
		t.Errorf("ViewportWidth = %v, want 320 from the request", got.ViewportWidth)
	}
	if got.ViewportHeight != 768 || got.FontSize != 14 || got.GraphFormat != "svg" {
		t.Errorf("Overlay() = %+v, want base values for unset fields", got)
	}
	if !got.Detailed {
		t.Error("Overlay() should keep request flags")
	}
	if got.LineHeight != 0 {
		t.Errorf("LineHeight = %v, want 0 left for defaults", got.LineHeight)
	}
}
