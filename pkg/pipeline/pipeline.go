// Package pipeline runs layout passes for the CLI, the HTTP API and the
// JSON-RPC service.
//
// Centralizing option defaults, validation and caching here keeps every
// entry point consistent.
//
// # Stages
//
//  1. Load: decode a JSON or TOML document ([Load], [Parse])
//  2. Solve: build the constraint system and solve it ([Runner.Solve])
//  3. Compose: turn the solution into a layout tree ([Runner.Layout])
//
// [Runner.Layout] caches composed trees under layout:<hash>, where the
// hash covers the canonical document and the layout options. Solving on
// its own is never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	doc, err := pipeline.Load("card.seed.json")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Layout(ctx, doc, pipeline.Options{ViewportWidth: 1024})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Tree.Len(), result.CacheInfo.LayoutHit)
package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
	"github.com/matzehuels/seed/pkg/core/layout"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/render/dot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and RPC
// =============================================================================

const (
	// DefaultViewportWidth sizes root elements left without a width.
	DefaultViewportWidth = layout.DefaultViewportWidth

	// DefaultViewportHeight sizes root elements left without a height.
	DefaultViewportHeight = layout.DefaultViewportHeight

	// DefaultFontSize is the base for text and em/rem lengths.
	DefaultFontSize = layout.DefaultFontSize

	// DefaultLineHeight is the text line height multiplier.
	DefaultLineHeight = layout.DefaultLineHeight

	// DefaultMaxIterations caps solver pivots per optimization pass.
	DefaultMaxIterations = cassowary.DefaultMaxIterations

	// DefaultGraphFormat is the constraint graph output format.
	DefaultGraphFormat = dot.FormatDOT
)

// ValidGraphFormats is the set of supported constraint graph formats.
var ValidGraphFormats = map[string]bool{
	dot.FormatDOT: true,
	dot.FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout pass.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	FontSize       float64 `json:"font_size,omitempty"`
	LineHeight     float64 `json:"line_height,omitempty"`
	MaxIterations  int     `json:"max_iterations,omitempty"`

	// Solve options
	Suggestions []Suggestion `json:"suggest,omitempty"`

	// Graph options
	GraphFormat string `json:"graph_format,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`

	// Refresh skips cache reads but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Suggestion asks the solver to move an element property towards a value.
type Suggestion struct {
	Element  string  `json:"element"`
	Property string  `json:"property"`
	Value    float64 `json:"value"`
}

func (s Suggestion) String() string {
	return fmt.Sprintf("%s.%s=%g", s.Element, s.Property, s.Value)
}

// ParseSuggestion parses "Name.property=value".
func ParseSuggestion(s string) (Suggestion, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return Suggestion{}, errors.New(errors.ErrCodeInvalidInput, "suggestion %q must be Name.property=value", s)
	}
	name, prop, ok := strings.Cut(strings.TrimSpace(target), ".")
	if !ok || name == "" || prop == "" {
		return Suggestion{}, errors.New(errors.ErrCodeInvalidInput, "suggestion %q must be Name.property=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Suggestion{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "suggestion %q", s)
	}
	return Suggestion{Element: name, Property: prop, Value: v}, nil
}

// Result contains the outputs of a layout pass.
type Result struct {
	// Tree is the composed layout tree.
	Tree *layout.Tree

	// DocHash is the content hash of the canonical document.
	DocHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the tree came from the cache.
	CacheInfo CacheInfo
}

// SolveResult contains the outputs of [Runner.Solve].
type SolveResult struct {
	System   *constraint.System
	Solution *constraint.Solution
	Stats    Stats
}

// Stats contains layout statistics.
type Stats struct {
	Elements    int
	Constraints int
	Nodes       int
	SolveTime   time.Duration
	ComposeTime time.Duration
}

// MarshalJSON reports durations in milliseconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Elements    int     `json:"elements"`
		Constraints int     `json:"constraints"`
		Nodes       int     `json:"nodes"`
		SolveMS     float64 `json:"solve_ms"`
		ComposeMS   float64 `json:"compose_ms"`
	}{
		Elements:    s.Elements,
		Constraints: s.Constraints,
		Nodes:       s.Nodes,
		SolveMS:     float64(s.SolveTime) / float64(time.Millisecond),
		ComposeMS:   float64(s.ComposeTime) / float64(time.Millisecond),
	})
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool // Whether the tree came from cache
	GraphHit  bool // Whether the rendered graph came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateGraphFormat checks that a graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid graph format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

func validateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite, non-negative number, got %v", name, v)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"viewport_width", o.ViewportWidth},
		{"viewport_height", o.ViewportHeight},
		{"font_size", o.FontSize},
		{"line_height", o.LineHeight},
	} {
		if err := validateDimension(f.name, f.v); err != nil {
			return err
		}
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_iterations must be non-negative, got %d", o.MaxIterations)
	}
	for _, s := range o.Suggestions {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "suggestion %s is not finite", s)
		}
	}

	o.SetDefaults()
	if err := ValidateGraphFormat(o.GraphFormat); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero values with the package defaults.
func (o *Options) SetDefaults() {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.LineHeight == 0 {
		o.LineHeight = DefaultLineHeight
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.GraphFormat == "" {
		o.GraphFormat = DefaultGraphFormat
	}
}

// Overlay returns o with its zero layout fields taken from base. Servers
// use it to apply configured defaults beneath per-request options.
func (o Options) Overlay(base Options) Options {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = base.ViewportWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = base.ViewportHeight
	}
	if o.FontSize == 0 {
		o.FontSize = base.FontSize
	}
	if o.LineHeight == 0 {
		o.LineHeight = base.LineHeight
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = base.MaxIterations
	}
	if o.GraphFormat == "" {
		o.GraphFormat = base.GraphFormat
	}
	return o
}

// LayoutOptions converts o to composer options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		ViewportWidth:  o.ViewportWidth,
		ViewportHeight: o.ViewportHeight,
		FontSize:       o.FontSize,
		LineHeight:     o.LineHeight,
		MaxIterations:  o.MaxIterations,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ViewportWidth:  o.ViewportWidth,
		ViewportHeight: o.ViewportHeight,
		FontSize:       o.FontSize,
		LineHeight:     o.LineHeight,
		MaxIterations:  o.MaxIterations,
		Suggestions:    suggestionStrings(o.Suggestions),
	}
}

func suggestionStrings(s []Suggestion) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.String()
	}
	return out
}

// GraphKeyOpts returns cache key options for graph rendering.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	format := o.GraphFormat
	if o.Detailed {
		format += "+detailed"
	}
	return cache.GraphKeyOpts{Format: format}
}
