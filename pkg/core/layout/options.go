package layout

import (
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
	"github.com/matzehuels/seed/pkg/core/layout/grid"
	"github.com/matzehuels/seed/pkg/core/layout/text"
)

// Default option values.
const (
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
	DefaultFontSize       = 16.0
	DefaultLineHeight     = 1.2
)

// Options configures a layout pass.
type Options struct {
	// ViewportWidth and ViewportHeight size root elements the constraints
	// leave unsized.
	ViewportWidth  float64
	ViewportHeight float64

	// FontSize and LineHeight are the defaults for text and em/rem lengths.
	FontSize   float64
	LineHeight float64

	// MaxIterations caps solver pivots per optimization pass.
	MaxIterations int

	// Measurer sizes text. Nil means [text.Approximate].
	Measurer text.Measurer

	// Placement resolves auto-placed grid children. Nil means [grid.RowAuto].
	Placement grid.PlacementStrategy
}

// DefaultOptions returns the options used for zero-valued fields.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		FontSize:       DefaultFontSize,
		LineHeight:     DefaultLineHeight,
		MaxIterations:  cassowary.DefaultMaxIterations,
		Measurer:       text.Approximate{},
		Placement:      grid.RowAuto{},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = d.ViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = d.ViewportHeight
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.LineHeight <= 0 {
		o.LineHeight = d.LineHeight
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Measurer == nil {
		o.Measurer = d.Measurer
	}
	if o.Placement == nil {
		o.Placement = d.Placement
	}
	return o
}
