package ast

import "fmt"

// PropertyValue is the value side of a [Property].
type PropertyValue interface {
	propertyValue()
}

// Number is a unitless numeric value.
type Number float64

// String is a free-form string value, including values whose syntax
// (colors, gradients, transforms) is interpreted by downstream stages.
type String string

// Keyword is a bare identifier such as "horizontal" or "center".
type Keyword string

// Bool is a boolean value.
type Bool bool

// GridTracks is a track list for grid-template-columns/rows.
type GridTracks []TrackSize

// GridLine is an explicit 1-indexed grid placement. Zero means unset;
// negative indices count from the end and are not resolved by layout.
type GridLine struct {
	Start int
	End   int
}

func (Number) propertyValue()     {}
func (String) propertyValue()     {}
func (Keyword) propertyValue()    {}
func (Bool) propertyValue()       {}
func (GridTracks) propertyValue() {}
func (GridLine) propertyValue()   {}
func (Length) propertyValue()     {}
func (TokenRef) propertyValue()   {}

// TrackSize is one entry in a [GridTracks] list.
type TrackSize interface {
	trackSize()
}

// TrackFixed is a fixed-length track.
type TrackFixed struct{ Length Length }

// TrackFraction is a flexible track sized in fr units.
type TrackFraction float64

// TrackAuto, TrackMinContent and TrackMaxContent are content-sized tracks.
type (
	TrackAuto       struct{}
	TrackMinContent struct{}
	TrackMaxContent struct{}
)

// TrackMinMax bounds a track between two sizes.
type TrackMinMax struct {
	Min, Max TrackSize
}

// RepeatKind selects how a [TrackRepeat] count is determined.
type RepeatKind int

const (
	RepeatCount RepeatKind = iota
	RepeatAutoFill
	RepeatAutoFit
)

// TrackRepeat repeats a pattern of track sizes.
type TrackRepeat struct {
	Kind  RepeatKind
	Count int
	Sizes []TrackSize
}

func (TrackFixed) trackSize()      {}
func (TrackFraction) trackSize()   {}
func (TrackAuto) trackSize()       {}
func (TrackMinContent) trackSize() {}
func (TrackMaxContent) trackSize() {}
func (TrackMinMax) trackSize()     {}
func (TrackRepeat) trackSize()     {}

func (t TrackFixed) String() string    { return t.Length.String() }
func (t TrackFraction) String() string { return fmt.Sprintf("%gfr", float64(t)) }
func (TrackAuto) String() string       { return "auto" }
func (TrackMinContent) String() string { return "min-content" }
func (TrackMaxContent) String() string { return "max-content" }
