package autolayout

import (
	"strings"

	"github.com/matzehuels/seed/pkg/core/geom"
)

// Direction is the main axis.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// ParseDirection maps a `layout` property value to a direction. The second
// result is false for values that are not auto layout modes.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "horizontal", "row":
		return Horizontal, true
	case "vertical", "column", "stack":
		return Vertical, true
	}
	return 0, false
}

// Alignment positions children on the cross axis.
type Alignment int

const (
	Start Alignment = iota
	Center
	End
	Stretch
)

// ParseAlignment parses start, center, end or stretch. Unknown values are
// [Start].
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(s) {
	case "center":
		return Center
	case "end", "flex-end":
		return End
	case "stretch":
		return Stretch
	}
	return Start
}

func (a Alignment) String() string {
	switch a {
	case Center:
		return "center"
	case End:
		return "end"
	case Stretch:
		return "stretch"
	}
	return "start"
}

// Justify distributes free space on the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// ParseJustify parses a `justify` property value. Unknown values are
// [JustifyStart].
func ParseJustify(s string) Justify {
	switch strings.ToLower(s) {
	case "center":
		return JustifyCenter
	case "end", "flex-end":
		return JustifyEnd
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	}
	return JustifyStart
}

// Padding is the inset between a container's edge and its content box.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns equal padding on every side.
func Uniform(p float64) Padding { return Padding{p, p, p, p} }

// Config controls an auto layout pass.
type Config struct {
	Direction Direction
	Gap       float64
	Padding   Padding
	Align     Alignment
	Justify   Justify
}

// ChildSize is a child's size hint. A nil Width or Height means the child
// has no preferred size on that axis.
type ChildSize struct {
	Width     *float64
	Height    *float64
	MinWidth  float64
	MinHeight float64

	// FlexGrow and FlexShrink are carried for callers but do not affect the
	// arrangement.
	FlexGrow   float64
	FlexShrink float64
}

// Fixed returns a hint with a preferred width and height.
func Fixed(w, h float64) ChildSize { return ChildSize{Width: &w, Height: &h} }

func (c ChildSize) main(d Direction) (hint *float64, minimum float64) {
	if d == Horizontal {
		return c.Width, c.MinWidth
	}
	return c.Height, c.MinHeight
}

func (c ChildSize) cross(d Direction) (hint *float64, minimum float64) {
	if d == Horizontal {
		return c.Height, c.MinHeight
	}
	return c.Width, c.MinWidth
}

func extent(hint *float64, minimum float64) float64 {
	if hint != nil {
		return max(*hint, minimum)
	}
	return minimum
}

// Layout positions children inside container. The returned rectangles are in
// the same coordinate space as container, one per child in order.
func Layout(container geom.Rect, children []ChildSize, cfg Config) []geom.Rect {
	out := make([]geom.Rect, len(children))
	if len(children) == 0 {
		return out
	}
	content := container.Inset(cfg.Padding.Top, cfg.Padding.Right, cfg.Padding.Bottom, cfg.Padding.Left)

	mainAvail, crossAvail := content.Width, content.Height
	if cfg.Direction == Vertical {
		mainAvail, crossAvail = content.Height, content.Width
	}

	extents := make([]float64, len(children))
	used := cfg.Gap * float64(len(children)-1)
	for i, c := range children {
		extents[i] = extent(c.main(cfg.Direction))
		used += extents[i]
	}
	offset, gap := distribute(cfg.Justify, mainAvail-used, cfg.Gap, len(children))

	cursor := offset
	for i, c := range children {
		size := extents[i]
		crossSize, crossPos := crossPlacement(c, cfg, crossAvail)

		if cfg.Direction == Horizontal {
			out[i] = geom.R(content.X+cursor, content.Y+crossPos, size, crossSize)
		} else {
			out[i] = geom.R(content.X+crossPos, content.Y+cursor, crossSize, size)
		}
		cursor += size + gap
	}
	return out
}

// distribute returns the leading offset and the effective gap for the
// justification mode given the free main-axis space.
func distribute(j Justify, free, gap float64, n int) (offset, effectiveGap float64) {
	switch j {
	case JustifyCenter:
		return free / 2, gap
	case JustifyEnd:
		return free, gap
	}
	if free <= 0 {
		return 0, gap
	}
	switch j {
	case JustifySpaceBetween:
		if n > 1 {
			return 0, gap + free/float64(n-1)
		}
	case JustifySpaceAround:
		each := free / float64(n)
		return each / 2, gap + each
	case JustifySpaceEvenly:
		each := free / float64(n+1)
		return each, gap + each
	}
	return 0, gap
}

func crossPlacement(c ChildSize, cfg Config, avail float64) (size, pos float64) {
	if cfg.Align == Stretch {
		return avail, 0
	}
	size = extent(c.cross(cfg.Direction))
	switch cfg.Align {
	case Center:
		pos = (avail - size) / 2
	case End:
		pos = avail - size
	}
	return size, pos
}

// IntrinsicSize returns the smallest container size, padding included, that
// fits children at their hinted sizes.
func IntrinsicSize(children []ChildSize, cfg Config) (width, height float64) {
	var mainSum, crossMax float64
	for _, c := range children {
		mainSum += extent(c.main(cfg.Direction))
		crossMax = max(crossMax, extent(c.cross(cfg.Direction)))
	}
	if n := len(children); n > 1 {
		mainSum += cfg.Gap * float64(n-1)
	}
	p := cfg.Padding
	if cfg.Direction == Horizontal {
		return mainSum + p.Left + p.Right, crossMax + p.Top + p.Bottom
	}
	return crossMax + p.Left + p.Right, mainSum + p.Top + p.Bottom
}
