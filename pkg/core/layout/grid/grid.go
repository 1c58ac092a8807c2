package grid

import (
	"strings"

	"github.com/matzehuels/seed/pkg/core/geom"
)

// Alignment positions an item within its cell.
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
	case "end":
		return End
	case "stretch":
		return Stretch
	}
	return Start
}

// Config describes a grid container.
type Config struct {
	Columns      []Track
	Rows         []Track
	ColumnGap    float64
	RowGap       float64
	JustifyItems Alignment
	AlignItems   Alignment

	// StretchAuto lets auto tracks share leftover space when the grid has no
	// fraction tracks.
	StretchAuto bool

	// Placement resolves unplaced items. Nil means [RowAuto].
	Placement PlacementStrategy
}

// Item is a child's size hint and placement.
type Item struct {
	Width     *float64
	Height    *float64
	Placement Placement
}

// Size returns the number of columns and rows the grid needs: the larger of
// the defined tracks and the furthest placement end, at least one each.
func Size(cfg Config, placements []Placement) (columns, rows int) {
	columns, rows = max(len(cfg.Columns), 1), max(len(cfg.Rows), 1)
	for _, p := range placements {
		columns = max(columns, p.ColumnStart+p.ColumnSpan()-1)
		rows = max(rows, p.RowStart+p.RowSpan()-1)
	}
	return columns, rows
}

// Layout places items inside container and returns one rectangle per item in
// the same coordinate space as container.
func Layout(container geom.Rect, items []Item, cfg Config) []geom.Rect {
	out := make([]geom.Rect, len(items))
	if len(items) == 0 {
		return out
	}
	strategy := cfg.Placement
	if strategy == nil {
		strategy = RowAuto{}
	}
	requested := make([]Placement, len(items))
	for i, it := range items {
		requested[i] = it.Placement
	}
	placed := strategy.Place(requested)
	for i := range placed {
		placed[i].ColumnStart = max(placed[i].ColumnStart, 1)
		placed[i].RowStart = max(placed[i].RowStart, 1)
	}

	numCols, numRows := Size(cfg, placed)
	cols := resolveTracks(pad(cfg.Columns, numCols), container.Width, cfg.ColumnGap, cfg.StretchAuto)
	rows := resolveTracks(pad(cfg.Rows, numRows), container.Height, cfg.RowGap, cfg.StretchAuto)
	colPos := positions(cols, cfg.ColumnGap, container.X)
	rowPos := positions(rows, cfg.RowGap, container.Y)

	for i, it := range items {
		p := placed[i]
		c0, r0 := p.ColumnStart-1, p.RowStart-1
		cellW := spanSize(cols, c0, p.ColumnSpan(), cfg.ColumnGap)
		cellH := spanSize(rows, r0, p.RowSpan(), cfg.RowGap)

		w, x := align(cfg.JustifyItems, it.Width, cellW)
		h, y := align(cfg.AlignItems, it.Height, cellH)
		out[i] = geom.R(colPos[c0]+x, rowPos[r0]+y, w, h)
	}
	return out
}

// pad extends tracks with auto tracks up to n.
func pad(tracks []Track, n int) []Track {
	if len(tracks) >= n {
		return tracks
	}
	out := make([]Track, n)
	copy(out, tracks)
	for i := len(tracks); i < n; i++ {
		out[i] = Auto()
	}
	return out
}

// spanSize is the extent of span tracks starting at start, including the
// gaps between them.
func spanSize(sizes []float64, start, span int, gap float64) float64 {
	var total float64
	for i := start; i < start+span && i < len(sizes); i++ {
		total += sizes[i]
	}
	return total + gap*float64(span-1)
}

func align(a Alignment, hint *float64, cell float64) (size, offset float64) {
	if a == Stretch {
		return cell, 0
	}
	size = cell
	if hint != nil {
		size = min(*hint, cell)
	}
	switch a {
	case Center:
		offset = (cell - size) / 2
	case End:
		offset = cell - size
	}
	return size, offset
}
