package grid

// Placement locates a child by 1-indexed grid lines. End lines are
// exclusive. Zero means unset: an unset end spans one track.
type Placement struct {
	ColumnStart, ColumnEnd int
	RowStart, RowEnd       int
}

// Cell returns a placement covering a single cell.
func Cell(column, row int) Placement {
	return Placement{ColumnStart: column, ColumnEnd: column + 1, RowStart: row, RowEnd: row + 1}
}

// IsAuto reports whether neither axis is placed.
func (p Placement) IsAuto() bool { return p.ColumnStart == 0 && p.RowStart == 0 }

func span(start, end int) int {
	if end > start {
		return end - start
	}
	return 1
}

// ColumnSpan returns the number of columns covered.
func (p Placement) ColumnSpan() int { return span(p.ColumnStart, p.ColumnEnd) }

// RowSpan returns the number of rows covered.
func (p Placement) RowSpan() int { return span(p.RowStart, p.RowEnd) }

// PlacementStrategy resolves unset placements. Implementations return one
// placement per input with every start line set.
type PlacementStrategy interface {
	Place(placements []Placement) []Placement
}

// RowAuto places each unplaced child i in column i+1 of row 1. A child
// placed on only one axis starts at line 1 on the other.
type RowAuto struct{}

// Place implements [PlacementStrategy].
func (RowAuto) Place(placements []Placement) []Placement {
	out := make([]Placement, len(placements))
	for i, p := range placements {
		if p.IsAuto() {
			out[i] = Cell(i+1, 1)
			continue
		}
		if p.ColumnStart == 0 {
			p.ColumnStart, p.ColumnEnd = 1, 0
		}
		if p.RowStart == 0 {
			p.RowStart, p.RowEnd = 1, 0
		}
		out[i] = p
	}
	return out
}
