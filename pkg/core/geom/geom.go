// Package geom provides the rectangle type shared by the layout packages.
package geom

import "fmt"

// Rect is an axis-aligned rectangle in pixels. X and Y locate the top-left
// corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is shorthand for a Rect literal.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of r and o, or false if they do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return R(x0, y0, x1-x0, y1-y0), true
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return R(x0, y0, x1-x0, y1-y0)
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset shrinks r by the given edge amounts. Sizes never go negative.
func (r Rect) Inset(top, right, bottom, left float64) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(r.Width-left-right, 0),
		Height: max(r.Height-top-bottom, 0),
	}
}

// Expand grows r by amount on every side.
func (r Rect) Expand(amount float64) Rect {
	return R(r.X-amount, r.Y-amount, r.Width+2*amount, r.Height+2*amount)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g×%g)", r.X, r.Y, r.Width, r.Height)
}
