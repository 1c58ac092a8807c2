package constraint

import (
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
)

// ElementID identifies a registered element. IDs start at 1 and increase
// in registration order.
type ElementID uint64

// Solved property names.
const (
	PropX      = "x"
	PropY      = "y"
	PropWidth  = "width"
	PropHeight = "height"
)

// ElementVars are the solver variables owned by one element.
type ElementVars struct {
	X, Y, Width, Height cassowary.Variable
}

func term(v cassowary.Variable, k float64) cassowary.Term { return cassowary.T(k, v) }

func (v ElementVars) Left() cassowary.Expression { return cassowary.NewExpression(0, term(v.X, 1)) }

func (v ElementVars) Top() cassowary.Expression { return cassowary.NewExpression(0, term(v.Y, 1)) }

func (v ElementVars) Right() cassowary.Expression {
	return cassowary.NewExpression(0, term(v.X, 1), term(v.Width, 1))
}

func (v ElementVars) Bottom() cassowary.Expression {
	return cassowary.NewExpression(0, term(v.Y, 1), term(v.Height, 1))
}

func (v ElementVars) CenterX() cassowary.Expression {
	return cassowary.NewExpression(0, term(v.X, 1), term(v.Width, 0.5))
}

func (v ElementVars) CenterY() cassowary.Expression {
	return cassowary.NewExpression(0, term(v.Y, 1), term(v.Height, 0.5))
}

// Edge returns the expression for an alignment edge.
func (v ElementVars) Edge(e ast.Edge) (cassowary.Expression, bool) {
	switch e {
	case ast.EdgeLeft:
		return v.Left(), true
	case ast.EdgeRight:
		return v.Right(), true
	case ast.EdgeTop:
		return v.Top(), true
	case ast.EdgeBottom:
		return v.Bottom(), true
	case ast.EdgeCenterX:
		return v.CenterX(), true
	case ast.EdgeCenterY:
		return v.CenterY(), true
	}
	return cassowary.Expression{}, false
}

// Variable returns the variable backing a plain layout property.
// left and top alias x and y.
func (v ElementVars) Variable(property string) (cassowary.Variable, bool) {
	switch property {
	case "x", "left":
		return v.X, true
	case "y", "top":
		return v.Y, true
	case "width":
		return v.Width, true
	case "height":
		return v.Height, true
	}
	return 0, false
}

// Property returns the expression for a plain or derived property.
func (v ElementVars) Property(property string) (cassowary.Expression, bool) {
	if variable, ok := v.Variable(property); ok {
		return cassowary.NewExpression(0, term(variable, 1)), true
	}
	switch property {
	case "right":
		return v.Right(), true
	case "bottom":
		return v.Bottom(), true
	case "center-x", "center_x", "centerX":
		return v.CenterX(), true
	case "center-y", "center_y", "centerY":
		return v.CenterY(), true
	}
	return cassowary.Expression{}, false
}

type axis int

const (
	axisNone axis = iota
	axisHorizontal
	axisVertical
)

func axisOf(property string) axis {
	switch property {
	case "x", "left", "width", "right", "center-x", "center_x", "centerX":
		return axisHorizontal
	case "y", "top", "height", "bottom", "center-y", "center_y", "centerY":
		return axisVertical
	}
	return axisNone
}

// Strength maps a document priority onto a solver strength. Low collapses
// into weak.
func Strength(p ast.Priority) cassowary.Strength {
	switch p = p.Effective(); {
	case p >= ast.PriorityRequired:
		return cassowary.Required
	case p >= ast.PriorityHigh:
		return cassowary.Strong
	case p >= ast.PriorityMedium:
		return cassowary.Medium
	default:
		return cassowary.Weak
	}
}

// placementStrength sits below weak so any document rule overrides the
// default child-at-parent-origin placement.
const placementStrength = cassowary.Strength(0.001)
