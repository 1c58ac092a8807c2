package constraint

import (
	"fmt"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
)

// maxTokenDepth bounds token-to-token indirection.
const maxTokenDepth = 16

// evaluation carries the context of one expression translation.
type evaluation struct {
	axis    axis
	targets []ElementID
	depth   int
}

// linearize converts a document expression into a linear solver
// expression. Property references keep their variable terms through
// addition, subtraction and scaling by constants; min/max only accept
// constant arguments.
func (s *System) linearize(e ast.Expression, ev *evaluation) (cassowary.Expression, error) {
	switch x := e.(type) {
	case nil:
		return cassowary.Expression{}, nil

	case ast.Literal:
		return cassowary.NewExpression(float64(x)), nil

	case ast.Length:
		return s.length(x, ev), nil

	case ast.TokenRef:
		return s.token(x, ev)

	case ast.PropertyRef:
		target, err := s.resolve(x.Element)
		if err != nil {
			return cassowary.Expression{}, err
		}
		expr, ok := target.vars.Property(x.Property)
		if !ok {
			return cassowary.Expression{}, &UnknownPropertyError{Element: target.info.Name, Property: x.Property}
		}
		ev.targets = append(ev.targets, target.info.ID)
		return expr, nil

	case ast.BinaryOp:
		l, err := s.linearize(x.Left, ev)
		if err != nil {
			return cassowary.Expression{}, err
		}
		r, err := s.linearize(x.Right, ev)
		if err != nil {
			return cassowary.Expression{}, err
		}
		return combine(x, l, r)

	case ast.Function:
		return s.function(x, ev)
	}
	return cassowary.Expression{}, &ExpressionError{Expression: fmt.Sprint(e), Reason: "unsupported expression"}
}

func combine(op ast.BinaryOp, l, r cassowary.Expression) (cassowary.Expression, error) {
	switch op.Op {
	case ast.OpAdd:
		return l.Add(r), nil
	case ast.OpSub:
		return l.Sub(r), nil
	case ast.OpMul:
		switch {
		case l.IsConstant():
			return r.Scale(l.Constant), nil
		case r.IsConstant():
			return l.Scale(r.Constant), nil
		}
		return cassowary.Expression{}, &ExpressionError{Expression: op.String(), Reason: "product of two property references is not linear"}
	case ast.OpDiv:
		if !r.IsConstant() {
			return cassowary.Expression{}, &ExpressionError{Expression: op.String(), Reason: "divisor must be constant"}
		}
		if r.Constant == 0 {
			return cassowary.Expression{}, &ExpressionError{Expression: op.String(), Reason: "division by zero"}
		}
		return l.Scale(1 / r.Constant), nil
	}
	return cassowary.Expression{}, &ExpressionError{Expression: op.String(), Reason: fmt.Sprintf("unknown operator %q", op.Op)}
}

func (s *System) function(f ast.Function, ev *evaluation) (cassowary.Expression, error) {
	if f.Name != "min" && f.Name != "max" {
		return cassowary.Expression{}, &ExpressionError{Expression: f.String(), Reason: "unknown function"}
	}
	if len(f.Args) == 0 {
		return cassowary.Expression{}, &ExpressionError{Expression: f.String(), Reason: "no arguments"}
	}
	var result float64
	for i, arg := range f.Args {
		v, err := s.linearize(arg, ev)
		if err != nil {
			return cassowary.Expression{}, err
		}
		if !v.IsConstant() {
			return cassowary.Expression{}, &ExpressionError{Expression: f.String(), Reason: "arguments must be constant"}
		}
		switch {
		case i == 0:
			result = v.Constant
		case f.Name == "min":
			result = min(result, v.Constant)
		default:
			result = max(result, v.Constant)
		}
	}
	return cassowary.NewExpression(result), nil
}

// length converts l to pixels. Percentages become a term on the parent's
// width or height, matching the axis of the constrained property.
func (s *System) length(l ast.Length, ev *evaluation) cassowary.Expression {
	if l.Unit != ast.Percent {
		return cassowary.NewExpression(l.Resolve(0, s.fontSize))
	}
	parent := s.parent()
	if parent == nil || ev == nil {
		return cassowary.NewExpression(0)
	}
	switch ev.axis {
	case axisHorizontal:
		ev.targets = append(ev.targets, parent.info.ID)
		return cassowary.NewExpression(0, term(parent.vars.Width, l.Value/100))
	case axisVertical:
		ev.targets = append(ev.targets, parent.info.ID)
		return cassowary.NewExpression(0, term(parent.vars.Height, l.Value/100))
	}
	return cassowary.NewExpression(0)
}

func (s *System) token(t ast.TokenRef, ev *evaluation) (cassowary.Expression, error) {
	v, ok := s.tokens[t.Path]
	if !ok {
		return cassowary.Expression{}, &UnknownPropertyError{Property: t.String()}
	}
	if ev.depth >= maxTokenDepth {
		return cassowary.Expression{}, &ExpressionError{Expression: t.String(), Reason: "token reference cycle"}
	}
	ev.depth++
	defer func() { ev.depth-- }()

	switch x := v.(type) {
	case ast.Number:
		return cassowary.NewExpression(float64(x)), nil
	case ast.Length:
		return s.length(x, ev), nil
	case ast.TokenRef:
		return s.token(x, ev)
	}
	return cassowary.Expression{}, &ExpressionError{Expression: t.String(), Reason: "token is not numeric"}
}
