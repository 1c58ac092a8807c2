package constraint

import (
	"fmt"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
)

// propertyTargets maps plain layout properties onto element variables.
var propertyTargets = map[string]string{
	"width":  "width",
	"height": "height",
	"x":      "x",
	"y":      "y",
	"left":   "x",
	"top":    "y",
}

func (s *System) addPlacement(e *entry) error {
	parent := s.parent()
	for _, prop := range []string{PropX, PropY} {
		v, _ := e.vars.Variable(prop)
		expr := cassowary.NewExpression(0, term(v, 1))
		desc := fmt.Sprintf("%s.%s = 0 (placement)", e.info.Name, prop)
		info := ConstraintInfo{Element: e.info.ID, Source: SourcePlacement}
		if parent != nil {
			pv, _ := parent.vars.Variable(prop)
			expr = cassowary.NewExpression(0, term(v, 1), term(pv, -1))
			desc = fmt.Sprintf("%s.%s = %s.%s (placement)", e.info.Name, prop, parent.info.Name, prop)
			info.Targets = []ElementID{parent.info.ID}
		}
		info.Description = desc
		if err := s.add(cassowary.NewConstraint(expr, cassowary.Eq, placementStrength), info); err != nil {
			return err
		}
	}
	return nil
}

// addPropertyConstraints turns numeric width/height/x/y/left/top
// properties into required equalities.
func (s *System) addPropertyConstraints(e *entry, props []ast.Property) error {
	for _, p := range props {
		target, ok := propertyTargets[p.Name]
		if !ok {
			continue
		}
		var value ast.Expression
		switch v := p.Value.(type) {
		case ast.Number:
			value = ast.Literal(v)
		case ast.Length:
			value = v
		case ast.TokenRef:
			value = v
		default:
			continue
		}

		lhs, _ := e.vars.Property(target)
		ev := &evaluation{axis: axisOf(target)}
		rhs, err := s.linearize(value, ev)
		if err != nil {
			return err
		}
		info := ConstraintInfo{
			Element:     e.info.ID,
			Targets:     ev.targets,
			Source:      SourceProperty,
			Description: fmt.Sprintf("%s.%s = %s (required)", e.info.Name, p.Name, value),
		}
		if err := s.add(cassowary.NewConstraint(lhs.Sub(rhs), cassowary.Eq, cassowary.Required), info); err != nil {
			return err
		}
	}
	return nil
}

// addConstraint translates one explicit document constraint.
func (s *System) addConstraint(e *entry, c ast.Constraint) error {
	strength := Strength(c.Priority)
	ev := &evaluation{}

	var (
		expr cassowary.Expression
		op   = cassowary.Eq
		desc string
	)

	switch k := c.Kind.(type) {
	case ast.Equality:
		lhs, err := s.selfProperty(e, k.Property)
		if err != nil {
			return err
		}
		ev.axis = axisOf(k.Property)
		rhs, err := s.linearize(k.Value, ev)
		if err != nil {
			return err
		}
		expr = lhs.Sub(rhs)
		desc = fmt.Sprintf("%s.%s = %s", e.info.Name, k.Property, k.Value)

	case ast.Inequality:
		lhs, err := s.selfProperty(e, k.Property)
		if err != nil {
			return err
		}
		switch k.Op {
		case ast.OpLt, ast.OpLe:
			op = cassowary.Le
		case ast.OpGt, ast.OpGe:
			op = cassowary.Ge
		default:
			return &ExpressionError{Expression: string(k.Op), Reason: "unknown comparison operator"}
		}
		ev.axis = axisOf(k.Property)
		rhs, err := s.linearize(k.Value, ev)
		if err != nil {
			return err
		}
		expr = lhs.Sub(rhs)
		desc = fmt.Sprintf("%s.%s %s %s", e.info.Name, k.Property, k.Op, k.Value)

	case ast.Alignment:
		target, err := s.resolve(k.Target)
		if err != nil {
			return err
		}
		targetEdge := k.TargetEdge
		if targetEdge == "" {
			targetEdge = k.Edge
		}
		lhs, ok := e.vars.Edge(k.Edge)
		if !ok {
			return &UnknownPropertyError{Element: e.info.Name, Property: string(k.Edge)}
		}
		rhs, ok := target.vars.Edge(targetEdge)
		if !ok {
			return &UnknownPropertyError{Element: target.info.Name, Property: string(targetEdge)}
		}
		ev.targets = append(ev.targets, target.info.ID)
		expr = lhs.Sub(rhs)
		desc = fmt.Sprintf("%s.%s = %s.%s", e.info.Name, k.Edge, target.info.Name, targetEdge)

	case ast.Relative:
		target, err := s.resolve(k.Target)
		if err != nil {
			return err
		}
		ev.targets = append(ev.targets, target.info.ID)
		ev.axis = axisHorizontal
		if k.Relation == ast.RelAbove || k.Relation == ast.RelBelow {
			ev.axis = axisVertical
		}
		gap, err := s.linearize(k.Gap, ev)
		if err != nil {
			return err
		}
		self, tv := e.vars, target.vars
		switch k.Relation {
		case ast.RelBelow:
			expr = self.Top().Sub(tv.Bottom()).Sub(gap)
		case ast.RelAbove:
			expr = self.Bottom().Add(gap).Sub(tv.Top())
		case ast.RelRightOf:
			expr = self.Left().Sub(tv.Right()).Sub(gap)
		case ast.RelLeftOf:
			expr = self.Right().Add(gap).Sub(tv.Left())
		default:
			return &UnknownPropertyError{Element: e.info.Name, Property: string(k.Relation)}
		}
		desc = fmt.Sprintf("%s %s %s", e.info.Name, k.Relation, target.info.Name)
		if k.Gap != nil {
			desc += fmt.Sprintf(" gap %s", k.Gap)
		}

	default:
		return &NotImplementedError{Feature: fmt.Sprintf("constraint kind %T", c.Kind)}
	}

	info := ConstraintInfo{
		Element:     e.info.ID,
		Targets:     ev.targets,
		Source:      SourceExplicit,
		Description: fmt.Sprintf("%s (%s)", desc, c.Priority),
	}
	return s.add(cassowary.NewConstraint(expr, op, strength), info)
}

func (s *System) selfProperty(e *entry, property string) (cassowary.Expression, error) {
	expr, ok := e.vars.Property(property)
	if !ok {
		return cassowary.Expression{}, &UnknownPropertyError{Element: e.info.Name, Property: property}
	}
	return expr, nil
}
