package cassowary

import (
	"fmt"
	"strings"
)

// Variable is an opaque handle for one unknown scalar. Variables are
// allocated by [Solver.NewVariable]; the zero Variable is invalid.
type Variable uint32

// Term is a coefficient applied to a variable.
type Term struct {
	Variable    Variable
	Coefficient float64
}

// T builds a term.
func T(coefficient float64, v Variable) Term {
	return Term{Variable: v, Coefficient: coefficient}
}

// Expression is a constant plus a linear combination of terms.
type Expression struct {
	Terms    []Term
	Constant float64
}

// NewExpression builds an expression from a constant and terms.
func NewExpression(constant float64, terms ...Term) Expression {
	return Expression{Terms: append([]Term(nil), terms...), Constant: constant}
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expression{Terms: terms, Constant: e.Constant + o.Constant}
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression {
	return e.Add(o.Scale(-1))
}

// Scale returns e * k.
func (e Expression) Scale(k float64) Expression {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Variable: t.Variable, Coefficient: t.Coefficient * k}
	}
	return Expression{Terms: terms, Constant: e.Constant * k}
}

// IsConstant reports whether e has no variable terms.
func (e Expression) IsConstant() bool {
	for _, t := range e.Terms {
		if !nearZero(t.Coefficient) {
			return false
		}
	}
	return true
}

func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*v%d", t.Coefficient, t.Variable)
	}
	if len(e.Terms) == 0 || e.Constant != 0 {
		if len(e.Terms) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", e.Constant)
	}
	return b.String()
}

// Relation is the comparison of a constraint's expression against zero.
type Relation int

const (
	Eq Relation = iota
	Le
	Ge
)

func (r Relation) String() string {
	switch r {
	case Le:
		return "<="
	case Ge:
		return ">="
	}
	return "=="
}

// Constraint is "Expression Relation 0" at a strength. Constraints are
// identified by pointer; add the same *Constraint to remove it later.
type Constraint struct {
	expr     Expression
	op       Relation
	strength Strength

	// Label is an optional human-readable description used in errors.
	Label string
}

// NewConstraint builds a constraint "expr op 0".
func NewConstraint(expr Expression, op Relation, strength Strength) *Constraint {
	return &Constraint{expr: reduce(expr), op: op, strength: clipStrength(strength)}
}

// Expression returns the reduced expression of c.
func (c *Constraint) Expression() Expression { return c.expr }

// Relation returns the comparison operator of c.
func (c *Constraint) Relation() Relation { return c.op }

// Strength returns the clipped strength of c.
func (c *Constraint) Strength() Strength { return c.strength }

func (c *Constraint) String() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("%s %s 0 (%s)", c.expr, c.op, c.strength)
}

// reduce merges duplicate variables, keeping first-seen order.
func reduce(e Expression) Expression {
	index := make(map[Variable]int, len(e.Terms))
	terms := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if i, ok := index[t.Variable]; ok {
			terms[i].Coefficient += t.Coefficient
			continue
		}
		index[t.Variable] = len(terms)
		terms = append(terms, t)
	}
	return Expression{Terms: terms, Constant: e.Constant}
}
