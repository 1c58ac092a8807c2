package ast

import "fmt"

// Priority ranks a constraint. The zero value means Required.
type Priority int

const (
	PriorityWeak     Priority = 1
	PriorityLow      Priority = 250
	PriorityMedium   Priority = 500
	PriorityHigh     Priority = 750
	PriorityRequired Priority = 1000
)

// Effective returns p, or PriorityRequired when p is unset.
func (p Priority) Effective() Priority {
	if p == 0 {
		return PriorityRequired
	}
	return p
}

func (p Priority) String() string {
	switch p.Effective() {
	case PriorityWeak:
		return "weak"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityRequired:
		return "required"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority maps a priority keyword to its value.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "weak":
		return PriorityWeak, true
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high", "strong":
		return PriorityHigh, true
	case "required", "":
		return PriorityRequired, true
	}
	return 0, false
}

// Constraint is a single layout rule attached to an element.
type Constraint struct {
	Kind     ConstraintKind
	Priority Priority
}

// ConstraintKind is one of [Equality], [Inequality], [Alignment] or [Relative].
type ConstraintKind interface {
	constraintKind()
}

// Equality pins a property to an expression.
type Equality struct {
	Property string
	Value    Expression
}

// InequalityOp is a comparison operator.
type InequalityOp string

const (
	OpLt InequalityOp = "<"
	OpLe InequalityOp = "<="
	OpGt InequalityOp = ">"
	OpGe InequalityOp = ">="
)

// Inequality bounds a property by an expression.
type Inequality struct {
	Property string
	Op       InequalityOp
	Value    Expression
}

// Edge is an alignment anchor on an element's box.
type Edge string

const (
	EdgeLeft    Edge = "left"
	EdgeRight   Edge = "right"
	EdgeTop     Edge = "top"
	EdgeBottom  Edge = "bottom"
	EdgeCenterX Edge = "center-x"
	EdgeCenterY Edge = "center-y"
)

// Alignment lines up an edge with an edge of the target. An empty
// TargetEdge means the same edge as Edge.
type Alignment struct {
	Edge       Edge
	Target     ElementRef
	TargetEdge Edge
}

// Relation places an element next to its target.
type Relation string

const (
	RelAbove   Relation = "above"
	RelBelow   Relation = "below"
	RelLeftOf  Relation = "left-of"
	RelRightOf Relation = "right-of"
)

// Relative places an element beside its target with an optional gap.
// A nil Gap means 0px.
type Relative struct {
	Relation Relation
	Target   ElementRef
	Gap      Expression
}

func (Equality) constraintKind()   {}
func (Inequality) constraintKind() {}
func (Alignment) constraintKind()  {}
func (Relative) constraintKind()   {}
