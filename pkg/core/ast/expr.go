package ast

import (
	"fmt"
	"strings"
)

// Expression is a constraint right-hand side.
type Expression interface {
	expression()
	String() string
}

// Literal is a unitless constant.
type Literal float64

// PropertyRef references a layout property of another element.
type PropertyRef struct {
	Element  ElementRef
	Property string
}

// TokenRef references a design token by dotted path.
type TokenRef struct {
	Path string
}

// BinaryOperator is an arithmetic operator in a [BinaryOp].
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
)

// BinaryOp applies an arithmetic operator to two expressions.
type BinaryOp struct {
	Op          BinaryOperator
	Left, Right Expression
}

// Function is a call such as min(a, b) or max(a, b).
type Function struct {
	Name string
	Args []Expression
}

func (Literal) expression()     {}
func (Length) expression()      {}
func (PropertyRef) expression() {}
func (TokenRef) expression()    {}
func (BinaryOp) expression()    {}
func (Function) expression()    {}

func (l Literal) String() string { return fmt.Sprintf("%g", float64(l)) }

func (r PropertyRef) String() string { return r.Element.String() + "." + r.Property }

func (t TokenRef) String() string { return "$" + t.Path }

func (b BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (f Function) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// RefKind identifies how an [ElementRef] selects its target.
type RefKind int

const (
	RefNamed RefKind = iota
	RefParent
	RefPrevious
	RefNext
)

// ElementRef identifies the target element of a constraint.
type ElementRef struct {
	Kind RefKind
	Name string
}

// Parent references the enclosing element.
func Parent() ElementRef { return ElementRef{Kind: RefParent} }

// Named references an element by name.
func Named(name string) ElementRef { return ElementRef{Kind: RefNamed, Name: name} }

// ParseElementRef maps the reserved words Parent, Previous and Next to
// their ref kinds and anything else to a named reference.
func ParseElementRef(s string) ElementRef {
	switch s {
	case "Parent", "parent":
		return Parent()
	case "Previous", "previous":
		return ElementRef{Kind: RefPrevious}
	case "Next", "next":
		return ElementRef{Kind: RefNext}
	}
	return Named(s)
}

func (r ElementRef) String() string {
	switch r.Kind {
	case RefParent:
		return "Parent"
	case RefPrevious:
		return "Previous"
	case RefNext:
		return "Next"
	}
	return r.Name
}
