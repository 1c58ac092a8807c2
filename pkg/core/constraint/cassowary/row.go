package cassowary

import (
	"cmp"
	"math"
	"slices"
)

const epsilon = 1e-8

func nearZero(v float64) bool {
	return math.Abs(v) < epsilon
}

type symbolKind uint8

const (
	invalidSymbol symbolKind = iota
	externalSymbol
	slackSymbol
	errorSymbol
	dummySymbol
)

// symbol is a tableau column. The zero symbol is invalid.
type symbol struct {
	id   uint32
	kind symbolKind
}

func (s symbol) valid() bool { return s.kind != invalidSymbol }

// pivotable reports whether s may leave or enter the basis during
// optimization. External and dummy symbols may not.
func (s symbol) pivotable() bool { return s.kind == slackSymbol || s.kind == errorSymbol }

func (s symbol) restricted() bool { return s.kind != externalSymbol }

// row is "basic = constant + sum(coefficient * symbol)".
type row struct {
	cells    map[symbol]float64
	constant float64
}

func newRow(constant float64) *row {
	return &row{cells: make(map[symbol]float64), constant: constant}
}

func (r *row) clone() *row {
	c := newRow(r.constant)
	for s, v := range r.cells {
		c.cells[s] = v
	}
	return c
}

// symbols returns the row's symbols in id order.
func (r *row) symbols() []symbol {
	syms := make([]symbol, 0, len(r.cells))
	for s := range r.cells {
		syms = append(syms, s)
	}
	slices.SortFunc(syms, compareSymbols)
	return syms
}

func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

func (r *row) insertSymbol(s symbol, coefficient float64) {
	v := r.cells[s] + coefficient
	if nearZero(v) {
		delete(r.cells, s)
		return
	}
	r.cells[s] = v
}

func (r *row) insertRow(other *row, coefficient float64) {
	r.constant += other.constant * coefficient
	for s, v := range other.cells {
		r.insertSymbol(s, v*coefficient)
	}
}

func (r *row) remove(s symbol) {
	delete(r.cells, s)
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for s, v := range r.cells {
		r.cells[s] = -v
	}
}

// solveFor rewrites the row so that s is the basic symbol. s must be in
// the row.
func (r *row) solveFor(s symbol) {
	coefficient := -1 / r.cells[s]
	delete(r.cells, s)
	r.constant *= coefficient
	for k, v := range r.cells {
		r.cells[k] = v * coefficient
	}
}

// solveForPair rewrites "lhs = row" to be solved for rhs.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

func (r *row) coefficientFor(s symbol) float64 {
	return r.cells[s]
}

// substitute replaces s with the given row.
func (r *row) substitute(s symbol, other *row) {
	if coefficient, ok := r.cells[s]; ok {
		delete(r.cells, s)
		r.insertRow(other, coefficient)
	}
}

func (r *row) allDummies() bool {
	for s := range r.cells {
		if s.kind != dummySymbol {
			return false
		}
	}
	return true
}

func compareSymbols(a, b symbol) int { return cmp.Compare(a.id, b.id) }
