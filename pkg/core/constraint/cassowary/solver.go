package cassowary

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// DefaultMaxIterations bounds the pivots of a single optimization pass.
const DefaultMaxIterations = 10_000

// tag records the marker symbols a constraint introduced into the tableau.
type tag struct {
	marker symbol
	other  symbol
}

type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   float64
}

// Option configures a [Solver].
type Option func(*Solver)

// WithMaxIterations sets the pivot limit per optimization pass. Exceeding
// it returns [ErrDiverged]. Values <= 0 select [DefaultMaxIterations].
func WithMaxIterations(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// Solver is an incremental Cassowary constraint solver. A Solver is not
// safe for concurrent use.
type Solver struct {
	cns        map[*Constraint]tag
	rows       map[symbol]*row
	vars       map[Variable]symbol
	edits      map[Variable]*editInfo
	values     map[Variable]float64
	names      []string
	infeasible []symbol
	objective  *row
	artificial *row

	nextSymbol    uint32
	maxIterations int
}

// NewSolver returns an empty solver.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset removes all constraints and edit variables. Allocated variables
// stay valid and read as 0 until constrained again.
func (s *Solver) Reset() {
	s.cns = make(map[*Constraint]tag)
	s.rows = make(map[symbol]*row)
	s.vars = make(map[Variable]symbol)
	s.edits = make(map[Variable]*editInfo)
	s.values = make(map[Variable]float64)
	s.infeasible = nil
	s.objective = newRow(0)
	s.artificial = nil
}

// NewVariable allocates a fresh, unconstrained variable. The name is only
// used for diagnostics.
func (s *Solver) NewVariable(name string) Variable {
	s.names = append(s.names, name)
	return Variable(len(s.names))
}

// VariableName returns the diagnostic name given to v.
func (s *Solver) VariableName(v Variable) string {
	if v == 0 || int(v) > len(s.names) {
		return fmt.Sprintf("v%d", v)
	}
	return s.names[v-1]
}

// NumConstraints returns the number of constraints in the solver.
func (s *Solver) NumConstraints() int { return len(s.cns) }

// HasConstraint reports whether c has been added.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.cns[c]
	return ok
}

// AddConstraint adds c to the solver.
//
// A required constraint that conflicts with the current required set
// returns an error wrapping [ErrUnsatisfiable]; the solver is left as it
// was before the call.
func (s *Solver) AddConstraint(c *Constraint) error {
	if _, ok := s.cns[c]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateConstraint, c)
	}

	r, t := s.createRow(c)
	subject := chooseSubject(r, t)

	if !subject.valid() && r.allDummies() {
		if !nearZero(r.constant) {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
		subject = t.marker
	}

	if !subject.valid() {
		snap := s.snapshot()
		ok, err := s.addWithArtificialVariable(r)
		if err != nil || !ok {
			s.restore(snap)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cns[c] = t
	return s.optimize(s.objective)
}

// RemoveConstraint removes a previously added constraint.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	t, ok := s.cns[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConstraint, c)
	}
	delete(s.cns, c)

	if t.marker.kind == errorSymbol {
		s.removeMarkerEffects(t.marker, c.strength)
	}
	if t.other.kind == errorSymbol {
		s.removeMarkerEffects(t.other, c.strength)
	}

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
	} else {
		leaving, r := s.markerLeavingRow(t.marker)
		if r == nil {
			return fmt.Errorf("%w: no leaving row for removed constraint", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, t.marker)
		s.substitute(t.marker, r)
	}
	return s.optimize(s.objective)
}

// AddEditVariable makes v suggestible at the given non-required strength.
func (s *Solver) AddEditVariable(v Variable, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEditVariable, s.VariableName(v))
	}
	strength = clipStrength(strength)
	if strength == Required {
		return ErrBadRequiredStrength
	}
	c := NewConstraint(NewExpression(0, T(1, v)), Eq, strength)
	c.Label = "edit " + s.VariableName(v)
	if err := s.AddConstraint(c); err != nil {
		return err
	}
	s.edits[v] = &editInfo{tag: s.cns[c], constraint: c}
	return nil
}

// RemoveEditVariable drops the edit constraint on v.
func (s *Solver) RemoveEditVariable(v Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, s.VariableName(v))
	}
	if err := s.RemoveConstraint(info.constraint); err != nil {
		return err
	}
	delete(s.edits, v)
	return nil
}

// HasEditVariable reports whether v is an edit variable.
func (s *Solver) HasEditVariable(v Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// SuggestValue moves edit variable v towards value and re-optimizes with
// the dual simplex method.
func (s *Solver) SuggestValue(v Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, s.VariableName(v))
	}
	delta := value - info.constant
	info.constant = value

	if r, ok := s.rows[info.tag.marker]; ok {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}
	if r, ok := s.rows[info.tag.other]; ok {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}
	for _, sym := range s.basicSymbols() {
		r := s.rows[sym]
		c := r.coefficientFor(info.tag.marker)
		if c != 0 && r.add(delta*c) < 0 && sym.kind != externalSymbol {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	return s.dualOptimize()
}

// UpdateVariables reads the current solution out of the tableau.
func (s *Solver) UpdateVariables() {
	for v, sym := range s.vars {
		value := 0.0
		if r, ok := s.rows[sym]; ok {
			value = r.constant
		}
		if nearZero(value) {
			value = 0
		}
		s.values[v] = value
	}
}

// Value returns the value of v as of the last [Solver.UpdateVariables]
// call, or 0 if v was never constrained.
func (s *Solver) Value(v Variable) float64 {
	return s.values[v]
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextSymbol++
	return symbol{id: s.nextSymbol, kind: kind}
}

func (s *Solver) varSymbol(v Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(externalSymbol)
	s.vars[v] = sym
	return sym
}

// createRow converts c into a tableau row with all basic variables
// substituted out.
func (s *Solver) createRow(c *Constraint) (*row, tag) {
	r := newRow(c.expr.Constant)
	for _, term := range c.expr.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.varSymbol(term.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coefficient)
		} else {
			r.insertSymbol(sym, term.Coefficient)
		}
	}

	var t tag
	switch c.op {
	case Le, Ge:
		coefficient := 1.0
		if c.op == Ge {
			coefficient = -1.0
		}
		slack := s.newSymbol(slackSymbol)
		t.marker = slack
		r.insertSymbol(slack, coefficient)
		if c.strength < Required {
			e := s.newSymbol(errorSymbol)
			t.other = e
			r.insertSymbol(e, -coefficient)
			s.objective.insertSymbol(e, float64(c.strength))
		}
	case Eq:
		if c.strength < Required {
			plus := s.newSymbol(errorSymbol)
			minus := s.newSymbol(errorSymbol)
			t.marker, t.other = plus, minus
			r.insertSymbol(plus, -1)
			r.insertSymbol(minus, 1)
			s.objective.insertSymbol(plus, float64(c.strength))
			s.objective.insertSymbol(minus, float64(c.strength))
		} else {
			dummy := s.newSymbol(dummySymbol)
			t.marker = dummy
			r.insertSymbol(dummy, 1)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r, t
}

// chooseSubject picks the symbol to solve a new row for: any external
// symbol first, then a negative slack or error marker.
func chooseSubject(r *row, t tag) symbol {
	for _, sym := range r.symbols() {
		if sym.kind == externalSymbol {
			return sym
		}
	}
	if t.marker.pivotable() && r.coefficientFor(t.marker) < 0 {
		return t.marker
	}
	if t.other.pivotable() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

// addWithArtificialVariable adds r using a temporary artificial variable
// and reports whether a feasible basis was found.
func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	err := s.optimize(s.artificial)
	success := nearZero(s.artificial.constant)
	s.artificial = nil
	if err != nil {
		return false, err
	}

	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(basic.cells) == 0 {
			return success, nil
		}
		entering := anyPivotableSymbol(basic)
		if !entering.valid() {
			return false, nil
		}
		basic.solveForPair(art, entering)
		s.substitute(entering, basic)
		s.rows[entering] = basic
	}

	for _, r := range s.rows {
		r.remove(art)
	}
	s.objective.remove(art)
	return success, nil
}

// substitute replaces sym with r in every row and the objective.
func (s *Solver) substitute(sym symbol, r *row) {
	for _, basic := range s.basicSymbols() {
		other := s.rows[basic]
		other.substitute(sym, r)
		if basic.restricted() && other.constant < 0 {
			s.infeasible = append(s.infeasible, basic)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// optimize runs primal simplex iterations on objective until no entering
// symbol remains.
func (s *Solver) optimize(objective *row) error {
	for range s.maxIterations {
		entering := enteringSymbol(objective)
		if !entering.valid() {
			return nil
		}
		leaving, r := s.leavingRow(entering)
		if r == nil {
			return fmt.Errorf("%w: objective is unbounded", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return ErrDiverged
}

// dualOptimize restores feasibility of the rows queued as infeasible.
func (s *Solver) dualOptimize() error {
	for range s.maxIterations {
		if len(s.infeasible) == 0 {
			return nil
		}
		leaving := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]

		r, ok := s.rows[leaving]
		if !ok || nearZero(r.constant) || r.constant >= 0 {
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if !entering.valid() {
			return fmt.Errorf("%w: dual optimize failed", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return ErrDiverged
}

func enteringSymbol(objective *row) symbol {
	for _, sym := range objective.symbols() {
		if sym.kind != dummySymbol && objective.cells[sym] < 0 {
			return sym
		}
	}
	return symbol{}
}

func (s *Solver) dualEnteringSymbol(r *row) symbol {
	var entering symbol
	ratio := math.MaxFloat64
	for _, sym := range r.symbols() {
		c := r.cells[sym]
		if c > 0 && sym.kind != dummySymbol {
			q := s.objective.coefficientFor(sym) / c
			if q < ratio {
				ratio = q
				entering = sym
			}
		}
	}
	return entering
}

func anyPivotableSymbol(r *row) symbol {
	for _, sym := range r.symbols() {
		if sym.pivotable() {
			return sym
		}
	}
	return symbol{}
}

// leavingRow finds the restricted row with the minimum ratio for entering.
func (s *Solver) leavingRow(entering symbol) (symbol, *row) {
	ratio := math.MaxFloat64
	var leaving symbol
	var found *row
	for _, sym := range s.basicSymbols() {
		if sym.kind == externalSymbol {
			continue
		}
		r := s.rows[sym]
		c := r.coefficientFor(entering)
		if c < 0 {
			q := -r.constant / c
			if q < ratio {
				ratio = q
				leaving = sym
				found = r
			}
		}
	}
	return leaving, found
}

// markerLeavingRow picks the row to pivot out when removing a constraint
// whose marker is not basic.
func (s *Solver) markerLeavingRow(marker symbol) (symbol, *row) {
	r1, r2 := math.MaxFloat64, math.MaxFloat64
	var first, second, third symbol
	for _, sym := range s.basicSymbols() {
		r := s.rows[sym]
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		switch {
		case sym.kind == externalSymbol:
			third = sym
		case c < 0:
			if q := -r.constant / c; q < r1 {
				r1 = q
				first = sym
			}
		default:
			if q := r.constant / c; q < r2 {
				r2 = q
				second = sym
			}
		}
	}
	for _, sym := range []symbol{first, second, third} {
		if sym.valid() {
			return sym, s.rows[sym]
		}
	}
	return symbol{}, nil
}

func (s *Solver) removeMarkerEffects(marker symbol, strength Strength) {
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -float64(strength))
		return
	}
	s.objective.insertSymbol(marker, -float64(strength))
}

// basicSymbols returns the basic symbols in id order.
func (s *Solver) basicSymbols() []symbol {
	return slices.SortedFunc(maps.Keys(s.rows), compareSymbols)
}

type snapshot struct {
	rows       map[symbol]*row
	objective  *row
	infeasible []symbol
}

func (s *Solver) snapshot() snapshot {
	rows := make(map[symbol]*row, len(s.rows))
	for sym, r := range s.rows {
		rows[sym] = r.clone()
	}
	return snapshot{rows: rows, objective: s.objective.clone(), infeasible: slices.Clone(s.infeasible)}
}

func (s *Solver) restore(snap snapshot) {
	s.rows = snap.rows
	s.objective = snap.objective
	s.infeasible = snap.infeasible
	s.artificial = nil
}
