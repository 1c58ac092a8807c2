package constraint

import (
	"errors"
	"fmt"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
)

// DefaultFontSize resolves em/rem lengths when no font size is configured.
const DefaultFontSize = 16.0

// ElementInfo describes a registered element.
type ElementInfo struct {
	ID     ElementID
	Name   string
	Kind   ast.ElementKind
	Parent ElementID // 0 for roots
}

// ConstraintSource records where a solver constraint came from.
type ConstraintSource string

const (
	SourceExplicit  ConstraintSource = "constraint"
	SourceProperty  ConstraintSource = "property"
	SourcePlacement ConstraintSource = "placement"
	SourceEdit      ConstraintSource = "edit"
)

// ConstraintInfo describes one constraint the builder added to the solver.
type ConstraintInfo struct {
	Element     ElementID
	Targets     []ElementID
	Source      ConstraintSource
	Strength    cassowary.Strength
	Description string
}

type entry struct {
	info ElementInfo
	vars ElementVars
}

// Option configures a [System].
type Option func(*System)

// WithFontSize sets the font size used for em and rem lengths.
func WithFontSize(size float64) Option {
	return func(s *System) {
		if size > 0 {
			s.fontSize = size
		}
	}
}

// WithMaxIterations bounds the solver's pivots per optimization pass.
func WithMaxIterations(n int) Option {
	return func(s *System) { s.maxIterations = n }
}

// System is the constraint system for one layout pass. It is not safe
// for concurrent use and is discarded after [System.Solve].
type System struct {
	solver      *cassowary.Solver
	elements    []*entry
	byName      map[string]*entry
	byElement   map[ast.Element]*entry
	stack       []*entry
	tokens      map[string]ast.PropertyValue
	constraints []ConstraintInfo

	fontSize      float64
	maxIterations int
}

// NewSystem returns an empty constraint system.
func NewSystem(opts ...Option) *System {
	s := &System{
		byName:    make(map[string]*entry),
		byElement: make(map[ast.Element]*entry),
		fontSize:  DefaultFontSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.solver = cassowary.NewSolver(cassowary.WithMaxIterations(s.maxIterations))
	return s
}

// AddDocument registers every frame and text element of doc and adds
// their constraints. Elements are visited depth-first in document order,
// so a named reference must point at an element visited earlier.
func (s *System) AddDocument(doc *ast.Document) error {
	if doc == nil {
		return nil
	}
	if doc.Tokens != nil {
		s.tokens = doc.Tokens
	}
	for _, el := range doc.Elements {
		if err := s.visit(el); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) visit(el ast.Element) error {
	switch el.Kind() {
	case ast.KindFrame, ast.KindText:
	default:
		return nil
	}

	e := s.register(el)
	if err := s.addPlacement(e); err != nil {
		return err
	}
	for _, c := range el.ElementConstraints() {
		if err := s.addConstraint(e, c); err != nil {
			return err
		}
	}
	if err := s.addPropertyConstraints(e, el.ElementProperties()); err != nil {
		return err
	}

	s.stack = append(s.stack, e)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()
	for _, child := range el.ElementChildren() {
		if err := s.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) register(el ast.Element) *entry {
	id := ElementID(len(s.elements) + 1)
	name := el.ElementName()
	if name == "" {
		name = fmt.Sprintf("%s_%d", el.Kind(), id)
	}

	e := &entry{
		info: ElementInfo{ID: id, Name: name, Kind: el.Kind()},
		vars: ElementVars{
			X:      s.solver.NewVariable(name + ".x"),
			Y:      s.solver.NewVariable(name + ".y"),
			Width:  s.solver.NewVariable(name + ".width"),
			Height: s.solver.NewVariable(name + ".height"),
		},
	}
	if parent := s.parent(); parent != nil {
		e.info.Parent = parent.info.ID
	}

	s.elements = append(s.elements, e)
	s.byName[name] = e
	s.byElement[el] = e
	return e
}

func (s *System) parent() *entry {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// resolve finds the element an [ast.ElementRef] points at.
func (s *System) resolve(ref ast.ElementRef) (*entry, error) {
	switch ref.Kind {
	case ast.RefParent:
		if p := s.parent(); p != nil {
			return p, nil
		}
		return nil, &UnknownPropertyError{Element: "Parent"}
	case ast.RefPrevious, ast.RefNext:
		return nil, &NotImplementedError{Feature: ref.String() + " element references"}
	}
	if e, ok := s.byName[ref.Name]; ok {
		return e, nil
	}
	return nil, &UnknownPropertyError{Element: ref.Name}
}

// add writes c into the solver and records its description.
func (s *System) add(c *cassowary.Constraint, info ConstraintInfo) error {
	info.Strength = c.Strength()
	c.Label = info.Description
	if err := s.solver.AddConstraint(c); err != nil {
		switch {
		case errors.Is(err, cassowary.ErrUnsatisfiable):
			return &UnsatisfiableError{Constraint: info.Description, Err: err}
		case errors.Is(err, cassowary.ErrDiverged):
			return &DivergedError{Constraint: info.Description, Err: err}
		}
		return fmt.Errorf("add %s: %w", info.Description, err)
	}
	s.constraints = append(s.constraints, info)
	return nil
}

// Solve reads the optimal values of every registered element.
func (s *System) Solve() (*Solution, error) {
	s.solver.UpdateVariables()
	sol := newSolution(len(s.elements))
	for _, e := range s.elements {
		sol.put(e.info.ID, e.info.Name, PropX, s.solver.Value(e.vars.X))
		sol.put(e.info.ID, e.info.Name, PropY, s.solver.Value(e.vars.Y))
		sol.put(e.info.ID, e.info.Name, PropWidth, s.solver.Value(e.vars.Width))
		sol.put(e.info.ID, e.info.Name, PropHeight, s.solver.Value(e.vars.Height))
	}
	return sol, nil
}

// Suggest asks the solver to move a plain property of the named element
// towards value at strong strength. The next [System.Solve] reflects it.
func (s *System) Suggest(name, property string, value float64) error {
	e, ok := s.byName[name]
	if !ok {
		return &UnknownPropertyError{Element: name}
	}
	v, ok := e.vars.Variable(property)
	if !ok {
		return &UnknownPropertyError{Element: name, Property: property}
	}
	if !s.solver.HasEditVariable(v) {
		if err := s.solver.AddEditVariable(v, cassowary.Strong); err != nil {
			return fmt.Errorf("edit %s.%s: %w", name, property, err)
		}
		s.constraints = append(s.constraints, ConstraintInfo{
			Element:     e.info.ID,
			Source:      SourceEdit,
			Strength:    cassowary.Strong,
			Description: fmt.Sprintf("%s.%s ~ suggested (strong)", name, property),
		})
	}
	if err := s.solver.SuggestValue(v, value); err != nil {
		if errors.Is(err, cassowary.ErrDiverged) {
			return &DivergedError{Constraint: name + "." + property, Err: err}
		}
		return fmt.Errorf("suggest %s.%s: %w", name, property, err)
	}
	return nil
}

// ElementID returns the id of the element registered under name.
func (s *System) ElementID(name string) (ElementID, bool) {
	if e, ok := s.byName[name]; ok {
		return e.info.ID, true
	}
	return 0, false
}

// ElementName returns the name of the element with the given id.
func (s *System) ElementName(id ElementID) (string, bool) {
	if e := s.entry(id); e != nil {
		return e.info.Name, true
	}
	return "", false
}

// ElementOf returns the id assigned to a document element.
func (s *System) ElementOf(el ast.Element) (ElementID, bool) {
	if e, ok := s.byElement[el]; ok {
		return e.info.ID, true
	}
	return 0, false
}

// Vars returns the solver variables of an element.
func (s *System) Vars(id ElementID) (ElementVars, bool) {
	if e := s.entry(id); e != nil {
		return e.vars, true
	}
	return ElementVars{}, false
}

// Elements returns every registered element in registration order.
func (s *System) Elements() []ElementInfo {
	out := make([]ElementInfo, len(s.elements))
	for i, e := range s.elements {
		out[i] = e.info
	}
	return out
}

// Constraints returns the constraints added so far, in insertion order.
func (s *System) Constraints() []ConstraintInfo {
	return append([]ConstraintInfo(nil), s.constraints...)
}

func (s *System) entry(id ElementID) *entry {
	if id == 0 || int(id) > len(s.elements) {
		return nil
	}
	return s.elements[id-1]
}
