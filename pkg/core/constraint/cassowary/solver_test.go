package cassowary

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// eq builds "lhs == rhs" where lhs is a single variable.
func eq(v Variable, value float64, strength Strength) *Constraint {
	return NewConstraint(NewExpression(-value, T(1, v)), Eq, strength)
}

func ge(v Variable, value float64, strength Strength) *Constraint {
	return NewConstraint(NewExpression(-value, T(1, v)), Ge, strength)
}

func le(v Variable, value float64, strength Strength) *Constraint {
	return NewConstraint(NewExpression(-value, T(1, v)), Le, strength)
}

func mustAdd(t *testing.T, s *Solver, cs ...*Constraint) {
	t.Helper()
	for _, c := range cs {
		if err := s.AddConstraint(c); err != nil {
			t.Fatalf("AddConstraint(%s) error = %v", c, err)
		}
	}
}

func TestSolverRequiredEquality(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")
	y := s.NewVariable("y")

	mustAdd(t, s,
		eq(x, 30, Required),
		NewConstraint(NewExpression(-100, T(1, x), T(1, y)), Eq, Required),
	)
	s.UpdateVariables()

	if got := s.Value(x); !approx(got, 30) {
		t.Errorf("Value(x) = %v, want 30", got)
	}
	if got := s.Value(y); !approx(got, 70) {
		t.Errorf("Value(y) = %v, want 70", got)
	}
}

func TestSolverUnconstrainedIsZero(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")
	s.UpdateVariables()
	if got := s.Value(x); got != 0 {
		t.Errorf("Value(x) = %v, want 0", got)
	}
}

func TestSolverStrengths(t *testing.T) {
	tests := []struct {
		name string
		cs   func(x Variable) []*Constraint
		want float64
	}{
		{
			name: "strong beats weak",
			cs: func(x Variable) []*Constraint {
				return []*Constraint{eq(x, 10, Strong), eq(x, 20, Weak)}
			},
			want: 10,
		},
		{
			name: "medium beats weak regardless of order",
			cs: func(x Variable) []*Constraint {
				return []*Constraint{eq(x, 10, Weak), eq(x, 20, Medium)}
			},
			want: 20,
		},
		{
			name: "required inequality bounds weak equality",
			cs: func(x Variable) []*Constraint {
				return []*Constraint{eq(x, 5, Weak), ge(x, 10, Required)}
			},
			want: 10,
		},
		{
			name: "satisfied inequality leaves equality alone",
			cs: func(x Variable) []*Constraint {
				return []*Constraint{le(x, 50, Required), eq(x, 25, Weak)}
			},
			want: 25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSolver()
			x := s.NewVariable("x")
			mustAdd(t, s, tt.cs(x)...)
			s.UpdateVariables()
			if got := s.Value(x); !approx(got, tt.want) {
				t.Errorf("Value(x) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolverUnsatisfiableIsAtomic(t *testing.T) {
	tests := []struct {
		name   string
		first  func(x Variable) *Constraint
		second func(x Variable) *Constraint
		want   float64
	}{
		{
			name:   "conflicting equalities",
			first:  func(x Variable) *Constraint { return eq(x, 100, Required) },
			second: func(x Variable) *Constraint { return eq(x, 200, Required) },
			want:   100,
		},
		{
			name:   "conflicting inequalities",
			first:  func(x Variable) *Constraint { return ge(x, 10, Required) },
			second: func(x Variable) *Constraint { return le(x, 5, Required) },
			want:   10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSolver()
			x := s.NewVariable("x")
			mustAdd(t, s, tt.first(x))

			bad := tt.second(x)
			err := s.AddConstraint(bad)
			if !errors.Is(err, ErrUnsatisfiable) {
				t.Fatalf("AddConstraint() error = %v, want ErrUnsatisfiable", err)
			}
			if s.HasConstraint(bad) {
				t.Error("HasConstraint(rejected) = true, want false")
			}
			if s.NumConstraints() != 1 {
				t.Errorf("NumConstraints() = %d, want 1", s.NumConstraints())
			}

			s.UpdateVariables()
			if got := s.Value(x); !approx(got, tt.want) {
				t.Errorf("Value(x) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolverRemoveConstraint(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")
	strong := eq(x, 10, Strong)
	mustAdd(t, s, strong, eq(x, 20, Weak))

	s.UpdateVariables()
	if got := s.Value(x); !approx(got, 10) {
		t.Fatalf("Value(x) = %v, want 10", got)
	}

	if err := s.RemoveConstraint(strong); err != nil {
		t.Fatalf("RemoveConstraint() error = %v", err)
	}
	s.UpdateVariables()
	if got := s.Value(x); !approx(got, 20) {
		t.Errorf("Value(x) after remove = %v, want 20", got)
	}

	if err := s.RemoveConstraint(strong); !errors.Is(err, ErrUnknownConstraint) {
		t.Errorf("RemoveConstraint() twice error = %v, want ErrUnknownConstraint", err)
	}
}

func TestSolverDuplicateConstraint(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")
	c := eq(x, 1, Required)
	mustAdd(t, s, c)
	if err := s.AddConstraint(c); !errors.Is(err, ErrDuplicateConstraint) {
		t.Errorf("AddConstraint() twice error = %v, want ErrDuplicateConstraint", err)
	}
}

func TestSolverEditVariables(t *testing.T) {
	s := NewSolver()
	left := s.NewVariable("left")
	width := s.NewVariable("width")
	right := s.NewVariable("right")

	mustAdd(t, s,
		eq(left, 0, Required),
		NewConstraint(NewExpression(0, T(1, right), T(-1, left), T(-1, width)), Eq, Required),
		le(width, 30, Required),
	)
	if err := s.AddEditVariable(width, Strong); err != nil {
		t.Fatalf("AddEditVariable() error = %v", err)
	}

	tests := []struct {
		suggest   float64
		wantWidth float64
	}{
		{20, 20},
		{42, 30},
		{5, 5},
	}
	for _, tt := range tests {
		if err := s.SuggestValue(width, tt.suggest); err != nil {
			t.Fatalf("SuggestValue(%v) error = %v", tt.suggest, err)
		}
		s.UpdateVariables()
		if got := s.Value(width); !approx(got, tt.wantWidth) {
			t.Errorf("SuggestValue(%v): width = %v, want %v", tt.suggest, got, tt.wantWidth)
		}
		if got := s.Value(right); !approx(got, tt.wantWidth) {
			t.Errorf("SuggestValue(%v): right = %v, want %v", tt.suggest, got, tt.wantWidth)
		}
	}

	if err := s.RemoveEditVariable(width); err != nil {
		t.Fatalf("RemoveEditVariable() error = %v", err)
	}
	if s.HasEditVariable(width) {
		t.Error("HasEditVariable() = true after removal")
	}
}

func TestSolverEditVariableErrors(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")

	if err := s.AddEditVariable(x, Required); !errors.Is(err, ErrBadRequiredStrength) {
		t.Errorf("AddEditVariable(required) error = %v, want ErrBadRequiredStrength", err)
	}
	if err := s.SuggestValue(x, 1); !errors.Is(err, ErrUnknownEditVariable) {
		t.Errorf("SuggestValue(unknown) error = %v, want ErrUnknownEditVariable", err)
	}
	if err := s.AddEditVariable(x, Medium); err != nil {
		t.Fatalf("AddEditVariable() error = %v", err)
	}
	if err := s.AddEditVariable(x, Medium); !errors.Is(err, ErrDuplicateEditVariable) {
		t.Errorf("AddEditVariable() twice error = %v, want ErrDuplicateEditVariable", err)
	}
}

func TestSolverDeterministic(t *testing.T) {
	solve := func() (float64, float64) {
		s := NewSolver()
		x := s.NewVariable("x")
		y := s.NewVariable("y")
		mustAdd(t, s,
			NewConstraint(NewExpression(-100, T(1, x), T(1, y)), Eq, Required),
			ge(x, 10, Required),
			ge(y, 10, Required),
		)
		s.UpdateVariables()
		return s.Value(x), s.Value(y)
	}

	x0, y0 := solve()
	for range 20 {
		x, y := solve()
		if x != x0 || y != y0 {
			t.Fatalf("solve() = (%v, %v), want (%v, %v)", x, y, x0, y0)
		}
	}
	if !approx(x0+y0, 100) {
		t.Errorf("x + y = %v, want 100", x0+y0)
	}
}

func TestSolverIterationLimit(t *testing.T) {
	s := NewSolver(WithMaxIterations(1))
	x := s.NewVariable("x")
	mustAdd(t, s, eq(x, 5, Weak))

	if err := s.AddConstraint(ge(x, 10, Required)); !errors.Is(err, ErrDiverged) {
		t.Fatalf("AddConstraint() error = %v, want ErrDiverged", err)
	}

	s = NewSolver()
	x = s.NewVariable("x")
	mustAdd(t, s, eq(x, 5, Weak), ge(x, 10, Required))
	s.UpdateVariables()
	if got := s.Value(x); !approx(got, 10) {
		t.Errorf("Value(x) = %v, want 10", got)
	}
}

func TestStrengthOrdering(t *testing.T) {
	if !(Weak < Medium && Medium < Strong && Strong < Required) {
		t.Errorf("strengths not ordered: weak=%v medium=%v strong=%v required=%v", Weak, Medium, Strong, Required)
	}
	if Required != 1_001_001_000 {
		t.Errorf("Required = %v, want 1001001000", Required)
	}
}

func TestExpressionReduce(t *testing.T) {
	s := NewSolver()
	x := s.NewVariable("x")
	c := NewConstraint(NewExpression(-10, T(1, x), T(1, x)), Eq, Required)
	if got := len(c.Expression().Terms); got != 1 {
		t.Fatalf("len(Terms) = %d, want 1", got)
	}
	mustAdd(t, s, c)
	s.UpdateVariables()
	if got := s.Value(x); !approx(got, 5) {
		t.Errorf("Value(x) = %v, want 5", got)
	}
}
