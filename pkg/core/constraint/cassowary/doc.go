// Package cassowary implements an incremental linear constraint solver.
//
// The solver follows the Cassowary algorithm (Badros, Borning, Stuckey)
// in the formulation popularized by the Kiwi solver: every constraint is
// rewritten as a row of a simplex tableau, inequalities gain a slack
// symbol, and non-required constraints gain a pair of error symbols
// weighted by their [Strength] in the objective function.
//
// # Usage
//
//	s := cassowary.NewSolver()
//	x := s.NewVariable("x")
//	if err := s.AddConstraint(cassowary.NewConstraint(
//	    cassowary.NewExpression(-100, cassowary.T(1, x)), cassowary.Eq, cassowary.Required)); err != nil {
//	    return err
//	}
//	s.UpdateVariables()
//	s.Value(x) // 100
//
// Required constraints are hard: adding one that conflicts with the
// existing required set returns [ErrUnsatisfiable] and leaves the solver
// unchanged. All other strengths are soft and never fail.
//
// Iteration order over internal maps is always sorted by symbol id, so
// solving the same constraints in the same order produces identical values.
package cassowary
