// Package constraint translates a document into a Cassowary constraint
// system and solves it.
//
// A [System] is built fresh for every layout pass:
//
//	sys := constraint.NewSystem()
//	if err := sys.AddDocument(doc); err != nil {
//	    return err
//	}
//	sol, err := sys.Solve()
//
// # Variables
//
// Every frame and text element owns four solver variables: x, y, width
// and height ([ElementVars]). Other element kinds are sized later by the
// layout stage and never enter the solver.
//
// # Constraint Sources
//
// Constraints come from three places, all written into the same solver:
//
//   - explicit constraints attached to the element
//   - the plain layout properties width, height, x, y, left and top,
//     which become required equalities
//   - default placement, which pins a child to its parent's origin at a
//     strength below weak so that any explicit rule overrides it
//
// A contradiction between explicit and property-derived required rules
// is reported as [UnsatisfiableError] rather than resolved silently.
//
// # Element Identity
//
// Elements are tracked by [ElementID] in registration order. Names are
// kept at the boundary for reference lookups; when two elements share a
// name, the later one wins for name lookups while both keep their own
// variables.
//
// # Coordinate Space
//
// Solved values are in document space: "left align Parent" yields
// child.x == parent.x. The layout stage converts them to parent-relative
// bounds.
package constraint
