// Package ast defines the document tree consumed by the layout engine.
//
// The tree is produced by an external parser (or decoded from JSON/TOML by
// pkg/io) and is never mutated by the engine. Every element kind is a
// pointer type implementing [Element], so element pointers double as stable
// identities for lookups in later stages.
//
// # Element Kinds
//
//   - [Frame]: a box that may contain children
//   - [Text]: a run of text measured by the layout stage
//   - [Svg], [Image], [Icon]: leaves with intrinsic sizes
//   - [Part], [Component], [Slot]: composition elements, expanded upstream
//
// Only frames and text participate in constraint solving; the remaining
// kinds are sized by measurement or by their container's arrangement.
//
// # Expressions
//
// Constraint right-hand sides are [Expression] trees built from [Literal],
// [LengthExpr], [PropertyRef], [TokenRef], [BinaryOp] and [Function].
package ast
