// Package pkg provides the core libraries of the Seed layout engine.
//
// # Overview
//
// Seed turns a declarative design document into absolute geometry. Every
// element becomes four solver variables (x, y, width, height); constraints
// and layout rules become linear relations between them; a Cassowary solver
// finds the assignment that satisfies all required relations and violates
// the weaker ones as little as their strength allows. The pkg directory is
// organized into these areas:
//
//  1. [core] - Domain logic (document model, constraints, layout)
//  2. [io] - Reading documents and writing layout trees and solutions
//  3. [pipeline] - Orchestration (load → constrain → solve → compose)
//  4. [cache] - Result caching across file, SQLite, Redis and MongoDB
//  5. [config] - seed.toml settings shared by every entry point
//
// # Architecture
//
// The typical data flow through Seed:
//
//	seed.json / seed.toml
//	         ↓
//	    [io] package (decode into the document AST)
//	         ↓
//	    [core/constraint] package (build the linear system)
//	         ↓
//	    [core/constraint/cassowary] package (solve)
//	         ↓
//	    [core/layout] package (compose the layout tree)
//	         ↓
//	    JSON layout tree / DOT constraint graph
//
// # Quick Start
//
//	doc, err := pipeline.Load("card.seed.json")
//	if err != nil {
//	    return err
//	}
//	tree, err := layout.Compute(doc, layout.Options{
//	    ViewportWidth:  1280,
//	    ViewportHeight: 800,
//	})
//	for _, n := range tree.Nodes() {
//	    fmt.Println(n.Name, n.AbsoluteBounds)
//	}
//
// For cached runs use a [pipeline.Runner], which is what the CLI, the HTTP
// server and the JSON-RPC service share.
//
// # Main Packages
//
// [core/ast] - The document model: elements, properties, lengths, colors,
// tokens, constraints and their priorities.
//
// [core/constraint] - Translates documents into a [constraint.System] and
// reads solutions back per element and property. Suggestions (edit
// variables) let callers pin a property without rebuilding.
//
// [core/constraint/cassowary] - The incremental simplex solver with
// required, strong, medium and weak strengths.
//
// [core/layout] - Composes solved bounds with auto layout, grid layout and
// text measurement into a [layout.Tree]. Subpackages [core/layout/autolayout],
// [core/layout/grid] and [core/layout/text] are usable on their own.
//
// [render/dot] - Renders a constraint system as a Graphviz graph for
// debugging.
//
// [observability] - Hooks for HTTP, cache and pipeline events with a
// charmbracelet/log implementation.
//
// [errors] - Coded errors shared by all packages and mapped onto HTTP and
// JSON-RPC status codes at the edges.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core
// [core/ast]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/ast
// [core/constraint]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/constraint
// [core/constraint/cassowary]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/constraint/cassowary
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/layout
// [core/layout/autolayout]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/layout/autolayout
// [core/layout/grid]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/layout/grid
// [core/layout/text]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/layout/text
// [io]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/config
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/render/dot
// [observability]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/errors
// [constraint.System]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/constraint#System
// [layout.Tree]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/core/layout#Tree
package pkg
