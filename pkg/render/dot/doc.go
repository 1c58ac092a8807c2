// Package dot renders a constraint system as a Graphviz graph.
//
// # Overview
//
// Every registered element becomes a box. Dashed grey edges show the
// element tree (parent to child); solid edges show constraints that
// reference another element, pointing from the constrained element to
// the element it depends on. Required constraints are drawn bold.
//
// # Usage
//
//	sys := layout.NewSystem(opts)
//	if err := sys.AddDocument(doc); err != nil { ... }
//	src := dot.ToDOT(sys, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Options
//
//   - Detailed: label constraint edges with their descriptions and list
//     constraints without a target inside the element's box.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package dot
