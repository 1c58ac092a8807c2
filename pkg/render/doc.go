// Package render groups the debugging renderers of Seed.
//
// Layout output itself is the JSON layout tree written by the io package.
// The renderers here visualize the intermediate constraint system instead:
//
//   - [dot] renders elements as clusters of their x, y, width and height
//     variables and constraints as edges between them, as Graphviz DOT or
//     SVG via go-graphviz.
//
//	sys := layout.NewSystem(opts)
//	_ = sys.AddDocument(doc)
//	svg, err := dot.Render(ctx, sys, dot.FormatSVG, dot.Options{Detailed: true})
//
// [dot]: https://pkg.go.dev/github.com/matzehuels/seed/pkg/render/dot
package render
