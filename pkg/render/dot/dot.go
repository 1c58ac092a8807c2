package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/constraint/cassowary"
)

// Options configures graph generation.
type Options struct {
	// Detailed adds constraint descriptions to edges and boxes.
	Detailed bool
}

// Format names accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

var sourceColors = map[constraint.ConstraintSource]string{
	constraint.SourceExplicit:  "black",
	constraint.SourceProperty:  "steelblue",
	constraint.SourceEdit:      "darkorange",
}

// ToDOT converts the elements and constraints of sys to DOT source.
func ToDOT(sys *constraint.System, opts Options) string {
	elements := sys.Elements()
	constraints := sys.Constraints()

	local := make(map[constraint.ElementID][]string)
	if opts.Detailed {
		for _, c := range constraints {
			if len(c.Targets) == 0 && c.Source != constraint.SourcePlacement {
				local[c.Element] = append(local[c.Element], c.Description)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, e := range elements {
		label := fmt.Sprintf("%s\n%s", e.Name, e.Kind)
		if lines := local[e.ID]; len(lines) > 0 {
			label += "\n\n" + strings.Join(lines, "\n")
		}
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(e.ID), label)
	}

	buf.WriteString("\n")
	for _, e := range elements {
		if e.Parent != 0 {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=grey70, arrowhead=none];\n", nodeID(e.Parent), nodeID(e.ID))
		}
	}

	seen := make(map[string]bool)
	for _, c := range constraints {
		if c.Source == constraint.SourcePlacement {
			continue
		}
		for _, target := range c.Targets {
			if target == c.Element {
				continue
			}
			attrs := []string{"color=" + colorOf(c.Source)}
			if c.Strength >= cassowary.Required {
				attrs = append(attrs, "penwidth=2")
			}
			if opts.Detailed {
				attrs = append(attrs, fmt.Sprintf("label=%q", c.Description))
			}
			line := fmt.Sprintf("  %s -> %s [%s];\n", nodeID(c.Element), nodeID(target), strings.Join(attrs, ", "))
			if seen[line] {
				continue
			}
			seen[line] = true
			buf.WriteString(line)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id constraint.ElementID) string {
	return "e" + strconv.FormatUint(uint64(id), 10)
}

func colorOf(src constraint.ConstraintSource) string {
	if c, ok := sourceColors[src]; ok {
		return c
	}
	return "black"
}

// Render returns the graph of sys in the given format.
func Render(ctx context.Context, sys *constraint.System, format string, opts Options) ([]byte, error) {
	src := ToDOT(sys, opts)
	switch format {
	case FormatDOT, "":
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	}
	return nil, fmt.Errorf("unsupported graph format %q (must be dot or svg)", format)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
