package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/layout"
	"github.com/matzehuels/seed/pkg/observability"
	"github.com/matzehuels/seed/pkg/render/dot"
)

// =============================================================================
// Uncached stages
// =============================================================================

// BuildSystem registers doc in a new constraint system and applies the
// suggestions in opts. The system is not solved yet.
func BuildSystem(doc *ast.Document, opts Options) (*constraint.System, error) {
	sys := layout.NewSystem(opts.LayoutOptions())
	if err := sys.AddDocument(doc); err != nil {
		return nil, err
	}
	for _, s := range opts.Suggestions {
		if err := sys.Suggest(s.Element, s.Property, s.Value); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// Solve builds and solves the constraint system of doc.
func Solve(ctx context.Context, doc *ast.Document, opts Options) (*SolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	elements := countElements(doc)
	hooks.OnSolveStart(ctx, elements)

	start := time.Now()
	sys, err := BuildSystem(doc, opts)
	var sol *constraint.Solution
	if err == nil {
		sol, err = sys.Solve()
	}
	duration := time.Since(start)

	var constraints int
	if sys != nil {
		constraints = len(sys.Constraints())
		elements = len(sys.Elements())
	}
	hooks.OnSolveComplete(ctx, elements, constraints, duration, err)
	if err != nil {
		return nil, err
	}
	return &SolveResult{
		System:   sys,
		Solution: sol,
		Stats: Stats{
			Elements:    elements,
			Constraints: constraints,
			SolveTime:   duration,
		},
	}, nil
}

// ComputeLayout solves doc and composes its layout tree.
func ComputeLayout(ctx context.Context, doc *ast.Document, opts Options) (*layout.Tree, Stats, error) {
	solved, err := Solve(ctx, doc, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := solved.Stats
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, stats.Elements)
	start := time.Now()
	tree, err := layout.Compose(doc, solved.System, solved.Solution, opts.LayoutOptions())
	stats.ComposeTime = time.Since(start)
	var nodes int
	if tree != nil {
		nodes = tree.Len()
	}
	hooks.OnComposeComplete(ctx, nodes, stats.ComposeTime, err)
	if err != nil {
		return nil, stats, err
	}
	stats.Nodes = nodes
	return tree, stats, nil
}

// RenderGraph renders the constraint graph of doc in opts.GraphFormat.
func RenderGraph(ctx context.Context, doc *ast.Document, opts Options) ([]byte, error) {
	sys, err := BuildSystem(doc, opts)
	if err != nil {
		return nil, err
	}
	return dot.Render(ctx, sys, opts.GraphFormat, dot.Options{Detailed: opts.Detailed})
}

func countElements(doc *ast.Document) int {
	if doc == nil {
		return 0
	}
	n := 0
	ast.Walk(doc.Elements, func(ast.Element, int) bool {
		n++
		return true
	})
	return n
}
