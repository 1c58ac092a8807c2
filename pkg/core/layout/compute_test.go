package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/geom"
)

func px(v float64) ast.Length { return ast.Pixels(v) }

func prop(name string, v ast.PropertyValue) ast.Property { return ast.Property{Name: name, Value: v} }

func sized(w, h float64, extra ...ast.Property) []ast.Property {
	return append([]ast.Property{prop("width", px(w)), prop("height", px(h))}, extra...)
}

func frame(name string, props []ast.Property, cs []ast.Constraint, children ...ast.Element) *ast.Frame {
	return &ast.Frame{
		Base:     ast.Base{Name: name, Properties: props, Constraints: cs},
		Children: children,
	}
}

func offset(dx, dy float64) []ast.Constraint {
	ref := func(p string, d float64) ast.Expression {
		return ast.BinaryOp{Op: ast.OpAdd, Left: ast.PropertyRef{Element: ast.Parent(), Property: p}, Right: ast.Literal(d)}
	}
	return []ast.Constraint{
		{Kind: ast.Equality{Property: "x", Value: ref("x", dx)}},
		{Kind: ast.Equality{Property: "y", Value: ref("y", dy)}},
	}
}

func compute(t *testing.T, elems ...ast.Element) *Tree {
	t.Helper()
	tree, err := Compute(&ast.Document{Elements: elems}, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return tree
}

func node(t *testing.T, tree *Tree, name string) *Node {
	t.Helper()
	n := tree.ByName(name)
	if n == nil {
		t.Fatalf("node %q not found", name)
	}
	return n
}

func near(a, b Bounds) bool {
	const eps = 1e-6
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}

func assertBounds(t *testing.T, what string, got, want Bounds) {
	t.Helper()
	if !near(got, want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestComputeEmpty(t *testing.T) {
	tree := compute(t)
	if tree.Len() != 0 || len(tree.Roots()) != 0 {
		t.Errorf("Compute(empty) has %d nodes, want 0", tree.Len())
	}
}

func TestComputeRootAndChild(t *testing.T) {
	child := frame("Child", sized(100, 50), []ast.Constraint{
		{Kind: ast.Alignment{Edge: ast.EdgeLeft, Target: ast.Parent()}},
		{Kind: ast.Alignment{Edge: ast.EdgeTop, Target: ast.Parent()}},
	})
	tree := compute(t, frame("Root", sized(400, 300), nil, child))

	root := node(t, tree, "Root")
	assertBounds(t, "Root bounds", root.Bounds, geom.R(0, 0, 400, 300))
	c := node(t, tree, "Child")
	assertBounds(t, "Child bounds", c.Bounds, geom.R(0, 0, 100, 50))
	assertBounds(t, "Child absolute", c.AbsoluteBounds, geom.R(0, 0, 100, 50))
	if c.Parent != root.ID || len(root.Children) != 1 {
		t.Errorf("Child parent = %d, want %d", c.Parent, root.ID)
	}
	if c.ElementID == 0 || tree.ByElement(c.ElementID) != c {
		t.Errorf("ByElement(%d) did not return Child", c.ElementID)
	}
}

func TestComputeRootDefaultsToViewport(t *testing.T) {
	tree, err := Compute(&ast.Document{Elements: []ast.Element{frame("Root", nil, nil)}},
		Options{ViewportWidth: 1024, ViewportHeight: 768})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertBounds(t, "Root", node(t, tree, "Root").Bounds, geom.R(0, 0, 1024, 768))

	// Only the missing dimension is filled.
	tree = compute(t, frame("Root", []ast.Property{prop("width", px(300))}, nil))
	assertBounds(t, "Root", node(t, tree, "Root").Bounds, geom.R(0, 0, 300, 600))
}

func TestComputeDeepNesting(t *testing.T) {
	var el ast.Element = frame("L5", sized(10, 10), offset(10, 5))
	for _, name := range []string{"L4", "L3", "L2", "L1"} {
		el = frame(name, sized(100, 100), offset(10, 5), el)
	}
	tree := compute(t, frame("Root", sized(500, 500), nil, el))

	for i, name := range []string{"L1", "L2", "L3", "L4", "L5"} {
		n := node(t, tree, name)
		depth := float64(i + 1)
		if !near(geom.R(n.Bounds.X, n.Bounds.Y, 0, 0), geom.R(10, 5, 0, 0)) {
			t.Errorf("%s relative position = (%v, %v), want (10, 5)", name, n.Bounds.X, n.Bounds.Y)
		}
		if !near(geom.R(n.AbsoluteBounds.X, n.AbsoluteBounds.Y, 0, 0), geom.R(10*depth, 5*depth, 0, 0)) {
			t.Errorf("%s absolute position = (%v, %v), want (%v, %v)",
				name, n.AbsoluteBounds.X, n.AbsoluteBounds.Y, 10*depth, 5*depth)
		}
		if got := tree.Depth(n.ID); got != i+1 {
			t.Errorf("Depth(%s) = %d, want %d", name, got, i+1)
		}
	}
}

func TestComputeAbsoluteMatchesSolution(t *testing.T) {
	doc := &ast.Document{Elements: []ast.Element{
		frame("Root", sized(400, 300), nil,
			frame("A", sized(100, 100), offset(20, 30),
				frame("B", sized(20, 20), offset(5, 5)),
			),
		),
	}}
	sys := NewSystem(Options{})
	if err := sys.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	sol, err := sys.Solve()
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	tree, err := Compose(doc, sys, sol, Options{})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	for _, n := range tree.Nodes() {
		x, y, w, h, ok := sol.Box(n.ElementID)
		if !ok {
			t.Fatalf("Box(%s) missing", n.Name)
		}
		assertBounds(t, n.Name+" absolute", n.AbsoluteBounds, geom.R(x, y, w, h))
	}
}

func TestComputeUnconstrainedChildAtParentOrigin(t *testing.T) {
	tree := compute(t, frame("Root", sized(400, 300), nil,
		frame("Mid", sized(200, 200), offset(50, 50),
			frame("Leaf", sized(10, 10), nil),
		),
	))
	leaf := node(t, tree, "Leaf")
	assertBounds(t, "Leaf bounds", leaf.Bounds, geom.R(0, 0, 10, 10))
	assertBounds(t, "Leaf absolute", leaf.AbsoluteBounds, geom.R(50, 50, 10, 10))
}

func TestComputeAutoLayout(t *testing.T) {
	tree := compute(t, frame("Row", sized(200, 100, prop("layout", ast.Keyword("horizontal")), prop("gap", px(20))), nil,
		frame("A", sized(90, 40), nil),
		frame("B", sized(90, 40), nil),
	))
	assertBounds(t, "A", node(t, tree, "A").Bounds, geom.R(0, 0, 90, 40))
	assertBounds(t, "B", node(t, tree, "B").Bounds, geom.R(110, 0, 90, 40))
}

func TestComputeAutoLayoutOverridesConstraints(t *testing.T) {
	tree := compute(t, frame("Col", sized(200, 300, prop("layout", ast.Keyword("column")), prop("padding", px(10))), nil,
		frame("A", sized(50, 40), offset(70, 70)),
		frame("B", sized(60, 40), nil),
	))
	assertBounds(t, "A", node(t, tree, "A").Bounds, geom.R(10, 10, 50, 40))
	assertBounds(t, "B", node(t, tree, "B").Bounds, geom.R(10, 50, 60, 40))
}

func TestComputeAutoLayoutAlignment(t *testing.T) {
	tests := []struct {
		align string
		want  Bounds
	}{
		{"start", geom.R(0, 0, 50, 40)},
		{"center", geom.R(0, 30, 50, 40)},
		{"end", geom.R(0, 60, 50, 40)},
		{"stretch", geom.R(0, 0, 50, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			tree := compute(t, frame("Row", sized(200, 100,
				prop("layout", ast.Keyword("row")), prop("align", ast.Keyword(tt.align))), nil,
				frame("A", sized(50, 40), nil),
			))
			assertBounds(t, "A", node(t, tree, "A").Bounds, tt.want)
		})
	}
}

func TestComputeAutoLayoutCrossOverflow(t *testing.T) {
	tree := compute(t, frame("Row", sized(200, 100,
		prop("layout", ast.Keyword("horizontal")), prop("align", ast.Keyword("end"))), nil,
		frame("A", sized(90, 300), nil),
	))
	assertBounds(t, "A", node(t, tree, "A").Bounds, geom.R(0, -200, 90, 300))
}

func TestComputeNilDocument(t *testing.T) {
	tree, err := Compute(nil, Options{})
	if err != nil {
		t.Fatalf("Compute(nil) error = %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("Compute(nil) has %d nodes, want 0", tree.Len())
	}
}

func TestComputeAutoLayoutFitsContent(t *testing.T) {
	inner := frame("Inner", nil, nil,
		frame("A", sized(30, 20), nil),
		frame("B", sized(40, 10), nil),
	)
	inner.Properties = []ast.Property{prop("layout", ast.Keyword("horizontal")), prop("gap", px(5))}
	tree := compute(t, frame("Root", sized(400, 300, prop("layout", ast.Keyword("vertical"))), nil, inner))

	got := node(t, tree, "Inner").Bounds
	if got.Width != 75 || got.Height != 20 {
		t.Errorf("Inner size = %vx%v, want 75x20", got.Width, got.Height)
	}
}

func TestComputeGrid(t *testing.T) {
	tracks := ast.GridTracks{ast.TrackFraction(1), ast.TrackFraction(2), ast.TrackFraction(1)}
	tree := compute(t, frame("Grid", sized(300, 100,
		prop("layout", ast.Keyword("grid")),
		prop("grid-template-columns", tracks),
		prop("grid-template-rows", ast.GridTracks{ast.TrackFraction(1)}),
		prop("justify-items", ast.Keyword("stretch")),
		prop("align-items", ast.Keyword("stretch")),
	), nil,
		frame("A", nil, nil),
		frame("B", nil, nil),
		frame("C", nil, nil),
	))
	assertBounds(t, "A", node(t, tree, "A").Bounds, geom.R(0, 0, 75, 100))
	assertBounds(t, "B", node(t, tree, "B").Bounds, geom.R(75, 0, 150, 100))
	assertBounds(t, "C", node(t, tree, "C").Bounds, geom.R(225, 0, 75, 100))
}

func TestComputeGridPlacementAndGap(t *testing.T) {
	cols := ast.GridTracks{ast.TrackFixed{Length: px(100)}, ast.TrackFixed{Length: px(100)}}
	rows := ast.GridTracks{ast.TrackFixed{Length: px(50)}, ast.TrackFixed{Length: px(50)}}
	tree := compute(t, frame("Grid", sized(400, 400,
		prop("layout", ast.Keyword("grid")),
		prop("columns", cols),
		prop("rows", rows),
		prop("gap", px(10)),
		prop("padding", px(8)),
	), nil,
		frame("Wide", []ast.Property{prop("grid-column", ast.GridLine{Start: 1, End: 3})}, nil),
		frame("Corner", []ast.Property{prop("grid-column", ast.Number(2)), prop("grid-row", ast.Number(2))}, nil),
		frame("Small", sized(20, 20, prop("grid-row", ast.GridLine{Start: 2})), nil),
	))
	assertBounds(t, "Wide", node(t, tree, "Wide").Bounds, geom.R(8, 8, 210, 50))
	assertBounds(t, "Corner", node(t, tree, "Corner").Bounds, geom.R(118, 68, 100, 50))
	assertBounds(t, "Small", node(t, tree, "Small").Bounds, geom.R(8, 68, 20, 20))
}

func TestComputeRearrangesNestedContainers(t *testing.T) {
	cols := ast.GridTracks{ast.TrackFixed{Length: px(200)}}
	rowsT := ast.GridTracks{ast.TrackFixed{Length: px(80)}}
	inner := frame("Inner", []ast.Property{
		prop("layout", ast.Keyword("horizontal")),
		prop("align", ast.Keyword("stretch")),
	}, nil, frame("Leaf", []ast.Property{prop("width", px(30))}, nil))

	tree := compute(t, frame("Grid", sized(400, 400,
		prop("layout", ast.Keyword("grid")),
		prop("columns", cols),
		prop("rows", rowsT),
		prop("justify-items", ast.Keyword("stretch")),
		prop("align-items", ast.Keyword("stretch")),
	), nil, inner))

	assertBounds(t, "Inner", node(t, tree, "Inner").Bounds, geom.R(0, 0, 200, 80))
	if got := node(t, tree, "Leaf").Bounds.Height; got != 80 {
		t.Errorf("Leaf height = %v, want 80 after Inner was stretched", got)
	}
}

func TestComputeMeasuresLeaves(t *testing.T) {
	tests := []struct {
		name string
		el   ast.Element
		w, h float64
	}{
		{"text", &ast.Text{Base: ast.Base{Name: "T"}, Content: "Hello"}, 5 * 16 * 0.55, 16 * 1.2},
		{"svg view box", &ast.Svg{Base: ast.Base{Name: "T"}, ViewBox: &ast.ViewBox{Width: 48, Height: 32}}, 48, 32},
		{"svg default", &ast.Svg{Base: ast.Base{Name: "T"}}, 24, 24},
		{"image", &ast.Image{Base: ast.Base{Name: "T"}, Source: "a.png"}, 100, 100},
		{"icon default", &ast.Icon{Base: ast.Base{Name: "T"}, Icon: "star"}, 24, 24},
		{"icon size", &ast.Icon{Base: ast.Base{Name: "T", Properties: []ast.Property{prop("size", px(32))}}, Icon: "star"}, 32, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := compute(t, frame("Root", sized(400, 300), nil, tt.el))
			b := node(t, tree, "T").Bounds
			if math.Abs(b.Width-tt.w) > 1e-9 || math.Abs(b.Height-tt.h) > 1e-9 {
				t.Errorf("size = %vx%v, want %vx%v", b.Width, b.Height, tt.w, tt.h)
			}
		})
	}
}

func TestComputeTextWrapsToParent(t *testing.T) {
	txt := &ast.Text{Base: ast.Base{Name: "T"}, Content: "aaaa bbbb cccc"}
	tree := compute(t, frame("Root", sized(50, 300), nil, txt))
	b := node(t, tree, "T").Bounds
	if want := 3 * 16 * 1.2; math.Abs(b.Height-want) > 1e-9 {
		t.Errorf("height = %v, want %v (three lines)", b.Height, want)
	}
}

func TestComputeTextKeepsSolvedWidth(t *testing.T) {
	txt := &ast.Text{Base: ast.Base{Name: "T", Properties: []ast.Property{prop("width", px(300))}}, Content: "Hi"}
	tree := compute(t, frame("Root", sized(400, 300), nil, txt))
	b := node(t, tree, "T").Bounds
	if b.Width != 300 {
		t.Errorf("width = %v, want 300", b.Width)
	}
	if math.Abs(b.Height-16*1.2) > 1e-9 {
		t.Errorf("height = %v, want %v", b.Height, 16*1.2)
	}
}

func TestComputePresentation(t *testing.T) {
	tree := compute(t, frame("Root", sized(100, 100, prop("clip", ast.Bool(true))), nil,
		frame("Faded", []ast.Property{prop("opacity", ast.Number(1.5))}, nil),
		frame("Hidden", []ast.Property{prop("visible", ast.Bool(false)), prop("opacity", ast.Number(0.25))}, nil),
	))
	if !node(t, tree, "Root").ClipsChildren {
		t.Error("Root.ClipsChildren = false, want true")
	}
	if got := node(t, tree, "Faded").Opacity; got != 1 {
		t.Errorf("Faded.Opacity = %v, want 1", got)
	}
	h := node(t, tree, "Hidden")
	if h.Visible || h.Opacity != 0.25 {
		t.Errorf("Hidden = visible %v opacity %v, want false 0.25", h.Visible, h.Opacity)
	}
}

func TestComputeTokens(t *testing.T) {
	doc := &ast.Document{
		Tokens: map[string]ast.PropertyValue{
			"spacing.md": px(12),
			"gap":        ast.TokenRef{Path: "spacing.md"},
		},
		Elements: []ast.Element{
			frame("Row", sized(200, 50, prop("layout", ast.Keyword("row")), prop("gap", ast.TokenRef{Path: "gap"})), nil,
				frame("A", sized(10, 10), nil),
				frame("B", sized(10, 10), nil),
			),
		},
	}
	tree, err := Compute(doc, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := node(t, tree, "B").Bounds.X; got != 22 {
		t.Errorf("B.x = %v, want 22", got)
	}
}

func TestComputeComponentIsEmptyNode(t *testing.T) {
	tree := compute(t, frame("Root", sized(100, 100), nil,
		&ast.Component{Base: ast.Base{Name: "Card"}, Component: "Card", Children: []ast.Element{frame("Inside", nil, nil)}},
	))
	c := node(t, tree, "Card")
	if c.Bounds != (Bounds{}) || len(c.Children) != 0 {
		t.Errorf("Card = %+v, want empty node without children", c)
	}
}

func TestComputeErrors(t *testing.T) {
	t.Run("unsatisfiable", func(t *testing.T) {
		el := frame("Box", sized(100, 100), []ast.Constraint{
			{Kind: ast.Equality{Property: "width", Value: px(50)}},
		})
		_, err := Compute(&ast.Document{Elements: []ast.Element{el}}, Options{})
		var target *constraint.UnsatisfiableError
		if !errors.As(err, &target) {
			t.Errorf("Compute() error = %v, want UnsatisfiableError", err)
		}
	})
	t.Run("parent at root", func(t *testing.T) {
		_, err := Compute(&ast.Document{Elements: []ast.Element{frame("Box", nil, offset(1, 1))}}, Options{})
		var target *constraint.UnknownPropertyError
		if !errors.As(err, &target) {
			t.Errorf("Compute() error = %v, want UnknownPropertyError", err)
		}
	})
}

func TestComputeDeterministic(t *testing.T) {
	build := func() *Tree {
		return compute(t, frame("Root", sized(400, 300, prop("layout", ast.Keyword("row")), prop("gap", px(4))), nil,
			frame("A", sized(10, 10), nil),
			&ast.Text{Base: ast.Base{Name: "T"}, Content: "two words"},
		))
	}
	a, b := build(), build()
	for i, n := range a.Nodes() {
		if m := b.Nodes()[i]; n.Bounds != m.Bounds || n.AbsoluteBounds != m.AbsoluteBounds {
			t.Errorf("node %d differs between runs: %v vs %v", i, n.Bounds, m.Bounds)
		}
	}
}
