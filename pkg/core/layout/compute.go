package layout

import (
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/geom"
	"github.com/matzehuels/seed/pkg/core/layout/autolayout"
	"github.com/matzehuels/seed/pkg/core/layout/grid"
	"github.com/matzehuels/seed/pkg/core/layout/text"
)

// Fallback sizes for elements without solved or intrinsic dimensions.
const (
	defaultIconSize  = 24.0
	defaultSvgSize   = 24.0
	defaultImageSize = 100.0
)

// Compute builds a constraint system for doc, solves it and composes the
// layout tree.
func Compute(doc *ast.Document, opts Options) (*Tree, error) {
	opts = opts.withDefaults()
	sys := NewSystem(opts)
	if err := sys.AddDocument(doc); err != nil {
		return nil, err
	}
	sol, err := sys.Solve()
	if err != nil {
		return nil, err
	}
	return Compose(doc, sys, sol, opts)
}

// NewSystem returns a constraint system configured from opts.
func NewSystem(opts Options) *constraint.System {
	opts = opts.withDefaults()
	return constraint.NewSystem(
		constraint.WithFontSize(opts.FontSize),
		constraint.WithMaxIterations(opts.MaxIterations),
	)
}

// Compose turns a solved document into a layout tree. sys must be the system
// doc was added to and sol its solution.
func Compose(doc *ast.Document, sys *constraint.System, sol *constraint.Solution, opts Options) (*Tree, error) {
	if doc == nil {
		return NewTree(), nil
	}
	c := &composer{
		opts:       opts.withDefaults(),
		sys:        sys,
		sol:        sol,
		tokens:     doc.Tokens,
		tree:       NewTree(),
		containers: make(map[NodeID]container),
	}
	for _, el := range doc.Elements {
		if _, err := c.element(el, 0, 0, 0, c.opts.ViewportWidth); err != nil {
			return nil, err
		}
	}
	c.tree.ComputeAbsoluteBounds()
	return c.tree, nil
}

type mode int

const (
	modeConstraints mode = iota
	modeAuto
	modeGrid
)

// container remembers how an arranging node lays out its children so it can
// be arranged again after its own size changes.
type container struct {
	el   ast.Element
	p    props
	mode mode
	dir  autolayout.Direction
}

type composer struct {
	opts       Options
	sys        *constraint.System
	sol        *constraint.Solution
	tokens     map[string]ast.PropertyValue
	tree       *Tree
	containers map[NodeID]container
}

func (c *composer) props(el ast.Element) props {
	return props{list: el.ElementProperties(), tokens: c.tokens, fontSize: c.opts.FontSize}
}

// element lays out el under parent. ox and oy are the parent's solved
// document-space origin; parentWidth bounds text wrapping.
func (c *composer) element(el ast.Element, parent NodeID, ox, oy, parentWidth float64) (NodeID, error) {
	p := c.props(el)
	n := Node{Kind: el.Kind(), Name: el.ElementName(), Opacity: 1, Visible: true}

	var b Bounds
	solved := false
	if eid, ok := c.sys.ElementOf(el); ok {
		n.ElementID = eid
		if name, ok := c.sys.ElementName(eid); ok {
			n.Name = name
		}
		if x, y, w, h, ok := c.sol.Box(eid); ok {
			b = geom.R(x-ox, y-oy, w, h)
			ox, oy = x, y
			solved = true
		}
	}
	if parent == 0 {
		if !solved {
			b = geom.R(0, 0, c.opts.ViewportWidth, c.opts.ViewportHeight)
		}
		if b.Width == 0 {
			b.Width = c.opts.ViewportWidth
		}
		if b.Height == 0 {
			b.Height = c.opts.ViewportHeight
		}
	}

	if b.Width == 0 || b.Height == 0 {
		if w, h, ok := c.measure(el, p, b.Width, parentWidth); ok {
			if b.Width == 0 {
				b.Width = w
			}
			if b.Height == 0 {
				b.Height = h
			}
		}
	}
	n.Bounds = b
	c.present(&n, p)

	var id NodeID
	if parent == 0 {
		id = c.tree.AddRoot(n)
	} else {
		var err error
		if id, err = c.tree.AddChild(parent, n); err != nil {
			return 0, err
		}
	}

	if el.Kind() != ast.KindFrame {
		return id, nil
	}
	for _, child := range el.ElementChildren() {
		if _, err := c.element(child, id, ox, oy, b.Width); err != nil {
			return 0, err
		}
	}

	ct := container{el: el, p: p}
	if s, ok := p.str("layout"); ok {
		if s == "grid" {
			ct.mode = modeGrid
		} else if dir, ok := autolayout.ParseDirection(s); ok {
			ct.mode, ct.dir = modeAuto, dir
		}
	}
	if ct.mode == modeConstraints || len(el.ElementChildren()) == 0 {
		return id, nil
	}
	c.containers[id] = ct
	if ct.mode == modeAuto {
		c.fitContent(id, ct)
	}
	c.arrange(id)
	return id, nil
}

// measure returns the intrinsic size of a leaf element.
func (c *composer) measure(el ast.Element, p props, width, parentWidth float64) (w, h float64, ok bool) {
	switch x := el.(type) {
	case *ast.Text:
		maxWidth := parentWidth
		if width > 0 {
			maxWidth = width
		}
		m := c.opts.Measurer.Measure(x.Content, c.textStyle(p), maxWidth)
		return m.Width, m.Height, true
	case *ast.Svg:
		if x.ViewBox != nil {
			return x.ViewBox.Width, x.ViewBox.Height, true
		}
		return defaultSvgSize, defaultSvgSize, true
	case *ast.Image:
		return defaultImageSize, defaultImageSize, true
	case *ast.Icon:
		if s, ok := p.length("size", 0); ok {
			return s, s, true
		}
		return defaultIconSize, defaultIconSize, true
	}
	return 0, 0, false
}

func (c *composer) textStyle(p props) text.Style {
	s := text.Style{
		FontFamily: "sans-serif",
		FontSize:   c.opts.FontSize,
		FontWeight: 400,
		LineHeight: c.opts.LineHeight,
	}
	if v, ok := p.str("font-family"); ok {
		s.FontFamily = v
	}
	if v, ok := p.length("font-size", c.opts.FontSize); ok && v > 0 {
		s.FontSize = v
	}
	if v, ok := p.number("font-weight"); ok {
		s.FontWeight = int(v)
	}
	if v, ok := p.number("line-height"); ok && v > 0 {
		s.LineHeight = v
	}
	if v, ok := p.length("letter-spacing", 0); ok {
		s.LetterSpacing = v
	}
	return s
}

// present applies clip, opacity and visible.
func (c *composer) present(n *Node, p props) {
	if v, ok := p.boolean("clip"); ok {
		n.ClipsChildren = v
	}
	if v, ok := p.number("opacity"); ok {
		n.Opacity = min(max(v, 0), 1)
	}
	if v, ok := p.boolean("visible"); ok {
		n.Visible = v
	}
}

func (c *composer) padding(p props, b Bounds) autolayout.Padding {
	var pad autolayout.Padding
	if v, ok := p.length("padding", b.Width); ok {
		pad = autolayout.Uniform(v)
	}
	if v, ok := p.length("padding-top", b.Height); ok {
		pad.Top = v
	}
	if v, ok := p.length("padding-right", b.Width); ok {
		pad.Right = v
	}
	if v, ok := p.length("padding-bottom", b.Height); ok {
		pad.Bottom = v
	}
	if v, ok := p.length("padding-left", b.Width); ok {
		pad.Left = v
	}
	return pad
}

func (c *composer) autoConfig(ct container, b Bounds) autolayout.Config {
	cfg := autolayout.Config{Direction: ct.dir, Padding: c.padding(ct.p, b)}
	base := b.Width
	if ct.dir == autolayout.Vertical {
		base = b.Height
	}
	if v, ok := ct.p.length("gap", base); ok {
		cfg.Gap = v
	}
	if v, ok := ct.p.str("align"); ok {
		cfg.Align = autolayout.ParseAlignment(v)
	}
	if v, ok := ct.p.str("justify"); ok {
		cfg.Justify = autolayout.ParseJustify(v)
	} else if v, ok := ct.p.str("justify-content"); ok {
		cfg.Justify = autolayout.ParseJustify(v)
	}
	return cfg
}

func (c *composer) childSizes(id NodeID, ct container) []autolayout.ChildSize {
	node := c.tree.Node(id)
	elems := ct.el.ElementChildren()
	out := make([]autolayout.ChildSize, len(node.Children))
	for i, cid := range node.Children {
		b := c.tree.Node(cid).Bounds
		cs := autolayout.ChildSize{FlexShrink: 1}
		if b.Width > 0 {
			cs.Width = &b.Width
		}
		if b.Height > 0 {
			cs.Height = &b.Height
		}
		p := c.props(elems[i])
		cs.MinWidth, _ = p.length("min-width", node.Bounds.Width)
		cs.MinHeight, _ = p.length("min-height", node.Bounds.Height)
		cs.FlexGrow, _ = p.number("flex-grow")
		if v, ok := p.number("flex-shrink"); ok {
			cs.FlexShrink = v
		}
		out[i] = cs
	}
	return out
}

// fitContent sizes an unsized auto layout container to its children.
func (c *composer) fitContent(id NodeID, ct container) {
	node := c.tree.Node(id)
	if node.Bounds.Width > 0 && node.Bounds.Height > 0 {
		return
	}
	w, h := autolayout.IntrinsicSize(c.childSizes(id, ct), c.autoConfig(ct, node.Bounds))
	if node.Bounds.Width == 0 {
		node.Bounds.Width = w
	}
	if node.Bounds.Height == 0 {
		node.Bounds.Height = h
	}
}

// arrange positions the children of an auto or grid container within its
// content box. Children that are containers themselves are arranged again
// when their size changed.
func (c *composer) arrange(id NodeID) {
	ct, ok := c.containers[id]
	if !ok {
		return
	}
	node := c.tree.Node(id)
	box := geom.R(0, 0, node.Bounds.Width, node.Bounds.Height)

	var placed []Bounds
	switch ct.mode {
	case modeAuto:
		placed = autolayout.Layout(box, c.childSizes(id, ct), c.autoConfig(ct, node.Bounds))
	case modeGrid:
		cfg, items := c.gridConfig(id, ct)
		pad := c.padding(ct.p, node.Bounds)
		placed = grid.Layout(box.Inset(pad.Top, pad.Right, pad.Bottom, pad.Left), items, cfg)
	}

	for i, cid := range node.Children {
		child := c.tree.Node(cid)
		resized := child.Bounds.Width != placed[i].Width || child.Bounds.Height != placed[i].Height
		child.Bounds = placed[i]
		if resized {
			c.arrange(cid)
		}
	}
}

func (c *composer) gridConfig(id NodeID, ct container) (grid.Config, []grid.Item) {
	node := c.tree.Node(id)
	b := node.Bounds
	cfg := grid.Config{Placement: c.opts.Placement}
	cfg.Columns, _ = ct.p.tracks(b.Width, "grid-template-columns", "columns")
	cfg.Rows, _ = ct.p.tracks(b.Height, "grid-template-rows", "rows")
	if v, ok := ct.p.length("gap", b.Width); ok {
		cfg.ColumnGap, cfg.RowGap = v, v
	}
	if v, ok := ct.p.length("column-gap", b.Width); ok {
		cfg.ColumnGap = v
	}
	if v, ok := ct.p.length("row-gap", b.Height); ok {
		cfg.RowGap = v
	}
	if v, ok := ct.p.str("justify-items"); ok {
		cfg.JustifyItems = grid.ParseAlignment(v)
	}
	if v, ok := ct.p.str("align-items"); ok {
		cfg.AlignItems = grid.ParseAlignment(v)
	}
	cfg.StretchAuto, _ = ct.p.boolean("grid-auto-stretch")

	elems := ct.el.ElementChildren()
	items := make([]grid.Item, len(node.Children))
	for i, cid := range node.Children {
		cb := c.tree.Node(cid).Bounds
		if cb.Width > 0 {
			items[i].Width = &cb.Width
		}
		if cb.Height > 0 {
			items[i].Height = &cb.Height
		}
		p := c.props(elems[i])
		pl := &items[i].Placement
		pl.ColumnStart, pl.ColumnEnd = p.gridLine("grid-column")
		pl.RowStart, pl.RowEnd = p.gridLine("grid-row")
	}
	return cfg, items
}
