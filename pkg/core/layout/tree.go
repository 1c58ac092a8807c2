package layout

import (
	"fmt"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/geom"
)

// Bounds is a rectangle in resolved pixels.
type Bounds = geom.Rect

// NodeID identifies a node within one [Tree]. IDs start at 1.
type NodeID uint64

// Node is one positioned element.
type Node struct {
	ID        NodeID               `json:"id"`
	ElementID constraint.ElementID `json:"element_id,omitempty"`
	Name      string               `json:"name,omitempty"`
	Kind      ast.ElementKind      `json:"kind"`

	// Bounds are relative to the parent node. AbsoluteBounds are in
	// document space and are filled by [Tree.ComputeAbsoluteBounds].
	Bounds         Bounds `json:"bounds"`
	AbsoluteBounds Bounds `json:"absolute_bounds"`

	Parent        NodeID   `json:"parent,omitempty"`
	Children      []NodeID `json:"children,omitempty"`
	ClipsChildren bool     `json:"clips_children"`
	Opacity       float64  `json:"opacity"`
	Visible       bool     `json:"visible"`
}

// Tree is the result of a layout pass. Nodes are stored in creation order,
// which is a depth-first preorder of the document.
type Tree struct {
	nodes     []*Node
	roots     []NodeID
	byElement map[constraint.ElementID]NodeID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{byElement: make(map[constraint.ElementID]NodeID)}
}

func (t *Tree) add(n Node) NodeID {
	n.ID = NodeID(len(t.nodes) + 1)
	node := &n
	t.nodes = append(t.nodes, node)
	if n.ElementID != 0 {
		t.byElement[n.ElementID] = n.ID
	}
	return n.ID
}

// AddRoot adds a top-level node and returns its id.
func (t *Tree) AddRoot(n Node) NodeID {
	n.Parent = 0
	id := t.add(n)
	t.roots = append(t.roots, id)
	return id
}

// AddChild adds n under parent and returns its id.
func (t *Tree) AddChild(parent NodeID, n Node) (NodeID, error) {
	p := t.Node(parent)
	if p == nil {
		return 0, fmt.Errorf("layout: unknown parent node %d", parent)
	}
	n.Parent = parent
	id := t.add(n)
	p.Children = append(p.Children, id)
	return id, nil
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if id == 0 || int(id) > len(t.nodes) {
		return nil
	}
	return t.nodes[id-1]
}

// ByElement returns the node created for a constraint system element.
func (t *Tree) ByElement(id constraint.ElementID) *Node {
	return t.Node(t.byElement[id])
}

// ByName returns the first node with the given name.
func (t *Tree) ByName(name string) *Node {
	for _, n := range t.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Roots returns the ids of the top-level nodes.
func (t *Tree) Roots() []NodeID { return t.roots }

// Nodes returns every node in preorder.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Children returns the child nodes of id in order.
func (t *Tree) Children(id NodeID) []*Node {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, t.Node(c))
	}
	return out
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for n := t.Node(id); n != nil && n.Parent != 0; n = t.Node(n.Parent) {
		d++
	}
	return d
}

// ComputeAbsoluteBounds accumulates parent-relative bounds top-down.
func (t *Tree) ComputeAbsoluteBounds() {
	var visit func(id NodeID, ox, oy float64)
	visit = func(id NodeID, ox, oy float64) {
		n := t.Node(id)
		n.AbsoluteBounds = n.Bounds.Translate(ox, oy)
		for _, c := range n.Children {
			visit(c, n.AbsoluteBounds.X, n.AbsoluteBounds.Y)
		}
	}
	for _, r := range t.roots {
		visit(r, 0, 0)
	}
}

// HitTest returns the topmost visible node containing the document-space
// point, or 0. Later siblings are drawn above earlier ones, and clipping
// nodes hide descendants outside their bounds.
func (t *Tree) HitTest(x, y float64) NodeID {
	var visit func(id NodeID) NodeID
	visit = func(id NodeID) NodeID {
		n := t.Node(id)
		if !n.Visible {
			return 0
		}
		inside := n.AbsoluteBounds.Contains(x, y)
		if n.ClipsChildren && !inside {
			return 0
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			if hit := visit(n.Children[i]); hit != 0 {
				return hit
			}
		}
		if inside {
			return id
		}
		return 0
	}
	for i := len(t.roots) - 1; i >= 0; i-- {
		if hit := visit(t.roots[i]); hit != 0 {
			return hit
		}
	}
	return 0
}

// ContentBounds returns the union of every node's absolute bounds.
func (t *Tree) ContentBounds() Bounds {
	var out Bounds
	for i, n := range t.nodes {
		if i == 0 {
			out = n.AbsoluteBounds
			continue
		}
		out = out.Union(n.AbsoluteBounds)
	}
	return out
}

// FromNodes rebuilds a tree from exported nodes, as read back from a
// serialized layout. Node ids must be dense and start at 1.
func FromNodes(roots []NodeID, nodes []Node) (*Tree, error) {
	t := NewTree()
	for i, n := range nodes {
		if n.ID != NodeID(i+1) {
			return nil, fmt.Errorf("layout: node %d out of order (position %d)", n.ID, i+1)
		}
		n.Children = append([]NodeID(nil), n.Children...)
		node := n
		t.nodes = append(t.nodes, &node)
		if n.ElementID != 0 {
			t.byElement[n.ElementID] = n.ID
		}
	}
	for _, n := range t.nodes {
		for _, c := range n.Children {
			if t.Node(c) == nil {
				return nil, fmt.Errorf("layout: node %d has unknown child %d", n.ID, c)
			}
		}
	}
	for _, r := range roots {
		if t.Node(r) == nil {
			return nil, fmt.Errorf("layout: unknown root %d", r)
		}
	}
	t.roots = append([]NodeID(nil), roots...)
	return t, nil
}
