package ast

// Document is the root of a parsed design file.
type Document struct {
	// Tokens maps design token paths (for example "spacing.md") to values.
	Tokens map[string]PropertyValue

	// Elements are the top-level elements in document order.
	Elements []Element
}

// ElementKind identifies the concrete type of an [Element].
type ElementKind string

// Element kinds.
const (
	KindFrame     ElementKind = "frame"
	KindText      ElementKind = "text"
	KindSvg       ElementKind = "svg"
	KindImage     ElementKind = "image"
	KindIcon      ElementKind = "icon"
	KindPart      ElementKind = "part"
	KindComponent ElementKind = "component"
	KindSlot      ElementKind = "slot"
)

// Element is implemented by every node of the document tree.
type Element interface {
	Kind() ElementKind
	ElementName() string
	ElementProperties() []Property
	ElementConstraints() []Constraint
	ElementChildren() []Element
	element()
}

// Base holds the fields shared by every element kind.
type Base struct {
	Name        string
	Properties  []Property
	Constraints []Constraint
}

func (b *Base) ElementName() string              { return b.Name }
func (b *Base) ElementProperties() []Property    { return b.Properties }
func (b *Base) ElementConstraints() []Constraint { return b.Constraints }
func (b *Base) ElementChildren() []Element       { return nil }
func (b *Base) element()                         {}

// Property returns the last property with the given name.
func (b *Base) Property(name string) (PropertyValue, bool) {
	return Lookup(b.Properties, name)
}

// Frame is a rectangular container.
type Frame struct {
	Base
	Children []Element
}

func (*Frame) Kind() ElementKind            { return KindFrame }
func (f *Frame) ElementChildren() []Element { return f.Children }

// Text is a run of text content.
type Text struct {
	Base
	Content string
}

func (*Text) Kind() ElementKind { return KindText }

// Svg is inline vector content with an optional view box.
type Svg struct {
	Base
	ViewBox *ViewBox
}

func (*Svg) Kind() ElementKind { return KindSvg }

// ViewBox is the coordinate system of an [Svg] element.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// Image is a raster image reference.
type Image struct {
	Base
	Source string
}

func (*Image) Kind() ElementKind { return KindImage }

// Icon is a named glyph from an icon set.
type Icon struct {
	Base
	Icon string
}

func (*Icon) Kind() ElementKind { return KindIcon }

// Part is a named, reusable sub-tree reference.
type Part struct {
	Base
	Ref string
}

func (*Part) Kind() ElementKind { return KindPart }

// Component is an instance of a component definition.
type Component struct {
	Base
	Component string
	Children  []Element
}

func (*Component) Kind() ElementKind            { return KindComponent }
func (c *Component) ElementChildren() []Element { return c.Children }

// Slot marks where a component instance's children are inserted.
type Slot struct {
	Base
}

func (*Slot) Kind() ElementKind { return KindSlot }

// Property is a name/value pair attached to an element.
type Property struct {
	Name  string
	Value PropertyValue
}

// Lookup returns the value of the last property named name.
// Later properties win, matching how a document author reads them.
func Lookup(props []Property, name string) (PropertyValue, bool) {
	for i := len(props) - 1; i >= 0; i-- {
		if props[i].Name == name {
			return props[i].Value, true
		}
	}
	return nil, false
}

// Walk calls fn for every element in depth-first order. Returning false
// from fn skips the element's children.
func Walk(elems []Element, fn func(el Element, depth int) bool) {
	var visit func([]Element, int)
	visit = func(list []Element, depth int) {
		for _, el := range list {
			if fn(el, depth) {
				visit(el.ElementChildren(), depth+1)
			}
		}
	}
	visit(elems, 0)
}
