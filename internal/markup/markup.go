// Package markup defines the output tree produced by rendering: a minimal
// HTML-shaped node model (elements, literal text, raw passthrough) that is
// independent of any particular serialization. Serialization to HTML text
// lives in this package too (WriteHTML) but nothing in the node model
// depends on it.
package markup

// NodeKind discriminates the three node shapes.
type NodeKind int

const (
	// ElementNode is a tag with attributes and children.
	ElementNode NodeKind = iota
	// TextNode is literal text; it is escaped at serialization time.
	TextNode
	// RawNode is pre-formed markup emitted verbatim at serialization time.
	// It is produced only for raw-HTML passthrough; renderer functions
	// never need to construct one.
	RawNode
)

// Attr is a single name/value attribute on an element.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the output tree.
type Node struct {
	Kind     NodeKind
	Tag      string // ElementNode only
	Attrs    []Attr // ElementNode only
	Children []*Node
	Text     string // TextNode and RawNode payload
}

// Element builds an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a literal text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Raw builds a verbatim markup node. Callers own the safety of its content.
func Raw(s string) *Node {
	return &Node{Kind: RawNode, Text: s}
}

// AttrValue returns the value of the named attribute and whether it is set.
func (n *Node) AttrValue(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
