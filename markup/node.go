package markup

import (
	"slices"
	"strconv"
)

// NodeType identifies the variant of a [Node].
type NodeType uint8

// Node variants.
const (
	DocumentNode NodeType = iota + 1
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// String returns the variant name.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	default:
		return "NodeType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Attr is one element attribute. Attribute order is significant and is
// preserved through rendering.
type Attr struct {
	Name  string
	Value string
}

// Node is a document, element, text, comment or doctype node.
//
// Elements use Tag, Attrs and Children; documents use Children only; text,
// comment and doctype nodes keep their unescaped content in Data. Nodes have
// no parent pointers and are mutated in place while rendering.
type Node struct {
	Children []*Node
	Attrs    []Attr
	Tag      string
	Data     string
	Type     NodeType
}

// NewDocument returns a document containing children.
func NewDocument(children ...*Node) *Node {
	return &Node{Type: DocumentNode, Children: children}
}

// NewElement returns an element with the given tag, attributes and children.
func NewElement(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// NewText returns a text node.
func NewText(data string) *Node { return &Node{Type: TextNode, Data: data} }

// NewComment returns a comment node.
func NewComment(data string) *Node { return &Node{Type: CommentNode, Data: data} }

// NewDoctype returns a doctype node.
func NewDoctype(data string) *Node { return &Node{Type: DoctypeNode, Data: data} }

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	c.Attrs = slices.Clone(n.Attrs)

	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}

	return &c
}

// CloneAll returns deep copies of nodes.
func CloneAll(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}

	return out
}

// IsElement reports whether n is an element with the given tag.
func (n *Node) IsElement(tag string) bool {
	return n != nil && n.Type == ElementNode && n.Tag == tag
}

// AttrIndex returns the position of the first attribute named name, or -1.
func (n *Node) AttrIndex(name string) int {
	return slices.IndexFunc(n.Attrs, func(a Attr) bool { return a.Name == name })
}

// Attr returns the value of the first attribute named name.
func (n *Node) Attr(name string) (string, bool) {
	if i := n.AttrIndex(name); i >= 0 {
		return n.Attrs[i].Value, true
	}

	return "", false
}

// HasAttr reports whether n carries an attribute named name.
func (n *Node) HasAttr(name string) bool { return n.AttrIndex(name) >= 0 }

// RemoveAttr deletes the first attribute named name and returns its value.
func (n *Node) RemoveAttr(name string) (string, bool) {
	i := n.AttrIndex(name)
	if i < 0 {
		return "", false
	}

	value := n.Attrs[i].Value
	n.Attrs = slices.Delete(n.Attrs, i, i+1)

	return value, true
}

// SetAttr replaces the value of the first attribute named name, or appends
// a new attribute.
func (n *Node) SetAttr(name, value string) {
	if i := n.AttrIndex(name); i >= 0 {
		n.Attrs[i].Value = value

		return
	}

	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Text returns the content of n when its only child is a text node.
func (n *Node) Text() (string, bool) {
	if len(n.Children) == 1 && n.Children[0].Type == TextNode {
		return n.Children[0].Data, true
	}

	return "", false
}

// String returns the serialized markup of n.
func (n *Node) String() string { return Render(n) }
