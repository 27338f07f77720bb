package markup

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse is wrapped by every error returned from [Parse].
var ErrParse = errors.New("markup parse error")

// documentMarkers select full-document parsing when any of them appears in
// the lowercased source.
var documentMarkers = []string{"<html", "<body", "<head", "<!doctype"}

// IsDocument reports whether src should be parsed as a full document rather
// than a fragment.
func IsDocument(src string) bool {
	lower := strings.ToLower(src)
	for _, marker := range documentMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}

// Parse reads src into a document node.
//
// Sources that look like a complete page are parsed as a document, which
// adds the implied html, head and body elements. Anything else is parsed as
// a fragment, so the rendered output does not gain elements the author did
// not write. Fragments beginning with table parts are parsed in the context
// of the table element that may contain them.
func Parse(src string) (*Node, error) {
	if IsDocument(src) {
		root, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		return convert(root), nil
	}

	context := fragmentContext(src)

	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	doc := NewDocument()
	for _, n := range nodes {
		doc.Children = append(doc.Children, convert(n))
	}

	if len(doc.Children) == 1 && doc.Children[0].IsElement("html") &&
		len(doc.Children[0].Attrs) == 0 {
		doc.Children = doc.Children[0].Children
	}

	return doc, nil
}

// fragmentParents maps the leading tag of a fragment to the element it must
// be parsed inside for the tree builder to keep it.
var fragmentParents = map[atom.Atom]atom.Atom{
	atom.Tr:       atom.Tbody,
	atom.Td:       atom.Tr,
	atom.Th:       atom.Tr,
	atom.Tbody:    atom.Table,
	atom.Thead:    atom.Table,
	atom.Tfoot:    atom.Table,
	atom.Caption:  atom.Table,
	atom.Colgroup: atom.Table,
	atom.Col:      atom.Colgroup,
}

func fragmentContext(src string) *html.Node {
	parent := atom.Body

	if a := atom.Lookup([]byte(leadingTag(src))); a != 0 {
		if p, ok := fragmentParents[a]; ok {
			parent = p
		}
	}

	return &html.Node{Type: html.ElementNode, DataAtom: parent, Data: parent.String()}
}

// leadingTag returns the lowercased name of the first start tag in src,
// skipping leading whitespace and comments. It returns "" when src does not
// begin with an element.
func leadingTag(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))

	for {
		switch z.Next() {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()

			return strings.ToLower(string(name))
		case html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) == "" {
				continue
			}

			return ""
		default:
			return ""
		}
	}
}

func convert(n *html.Node) *Node {
	var out *Node

	switch n.Type {
	case html.DocumentNode:
		out = NewDocument()
	case html.ElementNode:
		out = NewElement(n.Data, convertAttrs(n.Attr))
	case html.TextNode:
		return NewText(n.Data)
	case html.CommentNode:
		return NewComment(n.Data)
	case html.DoctypeNode:
		return NewDoctype(doctype(n))
	default:
		return NewText("")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.Children = append(out.Children, convert(c))
	}

	return out
}

func convertAttrs(attrs []html.Attribute) []Attr {
	if len(attrs) == 0 {
		return nil
	}

	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}

		out[i] = Attr{Name: name, Value: a.Val}
	}

	return out
}

// doctype reconstructs the doctype name with any public or system
// identifier the tokenizer split into attributes.
func doctype(n *html.Node) string {
	var public, system string

	for _, a := range n.Attr {
		switch a.Key {
		case "public":
			public = a.Val
		case "system":
			system = a.Val
		}
	}

	var sb strings.Builder

	sb.WriteString(n.Data)

	if public != "" {
		sb.WriteString(` PUBLIC "`)
		sb.WriteString(public)
		sb.WriteByte('"')
	}

	if system != "" {
		if public == "" {
			sb.WriteString(" SYSTEM")
		}

		sb.WriteString(` "`)
		sb.WriteString(system)
		sb.WriteByte('"')
	}

	return sb.String()
}
