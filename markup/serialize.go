package markup

import (
	"bufio"
	"io"
	"strings"
)

// voidElements never have a closing tag; their children are not written.
var voidElements = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// IsVoid reports whether tag names a void element.
func IsVoid(tag string) bool {
	_, ok := voidElements[tag]

	return ok
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	aposEscaper = strings.NewReplacer("'", "&#39;")
)

// EscapeText escapes &, < and > only. Quotes are left alone.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// QuoteAttr returns value enclosed in quotes. Single quotes are preferred;
// double quotes are used when they avoid escaping, and a value holding both
// kinds is single-quoted with ' written as &#39;.
func QuoteAttr(value string) string {
	apos := strings.ContainsRune(value, '\'')
	quot := strings.ContainsRune(value, '"')

	switch {
	case apos && quot:
		return "'" + aposEscaper.Replace(value) + "'"
	case apos:
		return `"` + value + `"`
	default:
		return "'" + value + "'"
	}
}

// Render serializes n to a string.
func Render(n *Node) string {
	var sb strings.Builder

	writeNode(&sb, n)

	return sb.String()
}

// Write serializes n to w.
func Write(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)

	writeNode(bw, n)

	return bw.Flush()
}

// stringWriter is implemented by both strings.Builder and bufio.Writer.
// bufio.Writer records the first error and reports it from Flush.
type stringWriter interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

func writeNode(w stringWriter, n *Node) {
	if n == nil {
		return
	}

	switch n.Type {
	case DocumentNode:
		for _, child := range n.Children {
			writeNode(w, child)
		}

	case TextNode:
		_, _ = w.WriteString(EscapeText(n.Data))

	case CommentNode:
		_, _ = w.WriteString("<!--")
		_, _ = w.WriteString(EscapeText(n.Data))
		_, _ = w.WriteString("-->")

	case DoctypeNode:
		_, _ = w.WriteString("<!DOCTYPE ")
		_, _ = w.WriteString(EscapeText(n.Data))
		_ = w.WriteByte('>')

	case ElementNode:
		_ = w.WriteByte('<')
		_, _ = w.WriteString(n.Tag)

		for _, a := range n.Attrs {
			_ = w.WriteByte(' ')
			_, _ = w.WriteString(a.Name)
			_ = w.WriteByte('=')
			_, _ = w.WriteString(QuoteAttr(a.Value))
		}

		_ = w.WriteByte('>')

		if IsVoid(n.Tag) {
			return
		}

		for _, child := range n.Children {
			writeNode(w, child)
		}

		_, _ = w.WriteString("</")
		_, _ = w.WriteString(n.Tag)
		_ = w.WriteByte('>')
	}
}

// AttrString serializes attrs exactly as they appear inside an open tag,
// including the leading space of each attribute.
func AttrString(attrs []Attr) string {
	var sb strings.Builder

	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		sb.WriteString(QuoteAttr(a.Value))
	}

	return sb.String()
}
