// Package markup holds the HTML node tree that templates are rendered into,
// the serializer that writes it back out, and a parser built on
// golang.org/x/net/html.
//
// The serializer is deliberately small: it escapes only what must be
// escaped, prefers single-quoted attributes, and never adds elements or
// attributes that were not in the tree.
package markup
