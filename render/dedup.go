package render

import (
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/platelet/markup"
)

// DedupSet remembers the style and script blocks already written during one
// top-level render, so a block repeated by several includes is emitted once.
// A DedupSet is not safe for concurrent use.
type DedupSet struct {
	seen map[xxh3.Uint128]struct{}
}

// NewDedupSet returns an empty set.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[xxh3.Uint128]struct{})}
}

// Add records the block with the given text, tag and attributes. It returns
// false if an identical block was recorded earlier.
func (d *DedupSet) Add(text, tag string, attrs []markup.Attr) bool {
	key := dedupKey(text, tag, attrs)

	if _, ok := d.seen[key]; ok {
		return false
	}

	d.seen[key] = struct{}{}

	return true
}

// Len returns the number of distinct blocks recorded.
func (d *DedupSet) Len() int { return len(d.seen) }

func dedupKey(text, tag string, attrs []markup.Attr) xxh3.Uint128 {
	var sb strings.Builder

	// Length prefix keeps text and tag from running together.
	sb.WriteString(strconv.Itoa(len(text)))
	sb.WriteByte(':')
	sb.WriteString(text)
	sb.WriteString(tag)
	sb.WriteString(markup.AttrString(attrs))

	return xxh3.HashString128(sb.String())
}
