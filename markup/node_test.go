package markup

import "testing"

func TestNode_Attrs(t *testing.T) {
	n := NewElement("div", []Attr{{"pl-if", "x"}, {"class", "c"}, {"pl-if", "y"}})

	if v, ok := n.Attr("pl-if"); !ok || v != "x" {
		t.Errorf("Attr = %q, %v", v, ok)
	}

	if v, ok := n.RemoveAttr("pl-if"); !ok || v != "x" {
		t.Errorf("RemoveAttr = %q, %v", v, ok)
	}

	if got := AttrString(n.Attrs); got != " class='c' pl-if='y'" {
		t.Errorf("after remove = %s", got)
	}

	n.SetAttr("class", "d")
	n.SetAttr("id", "e")

	if got := AttrString(n.Attrs); got != " class='d' pl-if='y' id='e'" {
		t.Errorf("after set = %s", got)
	}

	if _, ok := n.RemoveAttr("missing"); ok {
		t.Error("RemoveAttr(missing) reported success")
	}

	if n.HasAttr("missing") {
		t.Error("HasAttr(missing) = true")
	}
}

func TestNode_Clone(t *testing.T) {
	orig := NewElement("ul", []Attr{{"id", "list"}},
		NewElement("li", nil, NewText("one")),
	)

	c := orig.Clone()
	c.SetAttr("id", "copy")
	c.Children[0].Children[0].Data = "changed"
	c.Children = append(c.Children, NewElement("li", nil))

	if got := Render(orig); got != "<ul id='list'><li>one</li></ul>" {
		t.Errorf("original mutated: %s", got)
	}

	if got := Render(c); got != "<ul id='copy'><li>changed</li><li></li></ul>" {
		t.Errorf("clone = %s", got)
	}

	if (*Node)(nil).Clone() != nil {
		t.Error("nil Clone not nil")
	}
}

func TestNode_Text(t *testing.T) {
	if s, ok := NewElement("style", nil, NewText("x")).Text(); !ok || s != "x" {
		t.Errorf("Text = %q, %v", s, ok)
	}

	if _, ok := NewElement("style", nil).Text(); ok {
		t.Error("Text on empty element reported success")
	}
}

func TestNodeType_String(t *testing.T) {
	if ElementNode.String() != "element" || NodeType(99).String() != "NodeType(99)" {
		t.Errorf("String = %s, %s", ElementNode, NodeType(99))
	}
}
