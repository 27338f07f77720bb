package markup

import (
	"bytes"
	"testing"
)

func TestQuoteAttr(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{`say "hi"`, `'say "hi"'`},
		{"it's", `"it's"`},
		{`it's "x"`, `'it&#39;s "x"'`},
		{"a&b<c>", "'a&b<c>'"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := QuoteAttr(tt.value); got != tt.want {
				t.Errorf("QuoteAttr(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "text_escaping",
			node: NewText(`a < b && "c" > 'd'`),
			want: `a &lt; b &amp;&amp; "c" &gt; 'd'`,
		},
		{
			name: "comment",
			node: NewComment(" a<b "),
			want: "<!-- a&lt;b -->",
		},
		{
			name: "doctype",
			node: NewDoctype("html"),
			want: "<!DOCTYPE html>",
		},
		{
			name: "void",
			node: NewElement("br", nil, NewText("ignored")),
			want: "<br>",
		},
		{
			name: "void_with_attrs",
			node: NewElement("meta", []Attr{{"name", "x"}, {"content", "y"}}),
			want: "<meta name='x' content='y'>",
		},
		{
			name: "empty_attr",
			node: NewElement("style", []Attr{{"attr", ""}}),
			want: "<style attr=''></style>",
		},
		{
			name: "nested",
			node: NewDocument(
				NewDoctype("html"),
				NewElement("div", []Attr{{"class", "a b"}},
					NewElement("p", nil, NewText("x")),
					NewElement("img", []Attr{{"src", "i.png"}}),
				),
			),
			want: "<!DOCTYPE html><div class='a b'><p>x</p><img src='i.png'></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.node); got != tt.want {
				t.Errorf("Render = %s, want %s", got, tt.want)
			}

			var buf bytes.Buffer
			if err := Write(&buf, tt.node); err != nil {
				t.Fatalf("Write error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("Write = %s, want %s", buf.String(), tt.want)
			}
		})
	}
}

func TestIsVoid(t *testing.T) {
	for _, tag := range []string{"area", "br", "input", "wbr"} {
		if !IsVoid(tag) {
			t.Errorf("IsVoid(%q) = false", tag)
		}
	}

	for _, tag := range []string{"div", "template", "slot", "script"} {
		if IsVoid(tag) {
			t.Errorf("IsVoid(%q) = true", tag)
		}
	}
}

func TestAttrString(t *testing.T) {
	got := AttrString([]Attr{{"a", "1"}, {"b", "it's"}})
	if want := ` a='1' b="it's"`; got != want {
		t.Errorf("AttrString = %s, want %s", got, want)
	}
}
