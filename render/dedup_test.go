package render

import (
	"testing"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/markup"
)

func TestDedupSet(t *testing.T) {
	d := NewDedupSet()

	attrs := []markup.Attr{{Name: "media", Value: "print"}}

	if !d.Add("a{}", "style", attrs) {
		t.Error("first Add reported duplicate")
	}

	if d.Add("a{}", "style", []markup.Attr{{Name: "media", Value: "print"}}) {
		t.Error("identical Add not reported as duplicate")
	}

	for _, tc := range []struct {
		text, tag string
		attrs     []markup.Attr
	}{
		{"a{}", "style", nil},
		{"a{}", "script", attrs},
		{"a{} ", "style", attrs},
		{"a{", "}style", attrs},
	} {
		if !d.Add(tc.text, tc.tag, tc.attrs) {
			t.Errorf("Add(%q, %q, %v) reported duplicate", tc.text, tc.tag, tc.attrs)
		}
	}

	if d.Len() != 5 {
		t.Errorf("Len = %d, want 5", d.Len())
	}
}

func TestAttrify(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{"null", "", false},
		{"false", "", false},
		{"true", "true", true},
		{"0", "0", true},
		{"1.5", "1.5", true},
		{"2.0", "2.0", true},
		{`""`, "", true},
		{`"x y"`, "x y", true},
		{`["a", null, false, 1, ["b", "c"], []]`, "a 1 b c", true},
		{`[null]`, "", false},
		{`{"a": 1, "b": 0, "c": "", "d": [1]}`, "a d", true},
		{`{"a": 0}`, "", false},
		{`{}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := lang.Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			v, err := lang.Eval(expr, lang.NullValue())
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			got, ok := attrify(v)
			if got != tt.want || ok != tt.ok {
				t.Errorf("attrify(%s) = %q, %v, want %q, %v", tt.src, got, ok, tt.want, tt.ok)
			}
		})
	}
}
