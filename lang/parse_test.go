package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a % b + c", "(a % (b + c))"},
		{"a == b && c", "((a == b) && c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a.b[0]", "a.b[0]"},
		{"a . b", "a.b"},
		{`a["b c"]`, `a["b c"]`},
		{"!a.b", "!a.b"},
		{"!!a", "!!a"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"(a ? b : c) ? d : e", "((a ? b : c) ? d : e)"},
		{"len ( x )", "len(x)"},
		{"{'a': 1, b: [1, 2,],}", `{"a": 1, "b": [1, 2]}`},
		{`'it\'s'`, `"it's"`},
		{`"é"`, `"é"`},
		{`"😀"`, `"😀"`},
		{`"tab\there"`, `"tab\there"`},
		{"  x  ", "x"},
		{"-5", "-5"},
		{"1.0", "1.0"},
		{"1e3", "1000.0"},
		{"2.5E-1", "0.25"},
		{"true != null", "(true != null)"},
		{"x >= 1 <= y", "((x >= 1) <= y)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}

			if got := e.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		src   string
		float bool
	}{
		{"1", false},
		{"-12", false},
		{"1.0", true},
		{"1e3", true},
		{"-0.5", true},
		{"99999999999999999999", true}, // overflows int64
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}

			lit, ok := e.(*Literal)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want *Literal", tt.src, e)
			}

			if lit.Value.Kind() != KindNumber || lit.Value.IsFloat() != tt.float {
				t.Errorf("Parse(%q) = %s kind %s float %t, want float %t",
					tt.src, lit.Value, lit.Value.Kind(), lit.Value.IsFloat(), tt.float)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "unexpected end of input"},
		{"1 +", "unexpected end of input"},
		{"(1", `expected ")"`},
		{"1 2", "after expression"},
		{`"abc`, "unterminated string"},
		{`"\q"`, "invalid escape sequence"},
		{`"\ud800"`, "unpaired surrogate"},
		{`"\udc00"`, "unpaired surrogate"},
		{`"\u12"`, "hex digits"},
		{"a.", "expected property name"},
		{"a.1", "expected property name"},
		{"[1 2]", `expected "," or "]"`},
		{"{a 1}", `expected ":"`},
		{"{1: 2}", "expected object key"},
		{"{'a': 1 'b': 2}", `expected "," or "}"`},
		{"1.", "expected digit after decimal point"},
		{"1e", "expected digit in exponent"},
		{"-", "expected digit"},
		{"a | b", "after expression"},
		{"a & b", "after expression"},
		{"a ? b", `expected ":"`},
		{"len(1", `expected ")" to close call to len`},
		{"a[0", `expected "]"`},
		{"#", "unexpected '#'"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.src)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error %T, want *ParseError", tt.src, err)
			}

			if !strings.Contains(pe.Msg, tt.want) {
				t.Errorf("Parse(%q) message = %q, want it to contain %q", tt.src, pe.Msg, tt.want)
			}
		})
	}
}

func TestParseError_Position(t *testing.T) {
	_, err := Parse("1 +\n  )")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T, want *ParseError", err)
	}

	if pe.Pos.Line != 2 || pe.Pos.Column != 3 {
		t.Errorf("position = %s, want 2:3", pe.Pos)
	}

	want := "parse error at line 2, column 3: unexpected ')', expected expression\n" +
		"  2 |   )\n" +
		"        ^"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}
