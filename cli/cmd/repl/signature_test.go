package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  functionCall
	}{
		{"not_in_call", "a + b", functionCall{}},
		{"open_call", "len(", functionCall{name: "len", inCall: true}},
		{"first_arg", "len(page", functionCall{name: "len", inCall: true}},
		{"second_arg", "f(a, b", functionCall{name: "f", argIndex: 1, inCall: true}},
		{"space_before_paren", "len (x", functionCall{name: "len", inCall: true}},
		{"closed_call", "len(x) + ", functionCall{}},
		{"nested_call", "f(a, len(b", functionCall{name: "len", inCall: true}},
		{"after_nested", "f(a, len(b), c", functionCall{name: "f", argIndex: 2, inCall: true}},
		{"grouping_paren", "(a + b", functionCall{}},
		{"inside_array", "len([a, b", functionCall{}},
		{"comma_in_array", "f([a, b], c", functionCall{name: "f", argIndex: 1, inCall: true}},
		{"comma_in_string", `f("a, b", c`, functionCall{name: "f", argIndex: 1, inCall: true}},
		{"paren_in_string", `f('(', c`, functionCall{name: "f", argIndex: 1, inCall: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, len(tt.input))
			if got != tt.want {
				t.Errorf("detectFunctionCall(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("nope", 0); got != "" {
		t.Errorf("renderSignatureHint(unknown) = %q, want empty", got)
	}

	got := renderSignatureHint("len", 0)
	for _, want := range []string{"len", "value", "number"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderSignatureHint(len) = %q, missing %q", got, want)
		}
	}
}

func TestBuiltinNames(t *testing.T) {
	for _, name := range builtinNames() {
		if !isBuiltin(name) {
			t.Errorf("isBuiltin(%q) = false", name)
		}
	}

	if isBuiltin("page") {
		t.Error(`isBuiltin("page") = true`)
	}
}
