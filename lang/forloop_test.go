package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestParseForLoop(t *testing.T) {
	tests := []struct {
		src    string
		names  []string
		source string
		kind   ForLoopKind
	}{
		{"x in [1,2,3]", []string{"x"}, "[1, 2, 3]", LoopSimple},
		{"  item   in   items  ", []string{"item"}, "items", LoopSimple},
		{"(a, b) in items", []string{"a", "b"}, "items", LoopPair},
		{"(k,v,i) in obj.nested", []string{"k", "v", "i"}, "obj.nested", LoopTriple},
		{"( k , v ) in {'a': 1}", []string{"k", "v"}, `{"a": 1}`, LoopPair},
		{"index in inventory", []string{"index"}, "inventory", LoopSimple},
		{"x in input", []string{"x"}, "input", LoopSimple},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			loop, err := ParseForLoop(tt.src)
			if err != nil {
				t.Fatalf("ParseForLoop(%q) error: %v", tt.src, err)
			}

			if !slices.Equal(loop.Names, tt.names) {
				t.Errorf("Names = %v, want %v", loop.Names, tt.names)
			}

			if got := loop.Source.String(); got != tt.source {
				t.Errorf("Source = %s, want %s", got, tt.source)
			}

			if loop.Kind() != tt.kind {
				t.Errorf("Kind = %d, want %d", loop.Kind(), tt.kind)
			}
		})
	}
}

func TestParseForLoop_Errors(t *testing.T) {
	tests := []string{
		"",
		"in xs",
		"x xs",
		"x in",
		"x in   ",
		"x in 1 +",
		"xin xs",
		"(a) in xs",
		"(a, b, c, d) in xs",
		"(a b) in xs",
		"(a, ) in xs",
		"(a, b in xs",
		"1 in xs",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := ParseForLoop(src)
			if err == nil {
				t.Fatalf("ParseForLoop(%q) succeeded, want error", src)
			}

			var fe *ForLoopParseError
			if !errors.As(err, &fe) {
				t.Fatalf("ParseForLoop(%q) error %T, want *ForLoopParseError", src, err)
			}
		})
	}
}

func TestForLoopParseError_Message(t *testing.T) {
	_, err := ParseForLoop("x of xs")
	if err == nil {
		t.Fatal("expected error")
	}

	want := "x of xs\n  ^\nexpected \"in\""
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func runLoop(t *testing.T, src string, scope Value) ([]Value, error) {
	t.Helper()

	loop, err := ParseForLoop(src)
	if err != nil {
		t.Fatalf("ParseForLoop(%q) error: %v", src, err)
	}

	return loop.Run(scope)
}

func loopStrings(vs []Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}

	return out
}

func TestForLoop_Run(t *testing.T) {
	scope := mustJSON(t, `{
		"y": 1,
		"xs": [1, 2],
		"obj": {"a": "A", "b": "B"}
	}`)

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "simple",
			src:  "x in xs",
			want: []string{
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"x":1}`,
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"x":2}`,
			},
		},
		{
			name: "pair_array",
			src:  "(el, i) in ['p', 'q']",
			want: []string{
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"el":"p","i":0}`,
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"el":"q","i":1}`,
			},
		},
		{
			name: "pair_object",
			src:  "(v, k) in obj",
			want: []string{
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"v":"A","k":"a"}`,
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"v":"B","k":"b"}`,
			},
		},
		{
			name: "triple_object",
			src:  "(k, v, i) in obj",
			want: []string{
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"k":"a","v":"A","i":0}`,
				`{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"},"k":"b","v":"B","i":1}`,
			},
		},
		{
			name: "shadowing",
			src:  "y in [5]",
			want: []string{`{"y":5,"xs":[1,2],"obj":{"a":"A","b":"B"}}`},
		},
		{
			name: "empty",
			src:  "x in []",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runLoop(t, tt.src, scope)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}

			if s := loopStrings(got); !slices.Equal(s, tt.want) {
				t.Errorf("Run(%q) =\n%v\nwant\n%v", tt.src, s, tt.want)
			}
		})
	}

	if s := scope.String(); s != `{"y":1,"xs":[1,2],"obj":{"a":"A","b":"B"}}` {
		t.Errorf("scope modified: %s", s)
	}
}

func TestForLoop_RunNonObjectScope(t *testing.T) {
	got, err := runLoop(t, "x in [true]", IntValue(3))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(got) != 1 || got[0].String() != `{"x":true}` {
		t.Errorf("Run = %v, want [{\"x\":true}]", loopStrings(got))
	}
}

func TestForLoop_RunErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x in 5", "Expected array, found number"},
		{"x in {'a': 1}", "Expected array, found object"},
		{"(a, b) in 'str'", "Expected array or object, found string"},
		{"(a, b) in null", "Expected array or object, found null"},
		{"(a, b, c) in [1]", "Expected object, found array"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := runLoop(t, tt.src, NullValue())

			var te *ForLoopTypeError
			if !errors.As(err, &te) {
				t.Fatalf("Run(%q) error %v, want *ForLoopTypeError", tt.src, err)
			}

			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}

	_, err := runLoop(t, "x in [1][3]", NullValue())

	var ee *EvalError
	if !errors.As(err, &ee) || ee.Kind != ArrayOutOfBounds {
		t.Errorf("Run error = %v, want ArrayOutOfBounds", err)
	}
}
