package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// builtin describes a function callable from expressions.
type builtin struct {
	params []string
	result string
}

var builtins = map[string]builtin{
	"len": {params: []string{"value"}, result: "number"},
}

func builtinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}

func isBuiltin(name string) bool {
	_, ok := builtins[name]

	return ok
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall reports the innermost function call whose argument
// list contains the cursor, and which argument the cursor is in. Brackets
// and braces nest like parentheses; quoted strings are skipped.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	type frame struct {
		open  int
		args  int
		paren bool
	}

	var stack []frame

	var quote rune

	for i, r := range input[:cursor] {
		if quote != 0 {
			if r == quote {
				quote = 0
			}

			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '(':
			stack = append(stack, frame{open: i, paren: true})
		case '[', '{':
			stack = append(stack, frame{open: i})
		case ')', ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if !top.paren {
		return functionCall{}
	}

	prefix := strings.TrimRight(input[:top.open], " \t")
	start := len(prefix)

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := prefix[start:]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.args, inCall: true}
}

// renderSignatureHint renders the signature of the named builtin with the
// current parameter highlighted. It returns "" for unknown functions.
func renderSignatureHint(name string, argIndex int) string {
	fn, ok := builtins[name]
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range fn.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(") → " + fn.result))

	return b.String()
}
