package lang

import (
	"strconv"
	"strings"
)

// Expr is a node of a parsed expression. Trees are immutable once built
// and may be shared between goroutines.
type Expr interface {
	// Pos returns the position of the first character of the node.
	Pos() Position
	// String returns the node in canonical source form.
	String() string

	expr()
}

// Operator identifies a unary or binary operator.
type Operator uint8

// Operators, in no particular order.
const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %
	OpEq                  // ==
	OpNe                  // !=
	OpGt                  // >
	OpGe                  // >=
	OpLt                  // <
	OpLe                  // <=
	OpAnd                 // &&
	OpOr                  // ||
	OpNot                 // !
)

var operatorText = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpEq:  "==",
	OpNe:  "!=",
	OpGt:  ">",
	OpGe:  ">=",
	OpLt:  "<",
	OpLe:  "<=",
	OpAnd: "&&",
	OpOr:  "||",
	OpNot: "!",
}

// String returns the operator's source text.
func (op Operator) String() string {
	if int(op) < len(operatorText) {
		return operatorText[op]
	}

	return "Operator(" + strconv.Itoa(int(op)) + ")"
}

type node struct{ pos Position }

func (n node) Pos() Position { return n.pos }
func (node) expr()           {}

// Literal is a constant number, string, boolean or null.
type Literal struct {
	node

	Value Value
}

// Ident is a name looked up in the evaluation scope.
type Ident struct {
	node

	Name string
}

// Index is subject[index]. Member access a.b is an Index with a string
// literal index.
type Index struct {
	node

	Subject Expr
	Index   Expr
}

// Binary is left op right.
type Binary struct {
	node

	Left  Expr
	Right Expr
	Op    Operator
}

// Unary is op operand.
type Unary struct {
	node

	Operand Expr
	Op      Operator
}

// Cond is cond ? then : else.
type Cond struct {
	node

	Cond Expr
	Then Expr
	Else Expr
}

// Call is name(arg).
type Call struct {
	node

	Arg  Expr
	Name string
}

// ArrayLit is [elem, ...].
type ArrayLit struct {
	node

	Elems []Expr
}

// ObjectLit is {"key": value, ...}.
type ObjectLit struct {
	node

	Keys   []string
	Values []Expr
}

func (e *Literal) String() string { return e.Value.String() }
func (e *Ident) String() string   { return e.Name }

func (e *Index) String() string {
	if lit, ok := e.Index.(*Literal); ok && lit.Value.Kind() == KindString &&
		isIdentifier(lit.Value.Text()) {
		return e.Subject.String() + "." + lit.Value.Text()
	}

	return e.Subject.String() + "[" + e.Index.String() + "]"
}

func (e *Binary) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (e *Unary) String() string { return e.Op.String() + e.Operand.String() }

func (e *Cond) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}

func (e *Call) String() string { return e.Name + "(" + e.Arg.String() + ")" }

func (e *ArrayLit) String() string {
	elems := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.String()
	}

	return "[" + strings.Join(elems, ", ") + "]"
}

func (e *ObjectLit) String() string {
	entries := make([]string, len(e.Keys))
	for i, key := range e.Keys {
		entries[i] = StringValue(key).String() + ": " + e.Values[i].String()
	}

	return "{" + strings.Join(entries, ", ") + "}"
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(rune(s[0])) {
		return false
	}

	for _, r := range s {
		if !isIdentPart(r) {
			return false
		}
	}

	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || ('0' <= r && r <= '9')
}
