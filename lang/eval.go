package lang

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"
)

// Eval evaluates e against scope. Identifiers are looked up as keys of
// scope; a missing identifier is null. Eval never modifies scope.
func Eval(e Expr, scope Value) (Value, error) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, nil

	case *Ident:
		v, _ := scope.Object().Get(e.Name)

		return v, nil

	case *Index:
		return evalIndex(e, scope)

	case *Unary:
		operand, err := Eval(e.Operand, scope)
		if err != nil {
			return Value{}, err
		}

		return BoolValue(!operand.Truthy()), nil

	case *Binary:
		return evalBinary(e, scope)

	case *Cond:
		cond, err := Eval(e.Cond, scope)
		if err != nil {
			return Value{}, err
		}

		if cond.Truthy() {
			return Eval(e.Then, scope)
		}

		return Eval(e.Else, scope)

	case *Call:
		return evalCall(e, scope)

	case *ArrayLit:
		elems := make([]Value, len(e.Elems))

		for i, el := range e.Elems {
			v, err := Eval(el, scope)
			if err != nil {
				return Value{}, err
			}

			elems[i] = v
		}

		return ArrayValue(elems...), nil

	case *ObjectLit:
		obj := NewObject()

		for i, key := range e.Keys {
			v, err := Eval(e.Values[i], scope)
			if err != nil {
				return Value{}, err
			}

			obj.Set(key, v)
		}

		return ObjectValue(obj), nil

	default:
		return Value{}, fmt.Errorf("unknown expression node %T", e)
	}
}

func evalBinary(e *Binary, scope Value) (Value, error) {
	left, err := Eval(e.Left, scope)
	if err != nil {
		return Value{}, err
	}

	// Logical operators return operands rather than booleans and only
	// evaluate the right side when it decides the result.
	switch e.Op {
	case OpOr:
		if left.Truthy() {
			return left, nil
		}

		return Eval(e.Right, scope)

	case OpAnd:
		if !left.Truthy() {
			return BoolValue(false), nil
		}

		return Eval(e.Right, scope)
	}

	right, err := Eval(e.Right, scope)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case OpEq:
		return BoolValue(left.Equal(right)), nil
	case OpNe:
		return BoolValue(!left.Equal(right)), nil
	case OpGt, OpGe, OpLt, OpLe:
		return compare(e, left, right)
	case OpAdd:
		return add(e, left, right)
	default:
		return arithmetic(e, left, right)
	}
}

func add(e *Binary, left, right Value) (Value, error) {
	switch {
	case left.kind == KindNumber && right.kind == KindNumber:
		return arithmetic(e, left, right)

	case left.kind == KindNumber && right.kind == KindString:
		return StringValue(formatNumber(left) + right.str), nil

	case left.kind == KindString && right.kind == KindNumber:
		return StringValue(left.str + formatNumber(right)), nil

	case left.kind == KindString && right.kind == KindString:
		return StringValue(left.str + right.str), nil

	case left.kind == KindArray && right.kind == KindArray:
		return ArrayValue(slices.Concat(left.arr, right.arr)...), nil

	case left.kind == KindObject && right.kind == KindObject:
		merged := left.obj.Clone()

		for key, val := range right.obj.All() {
			merged.Set(key, val)
		}

		return ObjectValue(merged), nil
	}

	return Value{}, mismatch(e, left, right)
}

// mulInt multiplies two integers, reporting false on overflow.
func mulInt(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}

	if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return 0, false
	}

	prod := l * r
	if prod/r != l {
		return 0, false
	}

	return prod, true
}

// arithmetic applies - * / % (and + on numbers). Two integers produce an
// integer, truncating on division; a float operand promotes both sides, as
// does an integer result that would overflow.
func arithmetic(e *Binary, left, right Value) (Value, error) {
	if left.kind != KindNumber || right.kind != KindNumber {
		return Value{}, mismatch(e, left, right)
	}

	if !left.float && !right.float {
		l, r := left.num, right.num

		switch e.Op {
		case OpAdd:
			if sum := l + r; (sum > l) == (r > 0) {
				return IntValue(sum), nil
			}
		case OpSub:
			if diff := l - r; (diff < l) == (r > 0) {
				return IntValue(diff), nil
			}
		case OpMul:
			if prod, ok := mulInt(l, r); ok {
				return IntValue(prod), nil
			}
		case OpDiv, OpMod:
			if r == 0 {
				return Value{}, &EvalError{
					Kind:   DivideByZero,
					Detail: fmt.Sprintf("integer %s by zero", opVerb(e.Op)),
					Pos:    e.Pos(),
				}
			}

			if e.Op == OpMod {
				return IntValue(l % r), nil
			}

			if l != math.MinInt64 || r != -1 {
				return IntValue(l / r), nil
			}
		}
	}

	l, r := left.Float(), right.Float()

	switch e.Op {
	case OpAdd:
		return FloatValue(l + r), nil
	case OpSub:
		return FloatValue(l - r), nil
	case OpMul:
		return FloatValue(l * r), nil
	case OpDiv:
		return FloatValue(l / r), nil
	case OpMod:
		return FloatValue(math.Mod(l, r)), nil
	}

	return Value{}, mismatch(e, left, right)
}

func opVerb(op Operator) string {
	if op == OpMod {
		return "modulo"
	}

	return "division"
}

func compare(e *Binary, left, right Value) (Value, error) {
	if left.kind != KindNumber || right.kind != KindNumber {
		return Value{}, mismatch(e, left, right)
	}

	var lt, gt, eq bool

	if !left.float && !right.float {
		lt, gt, eq = left.num < right.num, left.num > right.num, left.num == right.num
	} else {
		l, r := left.Float(), right.Float()
		lt, gt, eq = l < r, l > r, l == r
	}

	switch e.Op {
	case OpGt:
		return BoolValue(gt), nil
	case OpGe:
		return BoolValue(gt || eq), nil
	case OpLt:
		return BoolValue(lt), nil
	default:
		return BoolValue(lt || eq), nil
	}
}

func mismatch(e *Binary, left, right Value) *EvalError {
	return &EvalError{
		Kind: TypeMismatch,
		Detail: fmt.Sprintf("cannot apply %s to %s and %s",
			e.Op, left.kind, right.kind),
		Pos: e.Pos(),
	}
}

func evalIndex(e *Index, scope Value) (Value, error) {
	subject, err := Eval(e.Subject, scope)
	if err != nil {
		return Value{}, err
	}

	index, err := Eval(e.Index, scope)
	if err != nil {
		return Value{}, err
	}

	switch {
	case subject.kind == KindArray:
		if index.kind != KindNumber {
			return Value{}, &EvalError{
				Kind:   BadArrayIndex,
				Detail: "array index must be a number, found " + index.kind.String(),
				Pos:    e.Index.Pos(),
			}
		}

		i := index.Int()
		if i < 0 || i >= int64(len(subject.arr)) {
			return Value{}, outOfBounds(e, i, len(subject.arr))
		}

		return subject.arr[i], nil

	case subject.kind == KindObject && index.kind == KindString:
		v, ok := subject.obj.Get(index.str)
		if !ok {
			return Value{}, &EvalError{
				Kind:   UndefinedProperty,
				Detail: fmt.Sprintf("undefined property %q", index.str),
				Name:   index.str,
				Pos:    e.Index.Pos(),
			}
		}

		return v, nil

	case subject.kind == KindString && index.kind == KindNumber:
		i := index.Int()
		n := utf8.RuneCountInString(subject.str)

		if i < 0 || i >= int64(n) {
			return Value{}, outOfBounds(e, i, n)
		}

		return StringValue(string([]rune(subject.str)[i])), nil
	}

	return Value{}, &EvalError{
		Kind: TypeMismatch,
		Detail: fmt.Sprintf("cannot index %s with %s",
			subject.kind, index.kind),
		Pos: e.Pos(),
	}
}

func outOfBounds(e *Index, i int64, n int) *EvalError {
	return &EvalError{
		Kind:   ArrayOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds for length %d", i, n),
		Pos:    e.Index.Pos(),
	}
}

func evalCall(e *Call, scope Value) (Value, error) {
	if e.Name != "len" {
		return Value{}, &EvalError{
			Kind:   UndefinedFunction,
			Detail: fmt.Sprintf("undefined function %q", e.Name),
			Name:   e.Name,
			Pos:    e.Pos(),
		}
	}

	arg, err := Eval(e.Arg, scope)
	if err != nil {
		return Value{}, err
	}

	n, ok := arg.Len()
	if !ok {
		return Value{}, &EvalError{
			Kind:   TypeMismatch,
			Detail: "len expects string, array or object, found " + arg.kind.String(),
			Name:   e.Name,
			Pos:    e.Pos(),
		}
	}

	return IntValue(int64(n)), nil
}
