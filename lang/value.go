package lang

import (
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the dynamic type of a [Value].
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lower-case name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON-like dynamically typed value. It is both the render
// context and the result of every expression.
//
// Numbers remember whether they were written or computed as integers or
// floats. The zero Value is null.
type Value struct {
	arr   []Value
	obj   *Object
	str   string
	num   int64
	flt   float64
	kind  Kind
	bit   bool
	float bool
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, bit: b} }

// IntValue returns an integer number.
func IntValue(i int64) Value { return Value{kind: KindNumber, num: i} }

// FloatValue returns a floating-point number.
func FloatValue(f float64) Value {
	return Value{kind: KindNumber, flt: f, float: true}
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// ArrayValue returns an array holding elems. The slice is not copied.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindArray, arr: elems}
}

// ObjectValue returns an object value wrapping o. A nil o is an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsFloat reports whether v is a number held as a float.
func (v Value) IsFloat() bool { return v.kind == KindNumber && v.float }

// Bool returns the boolean held by v, or false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.bit }

// Int returns the number held by v as an integer, truncating floats.
func (v Value) Int() int64 {
	if v.float {
		return int64(v.flt)
	}

	return v.num
}

// Float returns the number held by v as a float.
func (v Value) Float() float64 {
	if v.float {
		return v.flt
	}

	return float64(v.num)
}

// Text returns the string held by v, or "" for other kinds.
func (v Value) Text() string { return v.str }

// Array returns the elements of an array value, or nil for other kinds.
// Callers must not modify the returned slice.
func (v Value) Array() []Value { return v.arr }

// Object returns the object held by v, or nil for other kinds.
func (v Value) Object() *Object { return v.obj }

// Len returns the length of strings (in characters), arrays and objects.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindString:
		return utf8.RuneCountInString(v.str), true
	case KindArray:
		return len(v.arr), true
	case KindObject:
		return v.obj.Len(), true
	default:
		return 0, false
	}
}

// Truthy reports the truthiness of v: null, false, zero and empty strings,
// arrays and objects are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.bit
	case KindNumber:
		if v.float {
			return v.flt != 0
		}

		return v.num != 0
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return v.obj.Len() > 0
	default:
		return false
	}
}

// Equal reports structural equality. Numbers compare by value regardless of
// their integer or float representation, and object key order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.bit == o.bit
	case KindNumber:
		if !v.float && !o.float {
			return v.num == o.num
		}

		return v.Float() == o.Float()
	case KindString:
		return v.str == o.str
	case KindArray:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}

		for key, val := range v.obj.All() {
			other, ok := o.obj.Get(key)
			if !ok || !val.Equal(other) {
				return false
			}
		}

		return true
	}

	return false
}

// String returns the JSON representation of v.
func (v Value) String() string {
	var sb strings.Builder

	v.writeJSON(&sb, "", "")

	return sb.String()
}

// Stringify returns the text form used when v is written into markup:
// null is empty, booleans are "true" or "false", numbers are decimal and
// strings are themselves. Arrays and objects have no text form.
func (v Value) Stringify() (string, bool) {
	switch v.kind {
	case KindNull:
		return "", true
	case KindBool:
		return strconv.FormatBool(v.bit), true
	case KindNumber:
		return formatNumber(v), true
	case KindString:
		return v.str, true
	default:
		return "", false
	}
}

// formatNumber renders a number the way it is written into text and
// attributes: integers in decimal, floats in the shortest form that
// round-trips, always carrying a fraction or exponent.
func formatNumber(v Value) string {
	if !v.float {
		return strconv.FormatInt(v.num, 10)
	}

	f := v.flt

	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-5 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)

		return strings.Replace(s, "e+", "e", 1)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// Object is an insertion-ordered map from string keys to values.
type Object struct {
	index map[string]int
	keys  []string
	vals  []Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len returns the number of keys. A nil object has none.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}

	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}

	return o.vals[i], true
}

// Set stores val under key. An existing key keeps its position.
func (o *Object) Set(key string, val Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}

	if i, ok := o.index[key]; ok {
		o.vals[i] = val

		return
	}

	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All returns an iterator over key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for i, key := range o.keys {
			if !yield(key, o.vals[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of o.
func (o *Object) Clone() *Object {
	c := &Object{
		index: make(map[string]int, o.Len()),
		keys:  make([]string, 0, o.Len()),
		vals:  make([]Value, 0, o.Len()),
	}

	for key, val := range o.All() {
		c.Set(key, val)
	}

	return c
}

// With returns a copy of o extended with the given key/value pairs.
// Later pairs overwrite earlier keys.
func (o *Object) With(pairs ...Pair) *Object {
	c := o.Clone()

	for _, p := range pairs {
		c.Set(p.Key, p.Value)
	}

	return c
}

// Pair is a single object entry.
type Pair struct {
	Key   string
	Value Value
}

// ObjectOf builds an object value from pairs in order.
func ObjectOf(pairs ...Pair) Value {
	return ObjectValue(NewObject().With(pairs...))
}
