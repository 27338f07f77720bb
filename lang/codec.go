package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// DecodeJSON reads one JSON document from r. Object key order and the
// integer/float distinction of numbers are preserved. Empty input decodes
// to an empty object.
func DecodeJSON(r io.Reader) (Value, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	dec := json.NewDecoder(ra)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return ObjectValue(nil), nil
	}

	var v Value
	if err == nil {
		v, err = decodeToken(dec, tok)
	}

	if err != nil {
		return Value{}, ErrDecode.Wrap(err).With(slog.String("format", "json"))
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData.With(slog.String("format", "json"))
	}

	return v, nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	return decodeToken(dec, tok)
}

// nextToken reads a token inside a composite value, where end of input is
// always premature.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}

	return tok, err
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch tok := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(tok), nil
	case string:
		return StringValue(tok), nil
	case json.Number:
		return numberValue(tok.String())
	case json.Delim:
		switch tok {
		case '[':
			elems := make([]Value, 0)

			for dec.More() {
				tok, err := nextToken(dec)
				if err != nil {
					return Value{}, err
				}

				v, err := decodeToken(dec, tok)
				if err != nil {
					return Value{}, err
				}

				elems = append(elems, v)
			}

			_, err := nextToken(dec) // ']'

			return ArrayValue(elems...), err

		case '{':
			obj := NewObject()

			for dec.More() {
				keyTok, err := nextToken(dec)
				if err != nil {
					return Value{}, err
				}

				tok, err := nextToken(dec)
				if err != nil {
					return Value{}, err
				}

				v, err := decodeToken(dec, tok)
				if err != nil {
					return Value{}, err
				}

				obj.Set(keyTok.(string), v)
			}

			_, err := nextToken(dec) // '}'

			return ObjectValue(obj), err
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// numberValue converts JSON number text, keeping integers as integers.
func numberValue(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntValue(i), nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, err
	}

	return FloatValue(f), nil
}

// DecodeYAML reads one YAML document from r, preserving mapping order.
// Empty input decodes to an empty object.
func DecodeYAML(ctx context.Context, r io.Reader) (Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Value{}, ErrReadInput.Wrap(err).With(slog.String("format", "yaml"))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ObjectValue(nil), nil
	}

	var native any

	err = yaml.UnmarshalContext(ctx, data, &native, yaml.UseOrderedMap())
	if err != nil {
		return Value{}, ErrDecode.Wrap(err).With(slog.String("format", "yaml"))
	}

	v, err := FromAny(native)
	if err != nil {
		return Value{}, ErrDecode.Wrap(err).With(slog.String("format", "yaml"))
	}

	return v, nil
}

// FromAny converts a native Go value to a Value. It accepts the types
// produced by encoding/json and goccy/go-yaml decoders (including
// [yaml.MapSlice] for ordered mappings), Go integer and float types, and
// Value itself. Keys of plain Go maps are sorted.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case *Object:
		return ObjectValue(x), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case json.Number:
		return numberValue(x.String())
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case []any:
		elems := make([]Value, len(x))

		for i, el := range x {
			v, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}

			elems[i] = v
		}

		return ArrayValue(elems...), nil
	case yaml.MapSlice:
		obj := NewObject()

		for _, item := range x {
			v, err := FromAny(item.Value)
			if err != nil {
				return Value{}, err
			}

			obj.Set(fmt.Sprint(item.Key), v)
		}

		return ObjectValue(obj), nil
	case map[string]any:
		obj := NewObject()

		for _, key := range slices.Sorted(maps.Keys(x)) {
			v, err := FromAny(x[key])
			if err != nil {
				return Value{}, err
			}

			obj.Set(key, v)
		}

		return ObjectValue(obj), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return FloatValue(float64(u)), nil
		}

		return IntValue(int64(u)), nil
	}

	return Value{}, ErrUnsupportedType.With(
		slog.String("type", fmt.Sprintf("%T", x)),
	)
}

// Any converts v to native Go values: nil, bool, int64, float64, string,
// []any and [yaml.MapSlice] for objects.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.bit
	case KindNumber:
		if v.float {
			return v.flt
		}

		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, el := range v.arr {
			out[i] = el.Any()
		}

		return out
	case KindObject:
		out := make(yaml.MapSlice, 0, v.obj.Len())
		for key, val := range v.obj.All() {
			out = append(out, yaml.MapItem{Key: key, Value: val.Any()})
		}

		return out
	default:
		return nil
	}
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) { return v.Any(), nil }

// MarshalJSON implements json.Marshaler, keeping object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder

	v.writeJSON(&sb, "", "")

	return []byte(sb.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	out, err := decodeJSON(dec)
	if err != nil {
		return err
	}

	*v = out

	return nil
}

// EncodeJSON writes v as JSON followed by a newline. A positive indent
// selects multi-line output.
func EncodeJSON(w io.Writer, v Value, indent int) error {
	var sb strings.Builder

	v.writeJSON(&sb, "\n", strings.Repeat(" ", indent))

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// EncodeYAML writes v as YAML. A positive indent selects block style with
// that indentation; otherwise flow style is used.
func EncodeYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v.Any(), opts...)
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "yaml"))
	}

	_, err = w.Write(data)
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// writeJSON appends the JSON encoding of v. When indent is empty the output
// is compact; otherwise nested values start on new lines prefixed by
// newline followed by the accumulated indentation.
func (v Value) writeJSON(sb *strings.Builder, newline, indent string) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.bit))
	case KindNumber:
		if v.float && (math.IsNaN(v.flt) || math.IsInf(v.flt, 0)) {
			sb.WriteString("null")
		} else {
			sb.WriteString(formatNumber(v))
		}
	case KindString:
		writeJSONString(sb, v.str)
	case KindArray:
		if len(v.arr) == 0 {
			sb.WriteString("[]")

			return
		}

		inner := newline + indent

		sb.WriteByte('[')

		for i, el := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}

			if indent != "" {
				sb.WriteString(inner)
			}

			el.writeJSON(sb, inner, indent)
		}

		if indent != "" {
			sb.WriteString(newline)
		}

		sb.WriteByte(']')
	case KindObject:
		if v.obj.Len() == 0 {
			sb.WriteString("{}")

			return
		}

		inner := newline + indent

		sb.WriteByte('{')

		i := 0

		for key, val := range v.obj.All() {
			if i > 0 {
				sb.WriteByte(',')
			}

			if indent != "" {
				sb.WriteString(inner)
			}

			writeJSONString(sb, key)
			sb.WriteByte(':')

			if indent != "" {
				sb.WriteByte(' ')
			}

			val.writeJSON(sb, inner, indent)
			i++
		}

		if indent != "" {
			sb.WriteString(newline)
		}

		sb.WriteByte('}')
	}
}

func writeJSONString(sb *strings.Builder, s string) {
	const hex = "0123456789abcdef"

	sb.WriteByte('"')

	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20:
			sb.WriteString(`\u00`)
			sb.WriteByte(hex[r>>4])
			sb.WriteByte(hex[r&0xF])
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')
}
