package luadata

import (
	"encoding/json"
	"strconv"
)

// Kind indicates which variant a Value holds.
type Kind int

const (
	// KindNil represents the Lua nil literal.
	KindNil Kind = iota

	// KindBool represents a boolean literal.
	KindBool

	// KindInt represents a numeric literal without a fractional part or
	// exponent in its source form.
	KindInt

	// KindFloat represents a numeric literal written with a '.' or an
	// exponent.
	KindFloat

	// KindString represents a quoted string literal with the quotes
	// stripped. Escape sequences are kept verbatim, not decoded.
	KindString

	// KindArray represents an array-shaped table.
	KindArray

	// KindTable represents a map-shaped table with insertion order
	// preserved.
	KindTable

	// KindOpaque represents source text that could not be reduced to a
	// native value. The original text is preserved verbatim.
	KindOpaque

	// KindDiagnostic represents a table literal that failed to parse. It
	// carries the raw source text and the error message.
	KindDiagnostic
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindTable:
		return "Table"
	case KindOpaque:
		return "Opaque"
	case KindDiagnostic:
		return "Diagnostic"
	default:
		return "Unknown"
	}
}

// Entry is one key-value pair of a map-shaped table.
type Entry struct {
	Key   string
	Value Value
}

// Value is the tagged union produced by the parser. Exactly the fields
// relevant to Kind are set.
type Value struct {
	Kind Kind

	Bool  bool    // KindBool
	Int   int64   // KindInt
	Float float64 // KindFloat
	Str   string  // KindString, KindOpaque

	Items   []Value // KindArray
	Entries []Entry // KindTable

	// Diagnostic payload: the raw table-literal text and the parse error.
	Raw string
	Err string
}

// Nil returns the nil value.
func Nil() Value { return Value{Kind: KindNil} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns an integer number value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a floating-point number value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Opaque returns an opaque value preserving the given source text.
func Opaque(text string) Value { return Value{Kind: KindOpaque, Str: text} }

// Array returns an array value over the given items.
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

// Table returns a map-shaped table value over the given entries.
func Table(entries ...Entry) Value {
	return Value{Kind: KindTable, Entries: entries}
}

// Diagnostic returns a diagnostic value for a table literal that failed
// to parse.
func Diagnostic(raw string, err error) Value {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	return Value{Kind: KindDiagnostic, Raw: raw, Err: msg}
}

// keyString renders a value as a table key. Bracketed keys ([v] = ...)
// accept any literal; JSON requires string keys.
func (v Value) keyString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNil:
		return "nil"
	default:
		return v.Str
	}
}

// MarshalJSON implements json.Marshaler. Map-shaped tables are emitted
// with their keys in insertion order, which the stdlib map encoding would
// not preserve. Diagnostics have a fixed two-field shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNil:
		return []byte("null"), nil

	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil

	case KindInt:
		return strconv.AppendInt(nil, v.Int, 10), nil

	case KindFloat:
		return json.Marshal(v.Float)

	case KindString, KindOpaque:
		return json.Marshal(v.Str)

	case KindArray:
		return v.marshalArray()

	case KindTable:
		return v.marshalTable()

	case KindDiagnostic:
		return v.marshalDiagnostic()

	default:
		return nil, ErrInvalidKind
	}
}

func (v Value) marshalArray() ([]byte, error) {
	buf := []byte{'['}

	for i, item := range v.Items {
		if i > 0 {
			buf = append(buf, ',')
		}

		data, err := item.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf = append(buf, data...)
	}

	return append(buf, ']'), nil
}

func (v Value) marshalTable() ([]byte, error) {
	buf := []byte{'{'}

	for i, entry := range v.Entries {
		if i > 0 {
			buf = append(buf, ',')
		}

		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}

		buf = append(buf, key...)
		buf = append(buf, ':')

		data, err := entry.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf = append(buf, data...)
	}

	return append(buf, '}'), nil
}

func (v Value) marshalDiagnostic() ([]byte, error) {
	raw, err := json.Marshal(v.Raw)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(v.Err)
	if err != nil {
		return nil, err
	}

	buf := append([]byte(`{"raw":`), raw...)
	buf = append(buf, `,"error":`...)
	buf = append(buf, msg...)

	return append(buf, '}'), nil
}
