package contentstream

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindName
	KindString
	KindArray
	KindDict
	KindReference
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindName:
		return "name"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Reference is an indirect object reference (num gen R)
type Reference struct {
	Num int
	Gen int
}

// Value is one content stream operand. Only the field matching Kind is set.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Real  float64
	Str   string // name (without '/') or raw string bytes
	Array []Value
	Dict  map[string]Value
	Ref   Reference
}

// Null returns the null value
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns an integer value
func Int(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Real returns a real value
func Real(f float64) Value { return Value{Kind: KindReal, Real: f} }

// Name returns a name value
func Name(s string) Value { return Value{Kind: KindName, Str: s} }

// String returns a string value holding raw bytes
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array returns an array value
func Array(items ...Value) Value { return Value{Kind: KindArray, Array: items} }

// Number returns the numeric value of an integer or real operand
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindReal:
		return v.Real, true
	}
	return 0, false
}

// AsName returns the name if v is a name
func (v Value) AsName() (string, bool) {
	if v.Kind != KindName {
		return "", false
	}
	return v.Str, true
}

// AsString returns the raw bytes if v is a string
func (v Value) AsString() ([]byte, bool) {
	if v.Kind != KindString {
		return nil, false
	}
	return []byte(v.Str), true
}

// GoString renders v in PDF syntax, mainly for debugging and test output
func (v Value) GoString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'f', -1, 64)
	case KindName:
		return "/" + v.Str
	case KindString:
		return strconv.Quote(v.Str)
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.GoString()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindDict:
		var sb strings.Builder
		sb.WriteString("<<")
		for k, item := range v.Dict {
			sb.WriteString(" /" + k + " " + item.GoString())
		}
		sb.WriteString(" >>")
		return sb.String()
	case KindReference:
		return fmt.Sprintf("%d %d R", v.Ref.Num, v.Ref.Gen)
	}
	return "?"
}
