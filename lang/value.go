package lang

import (
	"strconv"
)

// Kind tags the variant held by a [Value].
//
// New primitive kinds are added by appending a constant here, naming it in
// [Kind.String] and, if it is declarable, registering it in [primitiveTypes].
type Kind int

const (
	// KindUnit is the kind of the value produced by calls that return
	// nothing, such as print.
	KindUnit Kind = iota

	// KindInt is a signed 64-bit integer.
	KindInt

	// KindText is an immutable string of text.
	KindText
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"

	case KindInt:
		return "int"

	case KindText:
		return "text"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// primitiveTypes maps declarable type keywords to the value kind they hold.
//
//nolint:gochecknoglobals
var primitiveTypes = map[string]Kind{
	KeywordInt: KindInt,
}

// LookupType returns the value kind declared by a type keyword.
func LookupType(name string) (Kind, bool) {
	k, ok := primitiveTypes[name]

	return k, ok
}

// Value is a runtime value. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind
	Int  int64
	Text string
}

// Unit is the sole value of kind [KindUnit].
//
//nolint:gochecknoglobals
var Unit = Value{Kind: KindUnit}

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// BoolValue returns the integer 1 for true and 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}

	return IntValue(0)
}

// String returns the text that print emits for the value.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)

	case KindText:
		return v.Text

	default:
		return ""
	}
}

// Native returns the value as a plain Go value: int64, string, or nil.
func (v Value) Native() any {
	switch v.Kind {
	case KindInt:
		return v.Int

	case KindText:
		return v.Text

	default:
		return nil
	}
}
