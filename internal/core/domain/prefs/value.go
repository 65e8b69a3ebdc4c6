package prefs

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant of a Value is active
type Kind int

const (
	KindInt Kind = iota + 1
	KindFloat
	KindText
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single preference value. Exactly one of the int, float or text
// payloads is meaningful, selected by kind.
type Value struct {
	kind Kind
	i    int32
	f    float32
	s    string
}

// Int creates an integer preference value
func Int(v int32) Value {
	return Value{kind: KindInt, i: v}
}

// Float creates a floating point preference value
func Float(v float32) Value {
	return Value{kind: KindFloat, f: v}
}

// Text creates a string preference value
func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

// Kind returns the active variant
func (v Value) Kind() Kind {
	return v.kind
}

// AsInt returns the integer payload when the value is an integer
func (v Value) AsInt() (int32, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the float payload when the value is a float
func (v Value) AsFloat() (float32, bool) {
	return v.f, v.kind == KindFloat
}

// AsText returns the string payload when the value is a string
func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindText
}

// Equal reports whether both values hold the same variant and payload.
// Floats compare by value, so -0 equals 0.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	default:
		return v.s == other.s
	}
}

// String formats the payload for display
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.i), 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return v.s
	}
}

// formatFloat renders the shortest float32 literal that always reads back as a float
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
