package prefs

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Store maps a preference key to its typed value
type Store map[string]Value

// NewStore creates an empty store
func NewStore() Store {
	return make(Store)
}

// Keys returns the store keys in sorted order
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both stores hold the same keys with equal values
func (s Store) Equal(other Store) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Encode serializes the store as a flat JSON object. Integers are written as
// integer literals, floats always carry a fraction or exponent, strings are
// JSON strings.
func Encode(s Store) ([]byte, error) {
	if s == nil {
		s = NewStore()
	}
	return json.Marshal(map[string]Value(s))
}

// Decode parses a flat JSON object produced by Encode
func Decode(data []byte) (Store, error) {
	store, skipped, err := DecodeValid(data)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		key := sortedKeys(skipped)[0]
		return nil, fmt.Errorf("preference %q: %w", key, skipped[key])
	}
	return store, nil
}

// DecodeValid parses a flat JSON object like Decode but leaves out members
// that are not a valid Integer, Float or Text, returning each left-out key
// with its reason. It only fails when data is not a JSON object.
func DecodeValid(data []byte) (Store, map[string]error, error) {
	var raw map[string]rawValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse preferences: %w", err)
	}

	store := make(Store, len(raw))
	skipped := map[string]error{}
	for key, r := range raw {
		v, err := parseValue(r)
		if err != nil {
			skipped[key] = err
			continue
		}
		store[key] = v
	}
	return store, skipped, nil
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(int64(v.i), 10)), nil
	case KindFloat:
		if !isFinite(v.f) {
			return nil, fmt.Errorf("cannot encode non-finite float %v", v.f)
		}
		return []byte(formatFloat(v.f)), nil
	case KindText:
		return json.Marshal(v.s)
	default:
		return nil, fmt.Errorf("cannot encode preference of %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := parseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// rawValue keeps the undecoded bytes of one object member
type rawValue []byte

func (r *rawValue) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func parseValue(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Value{}, fmt.Errorf("invalid string: %w", err)
		}
		return Text(s), nil
	case c == '-' || (c >= '0' && c <= '9'):
		literal := string(data)
		if bytes.ContainsAny(data, ".eE") {
			f, err := strconv.ParseFloat(literal, 32)
			if err != nil {
				return Value{}, fmt.Errorf("invalid float %s: %w", literal, err)
			}
			return Float(float32(f)), nil
		}
		i, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid int %s: %w", literal, err)
		}
		return Int(int32(i)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %s", string(data))
	}
}
