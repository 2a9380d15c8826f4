// Package answer defines the typed values a diagnostic questionnaire can hold
// and the record that accumulates them over a session.
package answer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Type identifies which variant a Value holds.
type Type int

const (
	TypeUndefined Type = iota
	TypeBool
	TypeText
	TypeSet
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeText:
		return "text"
	case TypeSet:
		return "set"
	default:
		return "undefined"
	}
}

// Value is a tagged union of the three answer shapes: a boolean (toggles),
// a string (free text and single-select choices) and an ordered set of
// strings (multi-select choices). The zero Value is undefined.
type Value struct {
	typ Type
	b   bool
	s   string
	set []string
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{typ: TypeBool, b: b}
}

// Text returns a string value.
func Text(s string) Value {
	return Value{typ: TypeText, s: s}
}

// Set returns an ordered set. Duplicates are dropped, first occurrence wins.
// Set() with no arguments is a defined, empty selection.
func Set(values ...string) Value {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return Value{typ: TypeSet, set: out}
}

// Type reports the variant held by v.
func (v Value) Type() Type { return v.typ }

// IsDefined reports whether v holds any variant.
func (v Value) IsDefined() bool { return v.typ != TypeUndefined }

// Bool returns the boolean and true when v is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.typ == TypeBool
}

// Text returns the string and true when v is a string.
func (v Value) Text() (string, bool) {
	return v.s, v.typ == TypeText
}

// Set returns a copy of the selection and true when v is a set.
func (v Value) Set() ([]string, bool) {
	if v.typ != TypeSet {
		return nil, false
	}
	return slices.Clone(v.set), true
}

// Len returns the number of selected values of a set, 0 otherwise.
func (v Value) Len() int {
	return len(v.set)
}

// Contains reports whether a set holds s.
func (v Value) Contains(s string) bool {
	return v.typ == TypeSet && slices.Contains(v.set, s)
}

// Equal is exact, type-sensitive equality: Bool(true) never equals Text("true").
// Sets are equal when they hold the same values in the same order.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeBool:
		return v.b == o.b
	case TypeText:
		return v.s == o.s
	case TypeSet:
		return slices.Equal(v.set, o.set)
	default:
		return true
	}
}

// Intersects reports whether two sets share at least one value.
// It is false whenever either side is not a set.
func (v Value) Intersects(o Value) bool {
	if v.typ != TypeSet || o.typ != TypeSet {
		return false
	}
	for _, s := range v.set {
		if slices.Contains(o.set, s) {
			return true
		}
	}
	return false
}

// IsBlank reports whether v carries no information: undefined, blank text or
// an empty set. A false boolean is not blank.
func (v Value) IsBlank() bool {
	switch v.typ {
	case TypeBool:
		return false
	case TypeText:
		return strings.TrimSpace(v.s) == ""
	case TypeSet:
		return len(v.set) == 0
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeBool:
		if v.b {
			return "true"
		}
		return "false"
	case TypeText:
		return v.s
	case TypeSet:
		return "[" + strings.Join(v.set, ", ") + "]"
	default:
		return "<undefined>"
	}
}

// Any converts v to its plain JSON-compatible form (bool, string or []any).
func (v Value) Any() any {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeText:
		return v.s
	case TypeSet:
		out := make([]any, len(v.set))
		for i, s := range v.set {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a decoded JSON or YAML value into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case []string:
		return Set(x...), nil
	case []any:
		items := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("set element %d: expected string, got %T", i, item)
			}
			items = append(items, s)
		}
		return Set(items...), nil
	case nil:
		return Value{}, fmt.Errorf("answer value is null")
	default:
		return Value{}, fmt.Errorf("unsupported answer value of type %T", raw)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.typ == TypeSet && v.set == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
