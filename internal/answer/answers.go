package answer

import (
	"fmt"
	"maps"
)

// Answers maps a question id to its answer. A missing key means the question
// has not been answered; keys are only ever added or overwritten.
type Answers map[string]Value

// Merge returns a copy of a with id set to v. The input is not modified and
// no validation is performed: shape correctness is the caller's concern.
func Merge(a Answers, id string, v Value) Answers {
	out := make(Answers, len(a)+1)
	maps.Copy(out, a)
	out[id] = v
	return out
}

// Get returns the answer stored for id.
func (a Answers) Get(id string) (Value, bool) {
	v, ok := a[id]
	if !ok || !v.IsDefined() {
		return Value{}, false
	}
	return v, true
}

// Has reports whether id holds a defined answer.
func (a Answers) Has(id string) bool {
	_, ok := a.Get(id)
	return ok
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	maps.Copy(out, a)
	return out
}

// Prune returns a copy holding only the ids for which keep returns true.
func (a Answers) Prune(keep func(id string) bool) Answers {
	out := make(Answers, len(a))
	for id, v := range a {
		if keep(id) {
			out[id] = v
		}
	}
	return out
}

// ToMap converts the record into plain JSON-compatible values.
func (a Answers) ToMap() map[string]any {
	out := make(map[string]any, len(a))
	for id, v := range a {
		out[id] = v.Any()
	}
	return out
}

// FromMap converts decoded JSON into an Answers record.
func FromMap(m map[string]any) (Answers, error) {
	out := make(Answers, len(m))
	for id, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", id, err)
		}
		out[id] = v
	}
	return out, nil
}
