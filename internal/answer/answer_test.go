package answer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValue_EqualIsTypeSensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"bool equal", Bool(true), Bool(true), true},
		{"bool differs", Bool(true), Bool(false), false},
		{"bool vs text", Bool(true), Text("true"), false},
		{"text equal", Text("soft"), Text("soft"), true},
		{"set order matters", Set("a", "b"), Set("b", "a"), false},
		{"set equal", Set("a", "b"), Set("a", "b"), true},
		{"undefined vs undefined", Value{}, Value{}, true},
		{"undefined vs false", Value{}, Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Intersects(t *testing.T) {
	if !Set("allergies", "none").Intersects(Set("scalp-conditions", "allergies")) {
		t.Error("expected sets sharing 'allergies' to intersect")
	}
	if Set("none").Intersects(Set("allergies")) {
		t.Error("disjoint sets should not intersect")
	}
	if Text("allergies").Intersects(Set("allergies")) {
		t.Error("text never intersects a set")
	}
	if Set().Intersects(Set("a")) {
		t.Error("empty set intersects nothing")
	}
}

func TestSet_DropsDuplicates(t *testing.T) {
	got, _ := Set("a", "b", "a", "c").Set()
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Set() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_KeepsPreviousKeys(t *testing.T) {
	base := Answers{}
	first := Merge(base, "q1", Text("x"))
	second := Merge(first, "q2", Text("y"))

	if len(base) != 0 {
		t.Fatalf("Merge mutated its input: %v", base)
	}
	if len(first) != 1 {
		t.Fatalf("Merge mutated an intermediate record: %v", first)
	}

	want := map[string]any{"q1": "x", "q2": "y"}
	if diff := cmp.Diff(want, second.ToMap()); diff != "" {
		t.Errorf("merged answers mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ReplacesWholeValue(t *testing.T) {
	a := Merge(nil, "zones", Set("back", "neck"))
	a = Merge(a, "zones", Set("feet"))

	got, _ := a["zones"].Set()
	if diff := cmp.Diff([]string{"feet"}, got); diff != "" {
		t.Errorf("replace mismatch (-want +got):\n%s", diff)
	}
}

func TestAnswers_HasTreatsEmptyAsDefined(t *testing.T) {
	a := Answers{"text": Text(""), "set": Set()}
	if !a.Has("text") || !a.Has("set") {
		t.Error("empty text and empty set must count as answered")
	}
	if a.Has("missing") {
		t.Error("missing key must be undefined")
	}
}

func TestAnswers_JSONRoundTripKeepsVariants(t *testing.T) {
	in := Answers{
		"has_allergies": Bool(false),
		"skin_type":     Text("dry"),
		"primary_goals": Set("hydration", "repair"),
		"zones":         Set(),
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out Answers
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for id, want := range in {
		if !out[id].Equal(want) {
			t.Errorf("%s = %v (%s), want %v (%s)", id, out[id], out[id].Type(), want, want.Type())
		}
	}
}

func TestFromAny_RejectsUnsupported(t *testing.T) {
	for _, raw := range []any{nil, 42.0, []any{"a", 1.0}, map[string]any{}} {
		if _, err := FromAny(raw); err == nil {
			t.Errorf("FromAny(%v) expected error", raw)
		}
	}
}
