package flow

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
)

func twoQuestionCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Category: catalog.CategoryMassage,
		Questions: []catalog.Question{
			{ID: "a", Kind: catalog.KindToggle},
			{ID: "b", Kind: catalog.KindTextarea, Visibility: &catalog.Visibility{DependsOn: "a", Match: answer.Bool(true)}},
		},
	}
}

func TestVisible_ScalarClause(t *testing.T) {
	cat := twoQuestionCatalog()

	tests := []struct {
		name    string
		answers answer.Answers
		want    []string
	}{
		{"unanswered", answer.Answers{}, []string{"a"}},
		{"false", answer.Answers{"a": answer.Bool(false)}, []string{"a"}},
		{"true", answer.Answers{"a": answer.Bool(true)}, []string{"a", "b"}},
		{"text true is not bool true", answer.Answers{"a": answer.Text("true")}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleIDs(cat, tt.answers)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("VisibleIDs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsVisible_SetClause(t *testing.T) {
	cat, err := catalog.Builtin(catalog.CategoryHeadSpa)
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	details, _ := cat.Question("health_conditions_details")

	tests := []struct {
		name    string
		answers answer.Answers
		want    bool
	}{
		{"unanswered", answer.Answers{}, false},
		{"empty set", answer.Answers{"health_conditions": answer.Set()}, false},
		{"no overlap", answer.Answers{"health_conditions": answer.Set("pregnant", "none")}, false},
		{"one overlap", answer.Answers{"health_conditions": answer.Set("pregnant", "allergies")}, true},
		{"other overlap", answer.Answers{"health_conditions": answer.Set("scalp-conditions")}, true},
		{"scalar answer never matches a set clause", answer.Answers{"health_conditions": answer.Text("allergies")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(details, tt.answers); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_UnconditionalAlwaysPresent(t *testing.T) {
	for _, c := range catalog.Categories {
		cat, _ := catalog.Builtin(c)
		noisy := answer.Answers{}
		for _, q := range cat.Questions {
			noisy[q.ID] = answer.Text("garbage")
		}

		for _, answers := range []answer.Answers{{}, noisy} {
			visible := VisibleIDs(cat, answers)
			for _, q := range cat.Questions {
				if q.Visibility == nil && !contains(visible, q.ID) {
					t.Errorf("%s: unconditional question %s missing from %v", c, q.ID, visible)
				}
			}
		}
	}
}

func TestPruneHidden(t *testing.T) {
	cat := twoQuestionCatalog()
	answers := answer.Answers{
		"a":     answer.Bool(false),
		"b":     answer.Text("stale"),
		"ghost": answer.Text("not in catalog"),
	}

	got := PruneHidden(cat, answers)
	if len(got) != 1 || !got.Has("a") {
		t.Errorf("PruneHidden() = %v, want only a", got)
	}
	if len(answers) != 3 {
		t.Error("PruneHidden() modified its input")
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
