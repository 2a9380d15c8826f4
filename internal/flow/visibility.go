// Package flow drives a client through a diagnostic questionnaire: which
// questions are visible, how answers accumulate, and when the flow is
// complete and may be saved.
package flow

import (
	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
)

// IsVisible reports whether q should be presented given the current answers.
//
// A set-valued clause matches when the dependee's answer is a set sharing at
// least one value with it. A scalar clause requires exact, type-sensitive
// equality. An unanswered dependee hides the question.
func IsVisible(q catalog.Question, answers answer.Answers) bool {
	if q.Visibility == nil {
		return true
	}
	got, ok := answers.Get(q.Visibility.DependsOn)
	if !ok {
		return false
	}
	if q.Visibility.Match.Type() == answer.TypeSet {
		return got.Intersects(q.Visibility.Match)
	}
	return got.Equal(q.Visibility.Match)
}

// Visible returns the catalog's visible questions in presentation order.
func Visible(cat *catalog.Catalog, answers answer.Answers) []catalog.Question {
	out := make([]catalog.Question, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		if IsVisible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}

// VisibleIDs is Visible reduced to question ids.
func VisibleIDs(cat *catalog.Catalog, answers answer.Answers) []string {
	qs := Visible(cat, answers)
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// PruneHidden drops answers whose question is not currently visible or not
// part of the catalog.
func PruneHidden(cat *catalog.Catalog, answers answer.Answers) answer.Answers {
	visible := make(map[string]bool, len(cat.Questions))
	for _, id := range VisibleIDs(cat, answers) {
		visible[id] = true
	}
	return answers.Prune(func(id string) bool { return visible[id] })
}
