package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

// Validate checks the structural invariants of a catalog:
//   - ids are non-empty and unique
//   - a visibility clause depends on a question presented earlier and its
//     match value has the shape that question's answers take
//   - choice questions declare options, other kinds do not
//   - a selection cap only appears on multi-select questions
//
// All problems are reported together.
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New("catalog is nil")
	}
	if _, err := ParseCategory(string(c.Category)); err != nil {
		return err
	}
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog %s has no questions", c.Category)
	}

	var errs []error
	seen := make(map[string]int, len(c.Questions))

	for i, q := range c.Questions {
		if q.ID == "" {
			errs = append(errs, fmt.Errorf("question #%d has no id", i))
			continue
		}
		if prev, dup := seen[q.ID]; dup {
			errs = append(errs, fmt.Errorf("question %s is declared twice (#%d and #%d)", q.ID, prev, i))
		}
		seen[q.ID] = i

		if !q.Kind.valid() {
			errs = append(errs, fmt.Errorf("question %s has unknown kind %q", q.ID, q.Kind))
			continue
		}

		switch {
		case q.IsChoice() && len(q.Options) == 0:
			errs = append(errs, fmt.Errorf("question %s is a choice without options", q.ID))
		case !q.IsChoice() && len(q.Options) > 0:
			errs = append(errs, fmt.Errorf("question %s of kind %s cannot declare options", q.ID, q.Kind))
		}
		if !q.IsChoice() && q.AllowMultiple {
			errs = append(errs, fmt.Errorf("question %s of kind %s cannot allow multiple answers", q.ID, q.Kind))
		}
		if q.MaxSelections < 0 || (q.MaxSelections > 0 && !q.IsMultiSelect()) {
			errs = append(errs, fmt.Errorf("question %s sets max selections without being multi-select", q.ID))
		}

		values := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if slices.Contains(values, o.Value) {
				errs = append(errs, fmt.Errorf("question %s repeats option %q", q.ID, o.Value))
			}
			values = append(values, o.Value)
		}

		if q.Visibility != nil {
			errs = append(errs, validateVisibility(q, c.Questions, seen)...)
		}
	}

	return errors.Join(errs...)
}

func validateVisibility(q Question, questions []Question, earlier map[string]int) []error {
	vis := q.Visibility
	if vis.DependsOn == "" {
		return []error{fmt.Errorf("question %s has a visibility clause without a dependee", q.ID)}
	}
	if vis.DependsOn == q.ID {
		return []error{fmt.Errorf("question %s cannot depend on itself", q.ID)}
	}
	// earlier only holds ids seen before q plus q itself.
	i, ok := earlier[vis.DependsOn]
	if !ok {
		return []error{fmt.Errorf("question %s depends on %s which is not presented before it", q.ID, vis.DependsOn)}
	}
	dep := questions[i]

	switch vis.Match.Type() {
	case answer.TypeBool:
		if dep.Kind != KindToggle {
			return []error{fmt.Errorf("question %s matches a boolean but %s is a %s question", q.ID, dep.ID, dep.Kind)}
		}
	case answer.TypeText:
		if dep.Kind == KindToggle || dep.IsMultiSelect() {
			return []error{fmt.Errorf("question %s matches text but %s is a %s question", q.ID, dep.ID, describeKind(dep))}
		}
		if s, _ := vis.Match.Text(); dep.IsChoice() && !dep.HasOption(s) {
			return []error{fmt.Errorf("question %s matches %q which is not an option of %s", q.ID, s, dep.ID)}
		}
	case answer.TypeSet:
		if !dep.IsMultiSelect() {
			return []error{fmt.Errorf("question %s matches a set but %s is a %s question", q.ID, dep.ID, describeKind(dep))}
		}
		set, _ := vis.Match.Set()
		for _, s := range set {
			if !dep.HasOption(s) {
				return []error{fmt.Errorf("question %s matches %q which is not an option of %s", q.ID, s, dep.ID)}
			}
		}
	default:
		return []error{fmt.Errorf("question %s has a visibility clause without a match value", q.ID)}
	}
	return nil
}

func describeKind(q Question) string {
	switch {
	case q.IsMultiSelect():
		return fmt.Sprintf("multi-select %s", q.Kind)
	case q.IsSingleSelect():
		return fmt.Sprintf("single-select %s", q.Kind)
	}
	return string(q.Kind)
}
