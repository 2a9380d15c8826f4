// Package catalog holds the ordered question lists presented for each
// diagnostic category.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

// Category identifies a diagnostic questionnaire.
type Category string

const (
	CategoryMassage  Category = "massage"
	CategorySkincare Category = "skincare"
	CategoryHeadSpa  Category = "headspa"
)

// Categories lists the built-in categories in display order.
var Categories = []Category{CategoryMassage, CategorySkincare, CategoryHeadSpa}

// ErrUnknownCategory is wrapped when a category has no catalog.
var ErrUnknownCategory = errors.New("unknown diagnostic category")

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(Categories, c) {
		return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Kind is the presentation kind of a question.
type Kind string

const (
	KindToggle   Kind = "toggle"
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindChips    Kind = "chips"
	KindCards    Kind = "cards"
)

func (k Kind) valid() bool {
	switch k {
	case KindToggle, KindText, KindTextarea, KindChips, KindCards:
		return true
	}
	return false
}

// Option is one selectable value of a choice question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// Visibility makes a question depend on an earlier answer.
// A set-valued Match is satisfied by any overlap with the dependee's set;
// a scalar Match requires exact equality.
type Visibility struct {
	DependsOn string       `json:"depends_on"`
	Match     answer.Value `json:"value"`
}

// Question is a single entry of a catalog.
type Question struct {
	ID            string      `json:"id"`
	Kind          Kind        `json:"type"`
	Prompt        string      `json:"question"`
	Placeholder   string      `json:"placeholder,omitempty"`
	Options       []Option    `json:"options,omitempty"`
	AllowMultiple bool        `json:"multiple,omitempty"`
	MaxSelections int         `json:"max_selections,omitempty"`
	Visibility    *Visibility `json:"conditional,omitempty"`
}

// IsChoice reports whether the question is answered by picking options.
func (q Question) IsChoice() bool {
	return q.Kind == KindChips || q.Kind == KindCards
}

// IsSingleSelect reports whether picking an option answers the question outright.
func (q Question) IsSingleSelect() bool {
	return q.IsChoice() && !q.AllowMultiple
}

// IsMultiSelect reports whether the question collects a set of options.
func (q Question) IsMultiSelect() bool {
	return q.IsChoice() && q.AllowMultiple
}

// HasOption reports whether value is one of the declared options.
func (q Question) HasOption(value string) bool {
	return slices.ContainsFunc(q.Options, func(o Option) bool { return o.Value == value })
}

// Option returns the option declared for value.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Accepts checks that v has the shape the question's kind requires and, for
// choices, that every selected value is a declared option.
func (q Question) Accepts(v answer.Value) error {
	switch {
	case q.Kind == KindToggle:
		if v.Type() != answer.TypeBool {
			return fmt.Errorf("question %s expects a boolean, got %s", q.ID, v.Type())
		}
	case q.Kind == KindText || q.Kind == KindTextarea:
		if v.Type() != answer.TypeText {
			return fmt.Errorf("question %s expects text, got %s", q.ID, v.Type())
		}
	case q.IsSingleSelect():
		s, ok := v.Text()
		if !ok {
			return fmt.Errorf("question %s expects a single option, got %s", q.ID, v.Type())
		}
		if !q.HasOption(s) {
			return fmt.Errorf("question %s has no option %q", q.ID, s)
		}
	case q.IsMultiSelect():
		set, ok := v.Set()
		if !ok {
			return fmt.Errorf("question %s expects a set of options, got %s", q.ID, v.Type())
		}
		for _, s := range set {
			if !q.HasOption(s) {
				return fmt.Errorf("question %s has no option %q", q.ID, s)
			}
		}
		if q.MaxSelections > 0 && len(set) > q.MaxSelections {
			return fmt.Errorf("question %s accepts at most %d selections", q.ID, q.MaxSelections)
		}
	default:
		return fmt.Errorf("question %s has unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

// Catalog is the ordered question list of one category.
type Catalog struct {
	Category  Category   `json:"category"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (Question, bool) {
	if i := c.Index(id); i >= 0 {
		return c.Questions[i], true
	}
	return Question{}, false
}

// Index returns the presentation position of id, or -1.
func (c *Catalog) Index(id string) int {
	return slices.IndexFunc(c.Questions, func(q Question) bool { return q.ID == id })
}

// IDs returns question ids in presentation order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Questions))
	for i, q := range c.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Clone returns a deep copy so callers can never alter shared catalog data.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Category: c.Category, Title: c.Title, Questions: make([]Question, len(c.Questions))}
	for i, q := range c.Questions {
		q.Options = slices.Clone(q.Options)
		if q.Visibility != nil {
			vis := *q.Visibility
			q.Visibility = &vis
		}
		out.Questions[i] = q
	}
	return out
}
