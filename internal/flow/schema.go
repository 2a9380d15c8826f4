package flow

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
)

const draft2020 = "https://json-schema.org/draft/2020-12/schema"

// Schema describes a catalog's answer record as a JSON Schema document.
// Every property is optional; unknown question ids are rejected.
func Schema(cat *catalog.Catalog) map[string]any {
	props := make(map[string]any, len(cat.Questions))
	for _, q := range cat.Questions {
		props[q.ID] = questionSchema(q)
	}
	return map[string]any{
		"$schema":              draft2020,
		"title":                fmt.Sprintf("%s diagnostic answers", cat.Category),
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func questionSchema(q catalog.Question) map[string]any {
	s := map[string]any{"description": q.Prompt}
	switch {
	case q.Kind == catalog.KindToggle:
		s["type"] = "boolean"
	case q.IsSingleSelect():
		s["type"] = "string"
		s["enum"] = optionValues(q)
	case q.IsMultiSelect():
		s["type"] = "array"
		s["items"] = map[string]any{"type": "string", "enum": optionValues(q)}
		s["uniqueItems"] = true
		if q.MaxSelections > 0 {
			s["maxItems"] = q.MaxSelections
		}
	default:
		s["type"] = "string"
	}
	return s
}

func optionValues(q catalog.Question) []any {
	out := make([]any, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Value
	}
	return out
}

// Validator checks raw answer records against the active catalogs.
// Only the schema of the current revision of each category is kept.
type Validator struct {
	registry *catalog.Registry

	mu    sync.Mutex
	cache map[catalog.Category]compiledSchema
}

type compiledSchema struct {
	revision int
	schema   *jsonschema.Schema
}

// NewValidator creates a validator over the registry's catalogs.
func NewValidator(registry *catalog.Registry) *Validator {
	return &Validator{registry: registry, cache: make(map[catalog.Category]compiledSchema)}
}

// Schema returns the schema document of the active catalog for c.
func (v *Validator) Schema(c catalog.Category) (map[string]any, error) {
	cat, err := v.registry.Get(c)
	if err != nil {
		return nil, err
	}
	return Schema(cat), nil
}

// Validate checks raw, decoded JSON against the schema of category c and
// converts it into an Answers record.
func (v *Validator) Validate(c catalog.Category, raw map[string]any) (answer.Answers, error) {
	compiled, err := v.compiled(c)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := compiled.Validate(toJSONValue(raw)); err != nil {
		return nil, fmt.Errorf("%w: answers do not match the %s catalog: %w", ErrInvalidAnswer, c, err)
	}
	return answer.FromMap(raw)
}

// ValidateAnswers checks a typed record against the schema of category c.
func (v *Validator) ValidateAnswers(c catalog.Category, answers answer.Answers) error {
	_, err := v.Validate(c, answers.ToMap())
	return err
}

func (v *Validator) compiled(c catalog.Category) (*jsonschema.Schema, error) {
	cat, rev, err := v.registry.Lookup(c)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	cached, ok := v.cache[c]
	v.mu.Unlock()
	if ok && cached.revision == rev {
		return cached.schema, nil
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://answers/%s/%d.json", c, rev)
	if err := compiler.AddResource(url, toJSONValue(Schema(cat))); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", c, err)
	}

	v.mu.Lock()
	// A concurrent caller may already have stored a newer revision.
	if current, ok := v.cache[c]; !ok || current.revision <= rev {
		v.cache[c] = compiledSchema{revision: rev, schema: compiled}
	}
	v.mu.Unlock()
	return compiled, nil
}

// toJSONValue round-trips v through encoding/json so numbers and nested
// values have the types the compiler expects.
func toJSONValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
