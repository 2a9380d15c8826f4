package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

// fileDocument is the on-disk layout of a catalog override file.
type fileDocument struct {
	Catalogs []fileCatalog `yaml:"catalogs"`
}

type fileCatalog struct {
	Category  string         `yaml:"category"`
	Title     string         `yaml:"title"`
	Questions []fileQuestion `yaml:"questions"`
}

type fileQuestion struct {
	ID            string          `yaml:"id"`
	Type          string          `yaml:"type"`
	Question      string          `yaml:"question"`
	Placeholder   string          `yaml:"placeholder"`
	Options       []Option        `yaml:"options"`
	Multiple      bool            `yaml:"multiple"`
	MaxSelections int             `yaml:"max_selections"`
	Conditional   *fileVisibility `yaml:"conditional"`
}

type fileVisibility struct {
	DependsOn string `yaml:"depends_on"`
	Value     any    `yaml:"value"`
}

// LoadFile reads and validates catalogs from a YAML file.
func LoadFile(path string) ([]*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	cats, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cats, nil
}

// Decode parses a YAML catalog document and validates every catalog in it.
func Decode(r io.Reader) ([]*Catalog, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if len(doc.Catalogs) == 0 {
		return nil, fmt.Errorf("catalog file declares no catalogs")
	}

	out := make([]*Catalog, 0, len(doc.Catalogs))
	seen := make(map[Category]bool)
	for _, fc := range doc.Catalogs {
		cat, err := fc.toCatalog()
		if err != nil {
			return nil, err
		}
		if seen[cat.Category] {
			return nil, fmt.Errorf("catalog %s is declared twice", cat.Category)
		}
		seen[cat.Category] = true

		if err := cat.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cat.Category, err)
		}
		out = append(out, cat)
	}
	return out, nil
}

func (fc fileCatalog) toCatalog() (*Catalog, error) {
	category, err := ParseCategory(fc.Category)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Category: category, Title: fc.Title, Questions: make([]Question, 0, len(fc.Questions))}
	for _, fq := range fc.Questions {
		q := Question{
			ID:            fq.ID,
			Kind:          Kind(fq.Type),
			Prompt:        fq.Question,
			Placeholder:   fq.Placeholder,
			Options:       fq.Options,
			AllowMultiple: fq.Multiple,
			MaxSelections: fq.MaxSelections,
		}
		if fq.Conditional != nil {
			match, err := answer.FromAny(fq.Conditional.Value)
			if err != nil {
				return nil, fmt.Errorf("catalog %s question %s: conditional value: %w", category, fq.ID, err)
			}
			q.Visibility = &Visibility{DependsOn: fq.Conditional.DependsOn, Match: match}
		}
		cat.Questions = append(cat.Questions, q)
	}
	return cat, nil
}
