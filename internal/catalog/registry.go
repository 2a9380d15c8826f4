package catalog

import (
	"fmt"
	"sync"
)

// Registry maps categories to their active catalog. It starts with the
// built-in catalogs; override files can replace entries at runtime.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[Category]*Catalog
	revision map[Category]int
}

// NewRegistry creates a registry seeded with the built-in catalogs.
func NewRegistry() *Registry {
	r := &Registry{
		catalogs: make(map[Category]*Catalog, len(Categories)),
		revision: make(map[Category]int, len(Categories)),
	}
	for _, c := range Categories {
		cat, err := Builtin(c)
		if err != nil {
			// Builtin covers every entry of Categories.
			panic(err)
		}
		r.catalogs[c] = cat
	}
	return r
}

// Get returns a copy of the active catalog for c.
func (r *Registry) Get(c Category) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, ok := r.catalogs[c]
	if !ok {
		return nil, fmt.Errorf("catalog %s: %w", c, ErrUnknownCategory)
	}
	return cat.Clone(), nil
}

// Lookup returns a copy of the active catalog for c together with its revision.
func (r *Registry) Lookup(c Category) (*Catalog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, ok := r.catalogs[c]
	if !ok {
		return nil, 0, fmt.Errorf("catalog %s: %w", c, ErrUnknownCategory)
	}
	return cat.Clone(), r.revision[c], nil
}

// Revision returns a counter bumped every time the catalog for c is replaced.
func (r *Registry) Revision(c Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision[c]
}

// Replace validates and installs catalogs. Nothing is installed if any of
// them is invalid.
func (r *Registry) Replace(catalogs ...*Catalog) error {
	for _, cat := range catalogs {
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("invalid catalog %s: %w", cat.Category, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cat := range catalogs {
		r.catalogs[cat.Category] = cat.Clone()
		r.revision[cat.Category]++
	}
	return nil
}

// List returns copies of all active catalogs in display order.
func (r *Registry) List() []*Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Catalog, 0, len(r.catalogs))
	for _, c := range Categories {
		if cat, ok := r.catalogs[c]; ok {
			out = append(out, cat.Clone())
		}
	}
	return out
}
