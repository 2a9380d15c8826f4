package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/salon-intake/internal/catalog"
)

type catalogSummary struct {
	Category  catalog.Category `json:"category"`
	Title     string           `json:"title,omitempty"`
	Questions int              `json:"questions"`
	Revision  int              `json:"revision"`
}

func (h *Handler) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	catalogs := h.registry.List()
	out := make([]catalogSummary, 0, len(catalogs))
	for _, c := range catalogs {
		out = append(out, catalogSummary{
			Category:  c.Category,
			Title:     c.Title,
			Questions: len(c.Questions),
			Revision:  h.registry.Revision(c.Category),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"catalogs": out})
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := catalog.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	cat, err := h.registry.Get(c)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *Handler) handleCatalogSchema(w http.ResponseWriter, r *http.Request) {
	c, err := catalog.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	schema, err := h.validator.Schema(c)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_ = jsonEncode(w, schema)
}
