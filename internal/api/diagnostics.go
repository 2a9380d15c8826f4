package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/export"
	"github.com/tjfontaine/salon-intake/internal/server"
)

func (h *Handler) handleListDiagnostics(w http.ResponseWriter, r *http.Request) {
	filter := domain.DiagnosticFilter{ClientID: r.URL.Query().Get("client_id")}
	if q := r.URL.Query().Get("category"); q != "" {
		c, err := catalog.ParseCategory(q)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		filter.Category = c
	}

	diagnostics, err := h.store.ListDiagnostics(r.Context(), filter)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagnostics": diagnostics})
}

func (h *Handler) handleGetDiagnostic(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.GetDiagnosticWithClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type diagnosticPatchRequest struct {
	Answers     map[string]any `json:"answers"`
	Signature   *string        `json:"signature"`
	CompletedAt *time.Time     `json:"completed_at"`
}

func (h *Handler) handleUpdateDiagnostic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req diagnosticPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	patch := domain.DiagnosticPatch{Signature: req.Signature, CompletedAt: req.CompletedAt}
	if req.Answers != nil {
		existing, err := h.store.GetDiagnostic(r.Context(), id)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		answers, err := h.validator.Validate(existing.Category, req.Answers)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		patch.Answers = answers
	}

	d, err := h.store.UpdateDiagnostic(r.Context(), id, patch)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteDiagnostic(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDiagnostic(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExportDiagnostic(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, r, domain.ErrInvalidRequest(err.Error()).WithParam("format"))
		return
	}

	d, err := h.store.GetDiagnostic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	c, err := h.store.GetClient(r.Context(), d.ClientID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	doc, err := h.renderer.Render(d, c, format)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	server.AddLogField(r.Context(), "export_format", string(format))
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
