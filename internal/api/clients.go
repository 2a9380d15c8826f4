package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{Limit: defaultListLimit}

	if q := r.URL.Query().Get("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= maxListLimit {
			opts.Limit = v
		}
	}
	if q := r.URL.Query().Get("offset"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v >= 0 {
			opts.Offset = v
		}
	}

	clients, err := h.store.ListClients(r.Context(), opts)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *Handler) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.SearchClients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in domain.ClientInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteError(w, r, err)
		return
	}
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		WriteError(w, r, err)
		return
	}

	c := &domain.Client{
		ID:          h.newID(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
		Phone:       in.Phone,
		Email:       in.Email,
	}
	if err := h.store.CreateClient(r.Context(), c); err != nil {
		WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "client created", "client_id", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var patch domain.ClientPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := patch.Validate().Err(); err != nil {
		WriteError(w, r, err)
		return
	}

	c, err := h.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !patch.IsEmpty() {
		patch.Apply(c)
		if err := h.store.UpdateClient(r.Context(), c); err != nil {
			WriteError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleClientProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetClient(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	snapshot, err := h.intake.Profile(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetClient(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}

	note, err := h.store.GetNote(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		note = &domain.Note{ClientID: id}
	} else if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type noteRequest struct {
	Body string `json:"body"`
}

func (h *Handler) handlePutNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	note := &domain.Note{ClientID: chi.URLParam(r, "id"), Body: req.Body}
	if err := h.store.PutNote(r.Context(), note); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}
