package api

import (
	"net/http"

	"github.com/tjfontaine/salon-intake/internal/newsletter"
)

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletter.Request
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	result, err := h.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
