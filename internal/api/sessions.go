package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/flow"
	"github.com/tjfontaine/salon-intake/internal/intake"
	"github.com/tjfontaine/salon-intake/internal/server"
)

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req intake.StartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	session, err := h.intake.Start(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	server.AddLogField(r.Context(), "session_id", session.ID())
	writeJSON(w, http.StatusCreated, session.View())
}

// withSession resolves the {id} session and writes its view after fn
// succeeds.
func (h *Handler) withSession(fn func(r *http.Request, s *flow.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		server.AddLogField(r.Context(), "session_id", id)

		session, err := h.intake.Session(id)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if err := fn(r, session); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, session.View())
	}
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(*http.Request, *flow.Session) error { return nil })(w, r)
}

func (h *Handler) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := h.intake.Discard(chi.URLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	QuestionID string       `json:"question_id"`
	Value      answer.Value `json:"value"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(r *http.Request, s *flow.Session) error {
		var req answerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		if req.QuestionID == "" {
			return domain.ErrInvalidRequest("question_id is required").WithParam("question_id")
		}
		if !req.Value.IsDefined() {
			return domain.ErrInvalidRequest("value is required").WithParam("value")
		}
		return s.Answer(req.QuestionID, req.Value)
	})(w, r)
}

type toggleRequest struct {
	QuestionID string `json:"question_id"`
	Option     string `json:"option"`
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(r *http.Request, s *flow.Session) error {
		var req toggleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		if req.QuestionID == "" || req.Option == "" {
			return domain.ErrInvalidRequest("question_id and option are required")
		}
		return s.Toggle(req.QuestionID, req.Option)
	})(w, r)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(_ *http.Request, s *flow.Session) error {
		return s.Advance()
	})(w, r)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(_ *http.Request, s *flow.Session) error {
		return s.Retreat()
	})(w, r)
}

type signatureRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(r *http.Request, s *flow.Session) error {
		var req signatureRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		return s.Sign(req.Signature)
	})(w, r)
}

func (h *Handler) handleClearSignature(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(_ *http.Request, s *flow.Session) error {
		return s.ClearSignature()
	})(w, r)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.withSession(func(_ *http.Request, s *flow.Session) error {
		return s.Reset()
	})(w, r)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	server.AddLogField(r.Context(), "session_id", id)

	d, err := h.intake.Save(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	server.AddLogField(r.Context(), "diagnostic_id", d.ID)
	writeJSON(w, http.StatusCreated, d)
}
