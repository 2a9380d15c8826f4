// Package api exposes the salon backend over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/export"
	"github.com/tjfontaine/salon-intake/internal/flow"
	"github.com/tjfontaine/salon-intake/internal/intake"
	"github.com/tjfontaine/salon-intake/internal/newsletter"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Registry   *catalog.Registry
	Store      storage.Store
	Intake     *intake.Service
	Renderer   *export.Renderer
	Newsletter *newsletter.Service
	Logger     *slog.Logger
}

type Handler struct {
	registry   *catalog.Registry
	validator  *flow.Validator
	store      storage.Store
	intake     *intake.Service
	renderer   *export.Renderer
	newsletter *newsletter.Service
	logger     *slog.Logger
	newID      func() string
	startTime  time.Time
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:   d.Registry,
		validator:  flow.NewValidator(d.Registry),
		store:      d.Store,
		intake:     d.Intake,
		renderer:   d.Renderer,
		newsletter: d.Newsletter,
		logger:     logger,
		newID:      uuid.NewString,
		startTime:  time.Now(),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/catalogs", func(r chi.Router) {
			r.Get("/", h.handleListCatalogs)
			r.Get("/{category}", h.handleGetCatalog)
			r.Get("/{category}/schema", h.handleCatalogSchema)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.handleListClients)
			r.Post("/", h.handleCreateClient)
			r.Get("/search", h.handleSearchClients)
			r.Get("/{id}", h.handleGetClient)
			r.Patch("/{id}", h.handleUpdateClient)
			r.Get("/{id}/profile", h.handleClientProfile)
			r.Get("/{id}/note", h.handleGetNote)
			r.Put("/{id}/note", h.handlePutNote)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.handleStartSession)
			r.Get("/{id}", h.handleGetSession)
			r.Delete("/{id}", h.handleDiscardSession)
			r.Post("/{id}/answers", h.handleAnswer)
			r.Post("/{id}/toggle", h.handleToggle)
			r.Post("/{id}/next", h.handleNext)
			r.Post("/{id}/back", h.handleBack)
			r.Put("/{id}/signature", h.handleSign)
			r.Delete("/{id}/signature", h.handleClearSignature)
			r.Post("/{id}/reset", h.handleReset)
			r.Post("/{id}/save", h.handleSave)
		})

		r.Route("/diagnostics", func(r chi.Router) {
			r.Get("/", h.handleListDiagnostics)
			r.Get("/{id}", h.handleGetDiagnostic)
			r.Patch("/{id}", h.handleUpdateDiagnostic)
			r.Delete("/{id}", h.handleDeleteDiagnostic)
			r.Get("/{id}/export", h.handleExportDiagnostic)
		})
	})

	r.Post("/api/subscribe", h.handleSubscribe)
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Sessions: h.intake.Len(),
	})
}
