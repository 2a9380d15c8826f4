// Package intake runs diagnostic sessions against the catalog registry and
// persists the signed result.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/flow"
	"github.com/tjfontaine/salon-intake/internal/profile"
	"github.com/tjfontaine/salon-intake/internal/storage"
	"github.com/tjfontaine/salon-intake/internal/telemetry"
)

// DefaultSessionTTL is how long an untouched session is kept in memory.
const DefaultSessionTTL = 2 * time.Hour

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = fmt.Errorf("session %w", domain.ErrNotFound)

// StartRequest opens a session for a client.
type StartRequest struct {
	ClientID         string           `json:"client_id"`
	Category         catalog.Category `json:"category"`
	PractitionerID   string           `json:"practitioner_id,omitempty"`
	PractitionerName string           `json:"practitioner_name,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithAutoAdvanceDelay sets the delay used by every new session.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(s *Service) { s.autoAdvanceDelay = d }
}

// WithPurgeHiddenAnswers drops answers to hidden questions at save time.
func WithPurgeHiddenAnswers(purge bool) Option {
	return func(s *Service) { s.purgeHidden = purge }
}

// WithSessionTTL sets how long idle sessions survive Reap.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTranslator sets the translator used for client profiles.
func WithTranslator(t *profile.Translator) Option {
	return func(s *Service) { s.translator = t }
}

type entry struct {
	session *flow.Session
	touched time.Time
}

// Service owns the in-memory sessions.
type Service struct {
	registry   *catalog.Registry
	store      storage.Store
	logger     *slog.Logger
	tracer     trace.Tracer
	translator *profile.Translator

	autoAdvanceDelay time.Duration
	purgeHidden      bool
	ttl              time.Duration
	now              func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewService creates a Service. A nil logger falls back to slog.Default.
func NewService(registry *catalog.Registry, store storage.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		registry:         registry,
		store:            store,
		logger:           logger,
		tracer:           telemetry.Tracer(),
		translator:       profile.NewTranslator(),
		autoAdvanceDelay: flow.DefaultAutoAdvanceDelay,
		ttl:              DefaultSessionTTL,
		now:              func() time.Time { return time.Now().UTC() },
		sessions:         make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a session on the current catalog revision of req.Category.
func (s *Service) Start(ctx context.Context, req StartRequest) (*flow.Session, error) {
	if req.ClientID == "" {
		return nil, domain.ErrValidation(domain.FieldErrors{"client_id": "Client requis"})
	}
	if _, err := s.store.GetClient(ctx, req.ClientID); err != nil {
		return nil, err
	}
	cat, err := s.registry.Get(req.Category)
	if err != nil {
		return nil, err
	}

	session, err := flow.NewSession(req.ClientID, cat,
		flow.WithAutoAdvanceDelay(s.autoAdvanceDelay),
		flow.WithPurgeHiddenAnswers(s.purgeHidden),
		flow.WithPractitioner(req.PractitionerID, req.PractitionerName),
		flow.WithAutoAdvanceListener(func(sess *flow.Session) {
			s.logger.Debug("session auto advanced",
				slog.String("session_id", sess.ID()),
				slog.Int("index", sess.Index()))
		}),
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID()] = &entry{session: session, touched: s.now()}
	s.mu.Unlock()

	s.logger.Info("session started",
		slog.String("session_id", session.ID()),
		slog.String("client_id", req.ClientID),
		slog.String("category", string(req.Category)))

	return session, nil
}

// Session returns a live session and refreshes its idle timer.
func (s *Service) Session(id string) (*flow.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e.touched = s.now()
	return e.session, nil
}

// Discard closes and forgets a session.
func (s *Service) Discard(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e.session.Close()
	s.logger.Info("session discarded", slog.String("session_id", id))
	return nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reap discards sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Service) Reap() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*flow.Session
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			expired = append(expired, e.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("expired idle sessions", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// RunReaper calls Reap every interval until ctx is done.
func (s *Service) RunReaper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Reap()
		}
	}
}

// Save persists the session's diagnostic in a single insert. On failure the
// session keeps its answers and signature so the save can be retried with the
// same diagnostic ID.
func (s *Service) Save(ctx context.Context, id string) (*domain.Diagnostic, error) {
	session, err := s.Session(id)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "session.save", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("client.id", session.ClientID()),
		attribute.String("diagnostic.category", string(session.Category())),
	))
	defer span.End()

	d, err := session.Finalize(s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("diagnostic.id", d.ID))

	if err := s.store.CreateDiagnostic(ctx, d); err != nil {
		// A previous attempt may have committed before failing to report it.
		if existing, getErr := s.store.GetDiagnostic(ctx, d.ID); getErr == nil {
			d = existing
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persistence failed")
			s.logger.Error("failed to save diagnostic",
				slog.String("session_id", id),
				slog.String("diagnostic_id", d.ID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("save diagnostic %s: %w", d.ID, err)
		}
	}

	session.MarkSaved()
	s.logger.Info("diagnostic saved",
		slog.String("session_id", id),
		slog.String("diagnostic_id", d.ID),
		slog.String("client_id", d.ClientID),
		slog.String("category", string(d.Category)),
		slog.Int("answers", len(d.Answers)))

	return d, nil
}

// History returns a client's diagnostics, newest first.
func (s *Service) History(ctx context.Context, clientID string) ([]*domain.Diagnostic, error) {
	rows, err := s.store.ListDiagnostics(ctx, domain.DiagnosticFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	history := make([]*domain.Diagnostic, len(rows))
	for i, row := range rows {
		history[i] = &row.Diagnostic
	}
	return history, nil
}

// Profile derives the client's latest profile of every category.
func (s *Service) Profile(ctx context.Context, clientID string) (profile.ClientSnapshot, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return profile.ClientSnapshot{}, err
	}
	history, err := s.History(ctx, clientID)
	if err != nil {
		return profile.ClientSnapshot{}, err
	}
	return s.translator.Snapshot(history), nil
}

// Translator returns the translator used for profiles.
func (s *Service) Translator() *profile.Translator {
	return s.translator
}

// Close discards every session.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}
