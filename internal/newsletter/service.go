// Package newsletter relays newsletter sign-ups to a Mailjet contact list.
package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/salon-intake/internal/mailjet"
	"github.com/tjfontaine/salon-intake/internal/telemetry"
)

var (
	ErrMissingFields     = errors.New("missing fields")
	ErrNotConfigured     = errors.New("server not configured")
	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrContactNotFound   = errors.New("contact not found")
)

// ListAddWarning is reported when the contact exists but could not be added
// to the list.
const ListAddWarning = "Contact créé mais erreur lors de l'ajout à la liste"

// ProviderError wraps a Mailjet failure that is not one of the sentinel
// outcomes.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return "mailjet error: " + e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// Contacts is the part of the Mailjet client the relay needs.
type Contacts interface {
	CreateContact(ctx context.Context, email, name string) (int64, error)
	GetContact(ctx context.Context, emailOrID string) (*mailjet.Contact, error)
	ContactLists(ctx context.Context, contactID int64) ([]mailjet.ListMembership, error)
	ManageListContact(ctx context.Context, listID, email, name, action string) error
}

// Request is a sign-up. Honeypot is a hidden form field that only bots fill.
type Request struct {
	Email    string `json:"email"`
	Consent  bool   `json:"consent"`
	Honeypot string `json:"hp,omitempty"`
}

// Result is a successful sign-up.
type Result struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

// Service subscribes emails to one list. A nil Contacts or empty list ID
// leaves the service unconfigured.
type Service struct {
	contacts Contacts
	listID   string
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewService(contacts Contacts, listID string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		contacts: contacts,
		listID:   listID,
		logger:   logger,
		tracer:   telemetry.Tracer(),
	}
}

// Configured reports whether sign-ups can reach Mailjet.
func (s *Service) Configured() bool {
	return s != nil && s.contacts != nil && s.listID != ""
}

// Subscribe adds req.Email to the list. An email already on the list returns
// ErrAlreadySubscribed.
func (s *Service) Subscribe(ctx context.Context, req Request) (*Result, error) {
	if req.Honeypot != "" {
		return &Result{Success: true}, nil
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !req.Consent {
		return nil, ErrMissingFields
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "newsletter.subscribe",
		trace.WithAttributes(attribute.String("mailjet.list_id", s.listID)))
	defer span.End()

	name := localPart(email)

	result, err := s.subscribe(ctx, email, name)
	if err != nil {
		if !errors.Is(err, ErrAlreadySubscribed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("newsletter.outcome", outcome(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("newsletter.outcome", "subscribed"))
	return result, nil
}

func (s *Service) subscribe(ctx context.Context, email, name string) (*Result, error) {
	_, err := s.contacts.CreateContact(ctx, email, name)
	switch {
	case err == nil:
	case mailjet.IsAlreadyExists(err):
		contact, err := s.contacts.GetContact(ctx, email)
		if err != nil {
			return nil, &ProviderError{Err: err}
		}
		if contact == nil || contact.ID == 0 {
			return nil, ErrContactNotFound
		}

		lists, err := s.contacts.ContactLists(ctx, contact.ID)
		if err != nil {
			return nil, &ProviderError{Err: err}
		}
		for _, l := range lists {
			if strconv.FormatInt(l.ListID, 10) == s.listID {
				s.logger.InfoContext(ctx, "newsletter email already on list", slog.Int64("contact_id", contact.ID))
				return nil, ErrAlreadySubscribed
			}
		}
	default:
		return nil, &ProviderError{Err: err}
	}

	if err := s.contacts.ManageListContact(ctx, s.listID, email, name, mailjet.ActionAddNoForce); err != nil {
		s.logger.WarnContext(ctx, "newsletter list add failed", slog.String("error", err.Error()))
		return &Result{Success: true, Warning: ListAddWarning}, nil
	}

	s.logger.InfoContext(ctx, "newsletter subscription added", slog.String("list_id", s.listID))
	return &Result{Success: true}, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrAlreadySubscribed):
		return "already_subscribed"
	case errors.Is(err, ErrContactNotFound):
		return "contact_not_found"
	default:
		return "error"
	}
}
