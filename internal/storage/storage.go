// Package storage defines the persistence ports of the salon backend.
package storage

import (
	"context"

	"github.com/tjfontaine/salon-intake/internal/domain"
)

// SearchLimit caps the number of clients returned by a search.
const SearchLimit = 10

// ListOptions pages through a listing. A zero Limit means no limit.
type ListOptions struct {
	Limit  int
	Offset int
}

// ClientStore persists salon clients.
type ClientStore interface {
	CreateClient(ctx context.Context, c *domain.Client) error
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	UpdateClient(ctx context.Context, c *domain.Client) error
	// ListClients returns clients ordered by last name.
	ListClients(ctx context.Context, opts ListOptions) ([]*domain.Client, error)
	// SearchClients matches query case-insensitively against first name,
	// last name and email, ordered by last name and capped at SearchLimit.
	// An empty query returns no clients.
	SearchClients(ctx context.Context, query string) ([]*domain.Client, error)
}

// DiagnosticStore persists saved diagnostics.
type DiagnosticStore interface {
	// CreateDiagnostic inserts a complete record in a single statement.
	CreateDiagnostic(ctx context.Context, d *domain.Diagnostic) error
	GetDiagnostic(ctx context.Context, id string) (*domain.Diagnostic, error)
	GetDiagnosticWithClient(ctx context.Context, id string) (*domain.DiagnosticWithClient, error)
	UpdateDiagnostic(ctx context.Context, id string, patch domain.DiagnosticPatch) (*domain.Diagnostic, error)
	DeleteDiagnostic(ctx context.Context, id string) error
	// ListDiagnostics returns diagnostics newest first.
	ListDiagnostics(ctx context.Context, filter domain.DiagnosticFilter) ([]*domain.DiagnosticWithClient, error)
}

// NoteStore persists practitioner notes, one per client.
type NoteStore interface {
	GetNote(ctx context.Context, clientID string) (*domain.Note, error)
	PutNote(ctx context.Context, note *domain.Note) error
}

// Store bundles every port.
type Store interface {
	ClientStore
	DiagnosticStore
	NoteStore
	Close() error
}
