package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

// Store is an in-memory implementation of storage.Store
type Store struct {
	mu          sync.RWMutex
	clients     map[string]*domain.Client
	diagnostics map[string]*domain.Diagnostic
	notes       map[string]*domain.Note
	now         func() time.Time
}

var _ storage.Store = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{
		clients:     make(map[string]*domain.Client),
		diagnostics: make(map[string]*domain.Diagnostic),
		notes:       make(map[string]*domain.Note),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[c.ID]; exists {
		return fmt.Errorf("client %s already exists", c.ID)
	}

	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	s.clients[c.ID] = &stored
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.clients[id]
	if !exists {
		return nil, fmt.Errorf("client %s %w", id, domain.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.clients[c.ID]
	if !exists {
		return fmt.Errorf("client %s %w", c.ID, domain.ErrNotFound)
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	stored := *c
	s.clients[c.ID] = &stored
	return nil
}

func (s *Store) ListClients(ctx context.Context, opts storage.ListOptions) ([]*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out := *c
		result = append(result, &out)
	}
	sortClients(result)

	// Simple pagination
	start := opts.Offset
	if start >= len(result) {
		return []*domain.Client{}, nil
	}

	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) SearchClients(ctx context.Context, query string) ([]*domain.Client, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*domain.Client{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.Client{}
	for _, c := range s.clients {
		if strings.Contains(strings.ToLower(c.FirstName), query) ||
			strings.Contains(strings.ToLower(c.LastName), query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			out := *c
			result = append(result, &out)
		}
	}
	sortClients(result)

	if len(result) > storage.SearchLimit {
		result = result[:storage.SearchLimit]
	}
	return result, nil
}

func (s *Store) CreateDiagnostic(ctx context.Context, d *domain.Diagnostic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[d.ClientID]; !exists {
		return fmt.Errorf("client %s %w", d.ClientID, domain.ErrNotFound)
	}
	if _, exists := s.diagnostics[d.ID]; exists {
		return fmt.Errorf("diagnostic %s already exists", d.ID)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}

	s.diagnostics[d.ID] = d.Clone()
	return nil
}

func (s *Store) GetDiagnostic(ctx context.Context, id string) (*domain.Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.diagnostics[id]
	if !exists {
		return nil, fmt.Errorf("diagnostic %s %w", id, domain.ErrNotFound)
	}
	return d.Clone(), nil
}

func (s *Store) GetDiagnosticWithClient(ctx context.Context, id string) (*domain.DiagnosticWithClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.diagnostics[id]
	if !exists {
		return nil, fmt.Errorf("diagnostic %s %w", id, domain.ErrNotFound)
	}
	return s.withClient(d), nil
}

func (s *Store) UpdateDiagnostic(ctx context.Context, id string, patch domain.DiagnosticPatch) (*domain.Diagnostic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.diagnostics[id]
	if !exists {
		return nil, fmt.Errorf("diagnostic %s %w", id, domain.ErrNotFound)
	}

	updated := d.Clone()
	patch.Apply(updated)
	s.diagnostics[id] = updated
	return updated.Clone(), nil
}

func (s *Store) DeleteDiagnostic(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.diagnostics[id]; !exists {
		return fmt.Errorf("diagnostic %s %w", id, domain.ErrNotFound)
	}

	delete(s.diagnostics, id)
	return nil
}

func (s *Store) ListDiagnostics(ctx context.Context, filter domain.DiagnosticFilter) ([]*domain.DiagnosticWithClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.DiagnosticWithClient{}
	for _, d := range s.diagnostics {
		if filter.ClientID != "" && d.ClientID != filter.ClientID {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		result = append(result, s.withClient(d))
	}

	slices.SortFunc(result, func(a, b *domain.DiagnosticWithClient) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (s *Store) GetNote(ctx context.Context, clientID string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, exists := s.notes[clientID]
	if !exists {
		return nil, fmt.Errorf("note for client %s %w", clientID, domain.ErrNotFound)
	}
	out := *n
	return &out, nil
}

func (s *Store) PutNote(ctx context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[note.ClientID]; !exists {
		return fmt.Errorf("client %s %w", note.ClientID, domain.ErrNotFound)
	}

	note.UpdatedAt = s.now()
	stored := *note
	s.notes[note.ClientID] = &stored
	return nil
}

func (s *Store) Close() error {
	return nil
}

// withClient must be called with s.mu held.
func (s *Store) withClient(d *domain.Diagnostic) *domain.DiagnosticWithClient {
	out := &domain.DiagnosticWithClient{Diagnostic: *d.Clone()}
	if c, ok := s.clients[d.ClientID]; ok {
		out.ClientFirstName = c.FirstName
		out.ClientLastName = c.LastName
	}
	return out
}

func sortClients(clients []*domain.Client) {
	slices.SortFunc(clients, func(a, b *domain.Client) int {
		if c := strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
