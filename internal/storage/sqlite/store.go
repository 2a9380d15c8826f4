package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

// Store is a SQLite implementation of storage.Store
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// New creates a new SQLite store
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute pragma: %w", err)
		}
	}

	store := &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// DB returns the underlying sqlx.DB
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
id TEXT PRIMARY KEY,
first_name TEXT NOT NULL,
last_name TEXT NOT NULL,
date_of_birth TEXT NOT NULL,
phone TEXT NOT NULL,
email TEXT NOT NULL,
created_at TIMESTAMP NOT NULL,
updated_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
id TEXT PRIMARY KEY,
client_id TEXT NOT NULL,
category TEXT NOT NULL,
answers TEXT NOT NULL,
signature TEXT NOT NULL DEFAULT '',
practitioner_id TEXT NOT NULL DEFAULT '',
practitioner_name TEXT NOT NULL DEFAULT '',
created_at TIMESTAMP NOT NULL,
completed_at TIMESTAMP,
FOREIGN KEY (client_id) REFERENCES clients(id)
)`,
		`CREATE TABLE IF NOT EXISTS notes (
client_id TEXT PRIMARY KEY,
body TEXT NOT NULL,
updated_at TIMESTAMP NOT NULL,
FOREIGN KEY (client_id) REFERENCES clients(id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_last_name ON clients(last_name, first_name)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_client ON diagnostics(client_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_created ON diagnostics(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Client operations

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) error {
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.NamedExecContext(ctx, `
INSERT INTO clients (id, first_name, last_name, date_of_birth, phone, email, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :date_of_birth, :phone, :email, :created_at, :updated_at)`, c)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := s.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *domain.Client) error {
	c.UpdatedAt = s.now()

	result, err := s.db.NamedExecContext(ctx, `
UPDATE clients SET first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth,
phone = :phone, email = :email, updated_at = :updated_at
WHERE id = :id`, c)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if err := requireRow(result, "client", c.ID); err != nil {
		return err
	}

	return s.db.GetContext(ctx, &c.CreatedAt, `SELECT created_at FROM clients WHERE id = ?`, c.ID)
}

func (s *Store) ListClients(ctx context.Context, opts storage.ListOptions) ([]*domain.Client, error) {
	query := `SELECT * FROM clients ORDER BY lower(last_name), lower(first_name), id`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	} else if opts.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, opts.Offset)
	}

	clients := []*domain.Client{}
	if err := s.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *Store) SearchClients(ctx context.Context, query string) ([]*domain.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Client{}, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	clients := []*domain.Client{}
	err := s.db.SelectContext(ctx, &clients, `
SELECT * FROM clients
WHERE lower(first_name) LIKE ? ESCAPE '\'
OR lower(last_name) LIKE ? ESCAPE '\'
OR lower(email) LIKE ? ESCAPE '\'
ORDER BY lower(last_name), lower(first_name), id
LIMIT ?`, pattern, pattern, pattern, storage.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

// Diagnostic operations

type diagnosticRow struct {
	ID               string         `db:"id"`
	ClientID         string         `db:"client_id"`
	Category         string         `db:"category"`
	Answers          string         `db:"answers"`
	Signature        string         `db:"signature"`
	PractitionerID   string         `db:"practitioner_id"`
	PractitionerName string         `db:"practitioner_name"`
	CreatedAt        time.Time      `db:"created_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	ClientFirstName  sql.NullString `db:"client_first_name"`
	ClientLastName   sql.NullString `db:"client_last_name"`
}

func (r *diagnosticRow) diagnostic() (*domain.Diagnostic, error) {
	answers := answer.Answers{}
	if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers of diagnostic %s: %w", r.ID, err)
	}

	d := &domain.Diagnostic{
		ID:               r.ID,
		ClientID:         r.ClientID,
		Category:         catalog.Category(r.Category),
		Answers:          answers,
		Signature:        r.Signature,
		PractitionerID:   r.PractitionerID,
		PractitionerName: r.PractitionerName,
		CreatedAt:        r.CreatedAt.UTC(),
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time.UTC()
		d.CompletedAt = &t
	}
	return d, nil
}

func (r *diagnosticRow) withClient() (*domain.DiagnosticWithClient, error) {
	d, err := r.diagnostic()
	if err != nil {
		return nil, err
	}
	return &domain.DiagnosticWithClient{
		Diagnostic:      *d,
		ClientFirstName: r.ClientFirstName.String,
		ClientLastName:  r.ClientLastName.String,
	}, nil
}

const diagnosticColumns = `d.id, d.client_id, d.category, d.answers, d.signature, d.practitioner_id,
d.practitioner_name, d.created_at, d.completed_at, c.first_name AS client_first_name,
c.last_name AS client_last_name`

func (s *Store) CreateDiagnostic(ctx context.Context, d *domain.Diagnostic) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}

	answersJSON, err := encodeAnswers(d.Answers)
	if err != nil {
		return err
	}

	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = ?)`, d.ClientID); err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if !exists {
		return fmt.Errorf("client %s %w", d.ClientID, domain.ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO diagnostics (id, client_id, category, answers, signature, practitioner_id, practitioner_name, created_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ClientID, string(d.Category), answersJSON, d.Signature, d.PractitionerID, d.PractitionerName,
		d.CreatedAt.UTC(), nullTime(d.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create diagnostic: %w", err)
	}
	return nil
}

func (s *Store) GetDiagnostic(ctx context.Context, id string) (*domain.Diagnostic, error) {
	withClient, err := s.GetDiagnosticWithClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &withClient.Diagnostic, nil
}

func (s *Store) GetDiagnosticWithClient(ctx context.Context, id string) (*domain.DiagnosticWithClient, error) {
	var row diagnosticRow
	err := s.db.GetContext(ctx, &row, `SELECT `+diagnosticColumns+`
FROM diagnostics d LEFT JOIN clients c ON c.id = d.client_id
WHERE d.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("diagnostic %s %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic: %w", err)
	}
	return row.withClient()
}

func (s *Store) UpdateDiagnostic(ctx context.Context, id string, patch domain.DiagnosticPatch) (*domain.Diagnostic, error) {
	sets := []string{}
	args := []any{}

	if patch.Answers != nil {
		answersJSON, err := encodeAnswers(patch.Answers)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "answers = ?")
		args = append(args, answersJSON)
	}
	if patch.Signature != nil {
		sets = append(sets, "signature = ?")
		args = append(args, *patch.Signature)
	}
	if patch.CompletedAt != nil {
		sets = append(sets, "completed_at = ?")
		args = append(args, patch.CompletedAt.UTC())
	}

	if len(sets) > 0 {
		args = append(args, id)
		result, err := s.db.ExecContext(ctx,
			`UPDATE diagnostics SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update diagnostic: %w", err)
		}
		if err := requireRow(result, "diagnostic", id); err != nil {
			return nil, err
		}
	}

	return s.GetDiagnostic(ctx, id)
}

func (s *Store) DeleteDiagnostic(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM diagnostics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete diagnostic: %w", err)
	}
	return requireRow(result, "diagnostic", id)
}

func (s *Store) ListDiagnostics(ctx context.Context, filter domain.DiagnosticFilter) ([]*domain.DiagnosticWithClient, error) {
	query := `SELECT ` + diagnosticColumns + `
FROM diagnostics d LEFT JOIN clients c ON c.id = d.client_id
WHERE 1 = 1`
	args := []any{}
	if filter.ClientID != "" {
		query += ` AND d.client_id = ?`
		args = append(args, filter.ClientID)
	}
	if filter.Category != "" {
		query += ` AND d.category = ?`
		args = append(args, string(filter.Category))
	}
	query += ` ORDER BY d.created_at DESC, d.id`

	var rows []diagnosticRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}

	result := make([]*domain.DiagnosticWithClient, 0, len(rows))
	for i := range rows {
		d, err := rows[i].withClient()
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// Note operations

func (s *Store) GetNote(ctx context.Context, clientID string) (*domain.Note, error) {
	var n domain.Note
	err := s.db.GetContext(ctx, &n, `SELECT client_id, body, updated_at FROM notes WHERE client_id = ?`, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note for client %s %w", clientID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}

func (s *Store) PutNote(ctx context.Context, note *domain.Note) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = ?)`, note.ClientID); err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if !exists {
		return fmt.Errorf("client %s %w", note.ClientID, domain.ErrNotFound)
	}

	note.UpdatedAt = s.now()
	_, err := s.db.NamedExecContext(ctx, `
INSERT INTO notes (client_id, body, updated_at) VALUES (:client_id, :body, :updated_at)
ON CONFLICT(client_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`, note)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

func encodeAnswers(a answer.Answers) (string, error) {
	if a == nil {
		a = answer.Answers{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	return string(data), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
