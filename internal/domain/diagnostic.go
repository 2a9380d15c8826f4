package domain

import (
	"regexp"
	"time"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
)

// Diagnostic is a saved, signed questionnaire.
type Diagnostic struct {
	ID               string           `json:"id"`
	ClientID         string           `json:"client_id"`
	Category         catalog.Category `json:"category"`
	Answers          answer.Answers   `json:"answers"`
	Signature        string           `json:"signature,omitempty"`
	PractitionerID   string           `json:"practitioner_id,omitempty"`
	PractitionerName string           `json:"practitioner_name,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
}

// Signed reports whether a signature payload is attached.
func (d *Diagnostic) Signed() bool {
	return d.Signature != ""
}

var signatureImagePattern = regexp.MustCompile(`^data:image/(png|jpeg);base64,[A-Za-z0-9+/]+={0,2}$`)

// SignatureImage returns the signature as an embeddable image data URL. Any
// other payload only counts as present.
func (d *Diagnostic) SignatureImage() (string, bool) {
	if !signatureImagePattern.MatchString(d.Signature) {
		return "", false
	}
	return d.Signature, true
}

// Clone returns a copy that shares nothing mutable with d.
func (d *Diagnostic) Clone() *Diagnostic {
	out := *d
	out.Answers = d.Answers.Clone()
	if d.CompletedAt != nil {
		t := *d.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// DiagnosticWithClient is a diagnostic joined with its client's name.
type DiagnosticWithClient struct {
	Diagnostic
	ClientFirstName string `json:"client_first_name"`
	ClientLastName  string `json:"client_last_name"`
}

// DiagnosticPatch is a partial diagnostic update; nil fields are left unchanged.
type DiagnosticPatch struct {
	Answers     answer.Answers `json:"answers,omitempty"`
	Signature   *string        `json:"signature,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Apply copies the patch onto d. Answers replace the whole record.
func (p DiagnosticPatch) Apply(d *Diagnostic) {
	if p.Answers != nil {
		d.Answers = p.Answers.Clone()
	}
	if p.Signature != nil {
		d.Signature = *p.Signature
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		d.CompletedAt = &t
	}
}

// DiagnosticFilter narrows a diagnostic listing.
type DiagnosticFilter struct {
	ClientID string
	Category catalog.Category
}

// Note is the free-form practitioner note attached to a client.
type Note struct {
	ClientID  string    `json:"client_id" db:"client_id"`
	Body      string    `json:"body" db:"body"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
