package domain

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format of a client's date of birth.
const DateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Client is a salon customer.
type Client struct {
	ID          string    `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	DateOfBirth string    `json:"date_of_birth" db:"date_of_birth"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns "First Last".
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ClientInput holds the fields of the client creation form.
type ClientInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// Normalize trims surrounding whitespace from every field.
func (in *ClientInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
}

// Validate reports every invalid field. All fields are required.
func (in ClientInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("first_name", "Prénom requis")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("last_name", "Nom requis")
	}
	validateDateOfBirth(errs, in.DateOfBirth)
	if strings.TrimSpace(in.Phone) == "" {
		errs.Add("phone", "Téléphone requis")
	}
	validateEmail(errs, in.Email)
	return errs
}

// ClientPatch is a partial client update; nil fields are left unchanged.
type ClientPatch struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// Validate checks the fields present in the patch with the creation rules.
func (p ClientPatch) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		errs.Add("first_name", "Prénom requis")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		errs.Add("last_name", "Nom requis")
	}
	if p.DateOfBirth != nil {
		validateDateOfBirth(errs, *p.DateOfBirth)
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		errs.Add("phone", "Téléphone requis")
	}
	if p.Email != nil {
		validateEmail(errs, *p.Email)
	}
	return errs
}

// Apply copies the patch onto c.
func (p ClientPatch) Apply(c *Client) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.FirstName, p.FirstName)
	set(&c.LastName, p.LastName)
	set(&c.DateOfBirth, p.DateOfBirth)
	set(&c.Phone, p.Phone)
	set(&c.Email, p.Email)
}

// IsEmpty reports whether the patch changes nothing.
func (p ClientPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DateOfBirth == nil && p.Phone == nil && p.Email == nil
}

func validateDateOfBirth(errs FieldErrors, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs.Add("date_of_birth", "Date de naissance requise")
		return
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		errs.Add("date_of_birth", "Date de naissance invalide")
	}
}

func validateEmail(errs FieldErrors, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		errs.Add("email", "Email requis")
	case !emailPattern.MatchString(v):
		errs.Add("email", "Email invalide")
	}
}

// ValidEmail reports whether v looks like an email address.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(strings.TrimSpace(v))
}
