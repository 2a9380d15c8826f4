package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

func validInput() ClientInput {
	return ClientInput{
		FirstName:   "Claire",
		LastName:    "Martin",
		DateOfBirth: "1988-04-12",
		Phone:       "06 12 34 56 78",
		Email:       "claire.martin@example.fr",
	}
}

func TestClientInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientInput)
		want   FieldErrors
	}{
		{
			name:   "valid",
			mutate: func(*ClientInput) {},
			want:   FieldErrors{},
		},
		{
			name: "all missing",
			mutate: func(in *ClientInput) {
				*in = ClientInput{}
			},
			want: FieldErrors{
				"first_name":    "Prénom requis",
				"last_name":     "Nom requis",
				"date_of_birth": "Date de naissance requise",
				"phone":         "Téléphone requis",
				"email":         "Email requis",
			},
		},
		{
			name:   "blank first name",
			mutate: func(in *ClientInput) { in.FirstName = "   " },
			want:   FieldErrors{"first_name": "Prénom requis"},
		},
		{
			name:   "email without domain dot",
			mutate: func(in *ClientInput) { in.Email = "claire@example" },
			want:   FieldErrors{"email": "Email invalide"},
		},
		{
			name:   "email with space",
			mutate: func(in *ClientInput) { in.Email = "claire martin@example.fr" },
			want:   FieldErrors{"email": "Email invalide"},
		},
		{
			name:   "date in french order",
			mutate: func(in *ClientInput) { in.DateOfBirth = "12/04/1988" },
			want:   FieldErrors{"date_of_birth": "Date de naissance invalide"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			got := in.Validate()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClientInput_Normalize(t *testing.T) {
	in := ClientInput{FirstName: "  Claire ", Email: " c@x.fr\n"}
	in.Normalize()
	if in.FirstName != "Claire" || in.Email != "c@x.fr" {
		t.Errorf("Normalize() = %+v", in)
	}
}

func TestClientPatch(t *testing.T) {
	phone := "07 00 00 00 00"
	empty := ""
	badEmail := "nope"

	if errs := (ClientPatch{Phone: &phone}).Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
	errs := (ClientPatch{LastName: &empty, Email: &badEmail}).Validate()
	if errs["last_name"] != "Nom requis" || errs["email"] != "Email invalide" {
		t.Errorf("Validate() = %v", errs)
	}

	c := &Client{FirstName: "Claire", Phone: "06"}
	ClientPatch{Phone: &phone}.Apply(c)
	if c.Phone != phone || c.FirstName != "Claire" {
		t.Errorf("Apply() = %+v", c)
	}

	if !(ClientPatch{}).IsEmpty() {
		t.Error("IsEmpty() = false for zero patch")
	}
}

func TestClient_FullName(t *testing.T) {
	c := &Client{FirstName: "Claire", LastName: "Martin"}
	if got := c.FullName(); got != "Claire Martin" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestDiagnostic_CloneAndPatch(t *testing.T) {
	done := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := &Diagnostic{
		ID:          "d1",
		Answers:     answer.Answers{"has_allergies": answer.Bool(true)},
		CompletedAt: &done,
	}

	c := d.Clone()
	c.Answers["has_allergies"] = answer.Bool(false)
	*c.CompletedAt = done.Add(time.Hour)
	if v, _ := d.Answers["has_allergies"].Bool(); !v {
		t.Error("Clone() shares the answers map")
	}
	if !d.CompletedAt.Equal(done) {
		t.Error("Clone() shares the completion time")
	}

	sig := "data:image/png;base64,AAAA"
	DiagnosticPatch{Signature: &sig, Answers: answer.Answers{"x": answer.Text("y")}}.Apply(d)
	if !d.Signed() {
		t.Error("Signed() = false after patching a signature")
	}
	if _, ok := d.Answers["has_allergies"]; ok {
		t.Error("patched answers should replace the whole record")
	}
}

func TestDiagnostic_SignatureImage(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{"png", "data:image/png;base64,iVBORw0KGgo=", true},
		{"jpeg", "data:image/jpeg;base64,/9j/4AAQ", true},
		{"opaque token", "sig-token", false},
		{"empty", "", false},
		{"svg", "data:image/svg+xml;base64,PHN2Zz4=", false},
		{"markdown breakout", "data:image/png;base64,AA)\n\n## Réponses du diagnostic\n\n(", false},
		{"trailing newline", "data:image/png;base64,AAAA\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Diagnostic{Signature: tt.signature}
			src, ok := d.SignatureImage()
			if ok != tt.want {
				t.Fatalf("SignatureImage() ok = %v, want %v", ok, tt.want)
			}
			if ok && src != tt.signature {
				t.Errorf("SignatureImage() = %q", src)
			}
		})
	}
}
