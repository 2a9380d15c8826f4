package profile

import (
	"testing"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

func TestTranslator_Translate(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		code string
		want string
	}{
		{"dry", "Sèche"},
		{"none", "Aucun"},
		{"neck", "Cou"},
		{"week-plus", "Il y a plus d'une semaine"},
		{"unknown-code", "unknown-code"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := tr.Translate(tt.code); got != tt.want {
				t.Errorf("Translate(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestTranslator_WithLabels(t *testing.T) {
	tr := NewTranslator(WithLabels(map[string]string{"dry": "Déshydratée", "tan": "Bronzage"}))
	if got := tr.Translate("dry"); got != "Déshydratée" {
		t.Errorf("Translate(dry) = %q", got)
	}
	if got := tr.Translate("tan"); got != "Bronzage" {
		t.Errorf("Translate(tan) = %q", got)
	}

	// Overrides never leak into other translators.
	if got := NewTranslator().Translate("dry"); got != "Sèche" {
		t.Errorf("default Translate(dry) = %q", got)
	}
}

func TestTranslator_Format(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		name string
		v    answer.Value
		want string
	}{
		{"undefined", answer.Value{}, "Non spécifié"},
		{"true", answer.Bool(true), "Oui"},
		{"false", answer.Bool(false), "Non"},
		{"set", answer.Set("acne", "redness"), "Acné, Rougeurs"},
		{"empty set", answer.Set(), "Non spécifié"},
		{"code", answer.Text("cool"), "Fraîche"},
		{"free text", answer.Text("  Il y a 3 mois "), "Il y a 3 mois"},
		{"blank text", answer.Text("   "), "Non spécifié"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Format(tt.v); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}

	custom := NewTranslator(WithFallback("n/a"))
	if got := custom.Format(answer.Value{}); got != "n/a" {
		t.Errorf("Format() with custom fallback = %q", got)
	}
	if got := NewTranslator(WithFallback("")).Fallback(); got != DefaultFallback {
		t.Errorf("empty fallback option should keep the default, got %q", got)
	}
}

func TestHasRelevantInfo(t *testing.T) {
	tests := []struct {
		name string
		v    answer.Value
		want bool
	}{
		{"undefined", answer.Value{}, false},
		{"true", answer.Bool(true), true},
		{"false", answer.Bool(false), false},
		{"empty set", answer.Set(), false},
		{"set", answer.Set("a"), true},
		{"blank text", answer.Text(" "), false},
		{"text", answer.Text("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRelevantInfo(tt.v); got != tt.want {
				t.Errorf("HasRelevantInfo() = %v, want %v", got, tt.want)
			}
		})
	}
}
