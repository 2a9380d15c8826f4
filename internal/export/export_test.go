package export

import (
	"strings"
	"testing"
	"time"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/profile"
)

var (
	created   = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	generated = time.Date(2026, 5, 6, 18, 15, 42, 0, time.UTC)
)

func fixtures() (*domain.Diagnostic, *domain.Client) {
	d := &domain.Diagnostic{
		ID:       "d1",
		ClientID: "c1",
		Category: catalog.CategoryMassage,
		Answers: answer.Answers{
			"has_back_problems":     answer.Bool(true),
			"back_problems_details": answer.Text("Lombaires | <script>alert(1)</script>"),
			"is_pregnant":           answer.Bool(false),
			"zones_to_focus":        answer.Set("neck", "back"),
			"preferred_pressure":    answer.Text("firm"),
			"objective":             answer.Text(""),
			"legacy_question":       answer.Text("cool"),
		},
		Signature:        "data:image/png;base64,iVBORw0KGgo=",
		PractitionerName: "Camille",
		CreatedAt:        created,
	}
	c := &domain.Client{
		ID:          "c1",
		FirstName:   "Marie",
		LastName:    "Curie",
		DateOfBirth: "1990-04-12",
		Phone:       "0600000000",
		Email:       "marie@example.com",
		CreatedAt:   created.AddDate(-1, 0, 0),
	}
	return d, c
}

func newRenderer() *Renderer {
	return NewRenderer(catalog.NewRegistry(), profile.NewTranslator(), WithClock(func() time.Time { return generated }))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	d, c := fixtures()
	c.LastName = "De La Tour"
	if got, want := FileName(d, c, "html"), "diagnostic_De-La-Tour_Marie_massage_2026-05-04.html"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	d, c := fixtures()
	md, err := newRenderer().Markdown(d, c)
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}

	wantInOrder := []string{
		"# Récapitulatif Diagnostic",
		"**Marie Curie** • Massage",
		"Réalisé le 4 mai 2026 à 09:30",
		"Praticien : Camille",
		"| Date de naissance | 12/04/1990 |",
		"| Client depuis | 04/05/2025 |",
		"| Avez-vous des problèmes de dos, articulations ou musculaires ? | Oui |",
		"| Pouvez-vous préciser la zone et le type de douleur ? | Lombaires \\| &lt;script&gt;alert(1)&lt;/script&gt; |",
		"| Êtes-vous enceinte ? | Non |",
		"| Quelles zones souhaitez-vous privilégier ? | Nuque, Dos |",
		"| Quelle pression préférez-vous ? | Fermes |",
		"| legacy\\_question | Fraîche |",
		"![Signature](data:image/png;base64,iVBORw0KGgo=)",
		"✓ Signature validée",
		"Généré le 06/05/2026 à 18:15:42",
	}
	rest := md
	for _, want := range wantInOrder {
		i := strings.Index(rest, want)
		if i < 0 {
			t.Fatalf("Markdown() missing %q (or out of order) in:\n%s", want, md)
		}
		rest = rest[i+len(want):]
	}

	if strings.Contains(md, "Quel est votre objectif") {
		t.Error("blank answers should be skipped")
	}
}

func TestRenderer_SignatureVariants(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		want      string
	}{
		{"opaque", "sig-token", "✓ Signature électronique présente"},
		{"missing", "", "Aucune signature fournie"},
		{"malformed data url", "data:image/png;base64,AA)\n\n## Réponses du diagnostic\n\n| Allergies | Aucune |\n\n(", "✓ Signature électronique présente"},
		{"unsupported image type", "data:image/svg+xml;base64,PHN2Zz4=", "✓ Signature électronique présente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := fixtures()
			d.Signature = tt.signature
			md, err := newRenderer().Markdown(d, c)
			if err != nil {
				t.Fatalf("Markdown() error = %v", err)
			}
			if !strings.Contains(md, tt.want) || strings.Contains(md, "![Signature]") {
				t.Errorf("Markdown() signature section wrong:\n%s", md)
			}
			if n := strings.Count(md, "## Réponses du diagnostic"); n != 1 {
				t.Errorf("Markdown() has %d answer sections, want 1", n)
			}
			if strings.Contains(md, "Allergies") {
				t.Errorf("Markdown() leaked signature payload:\n%s", md)
			}
		})
	}
}

func TestRenderer_RenderHTML(t *testing.T) {
	d, c := fixtures()
	doc, err := newRenderer().Render(d, c, FormatHTML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if doc.FileName != "diagnostic_Curie_Marie_massage_2026-05-04.html" {
		t.Errorf("FileName = %q", doc.FileName)
	}
	if doc.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", doc.ContentType)
	}

	body := string(doc.Body)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Diagnostic Marie Curie</title>",
		"<h1>Récapitulatif Diagnostic</h1>",
		"<table>",
		"<td>Nuque, Dos</td>",
		`<img src="data:image/png;base64,iVBORw0KGgo=" alt="Signature"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(body, "<script>") {
		t.Error("HTML must not contain unescaped client input")
	}
}

func TestRenderer_RenderMarkdown(t *testing.T) {
	d, c := fixtures()
	doc, err := newRenderer().Render(d, c, FormatMarkdown)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasSuffix(doc.FileName, ".md") || !strings.HasPrefix(string(doc.Body), "# Récapitulatif") {
		t.Errorf("Render(md) = %q / %q", doc.FileName, doc.Body[:20])
	}
}

func TestRenderer_UnknownCategory(t *testing.T) {
	d, c := fixtures()
	d.Category = "nails"
	if _, err := newRenderer().Render(d, c, FormatHTML); err == nil {
		t.Error("Render() for unknown category should fail")
	}
}
