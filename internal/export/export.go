// Package export renders a saved diagnostic as a printable document.
package export

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/profile"
)

// Format selects the document encoding.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// ParseFormat accepts "html", "md" or "markdown"; empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// Document is a rendered export.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces time.Now for the generation footer.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLocation sets the time zone dates are printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// Renderer turns diagnostics into Markdown and HTML.
type Renderer struct {
	registry   *catalog.Registry
	translator *profile.Translator
	md         goldmark.Markdown
	now        func() time.Time
	loc        *time.Location
}

func NewRenderer(registry *catalog.Registry, translator *profile.Translator, opts ...Option) *Renderer {
	r := &Renderer{
		registry:   registry,
		translator: translator,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the document for d in format f.
func (r *Renderer) Render(d *domain.Diagnostic, c *domain.Client, f Format) (*Document, error) {
	md, err := r.Markdown(d, c)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		FileName:    FileName(d, c, string(f)),
		ContentType: f.ContentType(),
	}
	switch f {
	case FormatMarkdown:
		doc.Body = []byte(md)
	case FormatHTML:
		body, err := r.HTML(md, fmt.Sprintf("Diagnostic %s", c.FullName()))
		if err != nil {
			return nil, err
		}
		doc.Body = body
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
	return doc, nil
}

// HTML wraps the rendered Markdown in a standalone printable page.
func (r *Renderer) HTML(md, title string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\"/>\n<title>")
	page.WriteString(htmlEscaper.Replace(title))
	page.WriteString("</title>\n<style>")
	page.WriteString(printStyle)
	page.WriteString("</style>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Markdown renders the header, client card, answers in catalog order,
// signature section and footer.
func (r *Renderer) Markdown(d *domain.Diagnostic, c *domain.Client) (string, error) {
	cat, err := r.registry.Get(d.Category)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Récapitulatif Diagnostic\n\n")
	fmt.Fprintf(&b, "**%s** • %s\n\n", escape(c.FullName()), escape(cat.Title))
	fmt.Fprintf(&b, "Réalisé le %s\n\n", r.longDate(d.CreatedAt))
	if d.PractitionerName != "" {
		fmt.Fprintf(&b, "Praticien : %s\n\n", escape(d.PractitionerName))
	}

	b.WriteString("## Informations client\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Email | %s |\n", cell(c.Email))
	fmt.Fprintf(&b, "| Téléphone | %s |\n", cell(c.Phone))
	fmt.Fprintf(&b, "| Date de naissance | %s |\n", cell(shortDateString(c.DateOfBirth)))
	fmt.Fprintf(&b, "| Client depuis | %s |\n\n", cell(r.shortDate(c.CreatedAt)))

	b.WriteString("## Réponses du diagnostic\n\n")
	rows := r.answerRows(cat, d.Answers)
	if len(rows) == 0 {
		b.WriteString("_Aucune réponse enregistrée._\n\n")
	} else {
		b.WriteString("| Question | Réponse |\n|---|---|\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(row[0]), cell(row[1]))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Signature du client\n\n")
	src, isImage := d.SignatureImage()
	switch {
	case isImage:
		fmt.Fprintf(&b, "![Signature](%s)\n\n", src)
		b.WriteString("✓ Signature validée\n\n")
	case d.Signature != "":
		b.WriteString("✓ Signature électronique présente\n\n")
		b.WriteString("Je certifie l'exactitude des informations\n\n")
	default:
		b.WriteString("Aucune signature fournie\n\n")
	}

	now := r.now().In(r.loc)
	fmt.Fprintf(&b, "---\n\nGénéré le %s à %s\n", r.shortDate(now), now.Format("15:04:05"))

	return b.String(), nil
}

// answerRows lists answered questions in catalog order, then answers whose
// question is no longer in the catalog, sorted by id. Undefined and blank
// answers are skipped; false toggles are kept.
func (r *Renderer) answerRows(cat *catalog.Catalog, answers answer.Answers) [][2]string {
	var rows [][2]string
	seen := make(map[string]bool, len(answers))
	for _, q := range cat.Questions {
		v, ok := answers.Get(q.ID)
		seen[q.ID] = true
		if !ok || v.IsBlank() {
			continue
		}
		rows = append(rows, [2]string{q.Prompt, r.display(q, v)})
	}

	var extra []string
	for id := range answers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		v := answers[id]
		if v.IsBlank() {
			continue
		}
		rows = append(rows, [2]string{id, r.translator.Format(v)})
	}
	return rows
}

// display prefers the catalog's option labels for choice answers.
func (r *Renderer) display(q catalog.Question, v answer.Value) string {
	if !q.IsChoice() {
		return r.translator.Format(v)
	}
	values, ok := v.Set()
	if !ok {
		s, _ := v.Text()
		values = []string{s}
	}
	labels := make([]string, 0, len(values))
	for _, value := range values {
		if o, ok := q.Option(value); ok && o.Label != "" {
			labels = append(labels, o.Label)
			continue
		}
		labels = append(labels, r.translator.Translate(value))
	}
	return strings.Join(labels, ", ")
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func (r *Renderer) longDate(t time.Time) string {
	t = t.In(r.loc)
	return fmt.Sprintf("%d %s %d à %s", t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Format("15:04"))
}

func (r *Renderer) shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format("02/01/2006")
}

func shortDateString(s string) string {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// FileName builds diagnostic_<last>_<first>_<category>_<YYYY-MM-DD>.<ext>.
func FileName(d *domain.Diagnostic, c *domain.Client, ext string) string {
	return fmt.Sprintf("diagnostic_%s_%s_%s_%s.%s",
		fileSafe(c.LastName), fileSafe(c.FirstName), d.Category, d.CreatedAt.UTC().Format(domain.DateLayout), ext)
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
}

var (
	mdEscaper   = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`, `<`, `&lt;`, `>`, `&gt;`, `#`, `\#`)
	htmlEscaper = strings.NewReplacer(`&`, `&amp;`, `<`, `&lt;`, `>`, `&gt;`, `"`, `&quot;`)
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// cell escapes a table cell and folds it onto one line.
func cell(s string) string {
	s = escape(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

const printStyle = `
body { font-family: Helvetica, Arial, sans-serif; color: #1F2937; max-width: 148mm; margin: 10mm auto; font-size: 10pt; }
h1 { background: #10B981; color: #fff; border-radius: 6px; padding: 8px 12px; font-size: 14pt; }
h2 { color: #047857; font-size: 11pt; border-bottom: 1px solid #E5E7EB; }
table { width: 100%; border-collapse: collapse; }
td, th { border-bottom: 1px solid #E5E7EB; padding: 4px; text-align: left; vertical-align: top; }
img { max-width: 100mm; max-height: 20mm; }
hr { border: 0; border-top: 1px solid #E5E7EB; }
@page { size: A5; }
`
