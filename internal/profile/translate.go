// Package profile summarizes a client's diagnostic history into per-category
// profiles with display labels.
package profile

import (
	"maps"
	"strings"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

// DefaultFallback is shown for fields without a usable answer.
const DefaultFallback = "Non spécifié"

// defaultLabels maps raw answer codes to their French display label.
// Codes shared by several catalogs map to a single label.
var defaultLabels = map[string]string{
	// skin types
	"dry":         "Sèche",
	"oily":        "Grasse",
	"combination": "Mixte",
	"normal":      "Normale",
	"sensitive":   "Sensible",

	// skin issues
	"acne":        "Acné",
	"blackheads":  "Points noirs",
	"spots":       "Taches",
	"wrinkles":    "Rides",
	"dehydration": "Déshydratation",
	"redness":     "Rougeurs",
	"sensitivity": "Sensibilité",

	// dermatological conditions
	"eczema":    "Eczéma",
	"psoriasis": "Psoriasis",
	"rosacea":   "Rosacée",
	"none":      "Aucun",

	// allergies and actives
	"fragrances":     "Parfums",
	"alcohol":        "Alcool",
	"retinol":        "Rétinol",
	"acids":          "Acides",
	"vitamin-c":      "Vitamine C",
	"niacinamide":    "Niacinamide",
	"essential-oils": "Huiles essentielles",
	"peptides":       "Peptides",
	"bakuchiol":      "Bakuchiol",

	// last active use
	"yesterday": "Hier",
	"2-3-days":  "Il y a 2-3 jours",
	"week-plus": "Il y a plus d'une semaine",
	"never":     "Jamais",

	// aesthetic treatments
	"peeling":       "Peeling",
	"laser":         "Laser",
	"injections":    "Injections",
	"microneedling": "Microneedling",
	"led":           "LED",

	// goals
	"hydration":    "Hydratation",
	"purification": "Purification",
	"anti-aging":   "Anti-âge",
	"radiance":     "Éclat",
	"repair":       "Réparation",

	// water temperature
	"cool": "Fraîche",
	"warm": "Tiède",
	"hot":  "Chaude",

	// pressure
	"light":    "Légère",
	"medium":   "Moyenne",
	"firm":     "Ferme",
	"soft":     "Doux",
	"moderate": "Modéré",
	"deep":     "Profond",

	// body zones
	"shoulders": "Épaules",
	"back":      "Dos",
	"neck":      "Cou",
	"arms":      "Bras",
	"legs":      "Jambes",
	"feet":      "Pieds",
	"hands":     "Mains",
	"scalp":     "Cuir chevelu",
	"face":      "Visage",

	// massage objectives
	"relaxation":  "Relaxation",
	"therapeutic": "Thérapeutique",
	"sport":       "Sport",
	"prenatal":    "Prénatal",
	"recovery":    "Récupération",
	"anti-stress": "Anti-stress",
	"tonic":       "Tonique",
	"relaxing":    "Relaxant",

	// hair
	"straight": "Raides",
	"wavy":     "Ondulés",
	"curly":    "Bouclés",
	"coily":    "Crépus",

	// calming sounds
	"nature":       "Nature",
	"rain":         "Pluie",
	"ocean":        "Océan",
	"music":        "Musique",
	"silence":      "Silence",
	"waves":        "Vagues",
	"thunder":      "Orage",
	"stream":       "Ruisseau",
	"birds":        "Oiseaux",
	"lullaby":      "Berceuse",
	"summer-night": "Nuit d'été",
	"wind":         "Vent",

	// health
	"pregnant":         "Enceinte",
	"breastfeeding":    "Allaitement",
	"scalp-conditions": "Affections cutanées du cuir chevelu",
	"allergies":        "Allergies",

	// last care
	"last-week":  "La semaine dernière",
	"last-month": "Le mois dernier",
	"months-ago": "Il y a plusieurs mois",

	// effects
	"relaxed":        "Détendu(e)",
	"refreshed":      "Rafraîchi(e)",
	"tension-relief": "Soulagement des tensions",
	"better-sleep":   "Meilleur sommeil",
	"headache":       "Mal de tête",
	"dizziness":      "Vertiges",
	"discomfort":     "Inconfort",
}

// Translator turns raw answer codes into display labels.
type Translator struct {
	labels   map[string]string
	fallback string
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithFallback sets the label used for missing or empty values.
func WithFallback(label string) TranslatorOption {
	return func(t *Translator) {
		if label != "" {
			t.fallback = label
		}
	}
}

// WithLabels adds or overrides code labels.
func WithLabels(labels map[string]string) TranslatorOption {
	return func(t *Translator) { maps.Copy(t.labels, labels) }
}

// NewTranslator creates a translator seeded with the default French labels.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{labels: maps.Clone(defaultLabels), fallback: DefaultFallback}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fallback returns the label shown for missing values.
func (t *Translator) Fallback() string { return t.fallback }

// Translate returns the label for code. Unknown codes are returned unchanged.
func (t *Translator) Translate(code string) string {
	if label, ok := t.labels[code]; ok {
		return label
	}
	return code
}

// TranslateAll translates each code. It never returns nil.
func (t *Translator) TranslateAll(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = t.Translate(c)
	}
	return out
}

// Format renders an answer for display: booleans as Oui/Non, sets as a
// comma separated list, and the fallback for anything empty.
func (t *Translator) Format(v answer.Value) string {
	switch v.Type() {
	case answer.TypeBool:
		b, _ := v.Bool()
		if b {
			return "Oui"
		}
		return "Non"
	case answer.TypeSet:
		set, _ := v.Set()
		if len(set) == 0 {
			return t.fallback
		}
		return strings.Join(t.TranslateAll(set), ", ")
	case answer.TypeText:
		s, _ := v.Text()
		if out := strings.TrimSpace(t.Translate(s)); out != "" {
			return out
		}
		return t.fallback
	default:
		return t.fallback
	}
}

// HasRelevantInfo reports whether v is worth showing: a true boolean, a
// non-empty selection or non-blank text.
func HasRelevantInfo(v answer.Value) bool {
	switch v.Type() {
	case answer.TypeBool:
		b, _ := v.Bool()
		return b
	case answer.TypeUndefined:
		return false
	default:
		return !v.IsBlank()
	}
}
