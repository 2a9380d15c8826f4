package profile

import (
	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
)

// MassageProfile is the display summary of the latest massage diagnostic.
type MassageProfile struct {
	BackProblems          bool     `json:"back_problems"`
	BackProblemsDetails   string   `json:"back_problems_details,omitempty"`
	Cardiovascular        bool     `json:"cardiovascular"`
	CardiovascularDetails string   `json:"cardiovascular_details,omitempty"`
	RecentSurgery         bool     `json:"recent_surgery"`
	SurgeryDetails        string   `json:"surgery_details,omitempty"`
	Pregnancy             bool     `json:"pregnancy"`
	PregnancyDetails      string   `json:"pregnancy_details,omitempty"`
	Medication            bool     `json:"medication"`
	MedicationDetails     string   `json:"medication_details,omitempty"`
	Allergies             bool     `json:"allergies"`
	AllergiesDetails      string   `json:"allergies_details,omitempty"`
	ZonesToFocus          []string `json:"zones_to_focus"`
	ZonesToAvoid          []string `json:"zones_to_avoid"`
	PreferredPressure     string   `json:"preferred_pressure"`
	Objective             string   `json:"objective"`
}

// SkincareProfile is the display summary of the latest skincare diagnostic.
type SkincareProfile struct {
	SkinType                 string   `json:"skin_type"`
	CurrentIssues            []string `json:"current_issues"`
	DermatologicalConditions []string `json:"dermatological_conditions"`
	Allergies                []string `json:"allergies"`
	CurrentActives           []string `json:"current_actives"`
	RecentTreatments         []string `json:"recent_treatments"`
	PrimaryGoals             []string `json:"primary_goals"`
	ExtractionPressure       string   `json:"extraction_pressure"`
	WaterTemperature         string   `json:"water_temperature"`
	LastFacial               string   `json:"last_facial"`
}

// HeadSpaProfile is the display summary of the latest head spa diagnostic.
type HeadSpaProfile struct {
	HealthConditions   []string `json:"health_conditions"`
	HairType           string   `json:"hair_type"`
	LastShampoo        string   `json:"last_shampoo"`
	MassagePreference  string   `json:"massage_preference"`
	PressurePreference string   `json:"pressure_preference"`
	WaterTemperature   string   `json:"water_temperature"`
	HadHeadSpaBefore   bool     `json:"had_headspa_before"`
	PositiveEffects    string   `json:"positive_effects,omitempty"`
	NegativeEffects    string   `json:"negative_effects,omitempty"`
	FaceSkinType       string   `json:"face_skin_type"`
	CalmingSounds      []string `json:"calming_sounds"`
}

// ClientSnapshot holds the latest profile of each category, nil when the
// client has no diagnostic of that category.
type ClientSnapshot struct {
	Massage  *MassageProfile  `json:"massage"`
	Skincare *SkincareProfile `json:"skincare"`
	HeadSpa  *HeadSpaProfile  `json:"headspa"`
}

// Latest returns the most recent diagnostic of category c. When several
// share the latest creation time the one appearing first in history wins.
// The history slice is not reordered.
func Latest(history []*domain.Diagnostic, c catalog.Category) *domain.Diagnostic {
	var latest *domain.Diagnostic
	for _, d := range history {
		if d == nil || d.Category != c {
			continue
		}
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}
	return latest
}

// Snapshot derives every category profile from history.
func (t *Translator) Snapshot(history []*domain.Diagnostic) ClientSnapshot {
	return ClientSnapshot{
		Massage:  t.DeriveMassage(history),
		Skincare: t.DeriveSkincare(history),
		HeadSpa:  t.DeriveHeadSpa(history),
	}
}

// Derive returns the typed profile of category c, or nil.
func (t *Translator) Derive(history []*domain.Diagnostic, c catalog.Category) any {
	switch c {
	case catalog.CategoryMassage:
		if p := t.DeriveMassage(history); p != nil {
			return p
		}
	case catalog.CategorySkincare:
		if p := t.DeriveSkincare(history); p != nil {
			return p
		}
	case catalog.CategoryHeadSpa:
		if p := t.DeriveHeadSpa(history); p != nil {
			return p
		}
	}
	return nil
}

// DeriveMassage projects the latest massage diagnostic.
func (t *Translator) DeriveMassage(history []*domain.Diagnostic) *MassageProfile {
	d := Latest(history, catalog.CategoryMassage)
	if d == nil {
		return nil
	}
	a := d.Answers
	return &MassageProfile{
		BackProblems:          flag(a, "has_back_problems"),
		BackProblemsDetails:   text(a, "back_problems_details"),
		Cardiovascular:        flag(a, "has_cardiovascular"),
		CardiovascularDetails: text(a, "cardiovascular_details"),
		RecentSurgery:         flag(a, "has_recent_surgery"),
		SurgeryDetails:        text(a, "surgery_details"),
		Pregnancy:             flag(a, "is_pregnant"),
		PregnancyDetails:      text(a, "pregnancy_details"),
		Medication:            flag(a, "has_medication"),
		MedicationDetails:     text(a, "medication_details"),
		Allergies:             flag(a, "has_allergies"),
		AllergiesDetails:      text(a, "allergies_details"),
		ZonesToFocus:          t.list(a, "zones_to_focus"),
		ZonesToAvoid:          t.list(a, "zones_to_avoid"),
		PreferredPressure:     t.label(a, "preferred_pressure"),
		Objective:             t.label(a, "objective"),
	}
}

// DeriveSkincare projects the latest skincare diagnostic.
func (t *Translator) DeriveSkincare(history []*domain.Diagnostic) *SkincareProfile {
	d := Latest(history, catalog.CategorySkincare)
	if d == nil {
		return nil
	}
	a := d.Answers

	conditions := []string{}
	if code := text(a, "dermatological_conditions"); code != "" && code != "none" {
		conditions = append(conditions, t.Translate(code))
	}

	return &SkincareProfile{
		SkinType:                 t.label(a, "skin_type"),
		CurrentIssues:            t.list(a, "current_issues"),
		DermatologicalConditions: conditions,
		Allergies:                t.list(a, "known_allergies"),
		CurrentActives:           t.list(a, "current_actives"),
		RecentTreatments:         t.list(a, "recent_treatments"),
		PrimaryGoals:             t.list(a, "primary_goals"),
		ExtractionPressure:       t.label(a, "extraction_pressure"),
		WaterTemperature:         t.label(a, "water_temperature"),
		LastFacial:               t.label(a, "last_facial"),
	}
}

// DeriveHeadSpa projects the latest head spa diagnostic.
func (t *Translator) DeriveHeadSpa(history []*domain.Diagnostic) *HeadSpaProfile {
	d := Latest(history, catalog.CategoryHeadSpa)
	if d == nil {
		return nil
	}
	a := d.Answers
	return &HeadSpaProfile{
		HealthConditions:   t.list(a, "health_conditions"),
		HairType:           t.label(a, "hair_type"),
		LastShampoo:        t.label(a, "last_shampoo"),
		MassagePreference:  t.label(a, "massage_preference"),
		PressurePreference: t.label(a, "pressure_preference"),
		WaterTemperature:   t.label(a, "water_temperature"),
		HadHeadSpaBefore:   flag(a, "had_headspa_before"),
		PositiveEffects:    t.Translate(text(a, "positive_effects")),
		NegativeEffects:    t.Translate(text(a, "negative_effects")),
		FaceSkinType:       t.label(a, "face_skin_type"),
		CalmingSounds:      t.list(a, "calming_sounds"),
	}
}

func flag(a answer.Answers, id string) bool {
	v, ok := a.Get(id)
	if !ok {
		return false
	}
	b, _ := v.Bool()
	return b
}

func text(a answer.Answers, id string) string {
	v, ok := a.Get(id)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

// label translates a single-value answer, falling back when it is missing
// or empty.
func (t *Translator) label(a answer.Answers, id string) string {
	if s := t.Translate(text(a, id)); s != "" {
		return s
	}
	return t.fallback
}

// list translates a multi-value answer; a missing answer is an empty list.
func (t *Translator) list(a answer.Answers, id string) []string {
	v, ok := a.Get(id)
	if !ok {
		return []string{}
	}
	set, ok := v.Set()
	if !ok {
		return []string{}
	}
	return t.TranslateAll(set)
}
