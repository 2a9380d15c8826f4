package catalog

import (
	"fmt"

	"github.com/tjfontaine/salon-intake/internal/answer"
)

// Builtin returns a fresh copy of the built-in catalog for c.
func Builtin(c Category) (*Catalog, error) {
	switch c {
	case CategoryMassage:
		return massageCatalog().Clone(), nil
	case CategorySkincare:
		return skincareCatalog().Clone(), nil
	case CategoryHeadSpa:
		return headspaCatalog().Clone(), nil
	default:
		return nil, fmt.Errorf("no built-in catalog for category %q", c)
	}
}

func when(dependsOn string, match answer.Value) *Visibility {
	return &Visibility{DependsOn: dependsOn, Match: match}
}

var bodyZones = []Option{
	{Value: "back", Label: "Dos"},
	{Value: "neck", Label: "Nuque"},
	{Value: "shoulders", Label: "Épaules"},
	{Value: "legs", Label: "Jambes"},
	{Value: "feet", Label: "Pieds"},
	{Value: "hands", Label: "Mains"},
	{Value: "other", Label: "Autre"},
}

var pressureLevels = []Option{
	{Value: "soft", Label: "Douces", Icon: "🌸"},
	{Value: "moderate", Label: "Modérées", Icon: "🌿"},
	{Value: "firm", Label: "Fermes", Icon: "💪"},
}

var waterTemperatures = []Option{
	{Value: "cool", Label: "Fraîche", Icon: "❄️"},
	{Value: "warm", Label: "Tiède", Icon: "🌡️"},
	{Value: "hot", Label: "Chaude", Icon: "🔥"},
}

var hairTypes = []Option{
	{Value: "dry", Label: "Sec", Icon: "💧"},
	{Value: "oily", Label: "Gras", Icon: "✨"},
	{Value: "combination", Label: "Mixte", Icon: "⚖️"},
	{Value: "normal", Label: "Normal", Icon: "🌸"},
}

var faceSkinTypes = []Option{
	{Value: "dry", Label: "Sèche", Icon: "💧"},
	{Value: "oily", Label: "Grasse", Icon: "✨"},
	{Value: "combination", Label: "Mixte", Icon: "⚖️"},
	{Value: "normal", Label: "Normale", Icon: "🌸"},
}

func massageCatalog() *Catalog {
	return &Catalog{
		Category: CategoryMassage,
		Title:    "Massage",
		Questions: []Question{
			{ID: "has_back_problems", Kind: KindToggle, Prompt: "Avez-vous des problèmes de dos, articulations ou musculaires ?"},
			{
				ID: "back_problems_details", Kind: KindTextarea,
				Prompt:      "Pouvez-vous préciser la zone et le type de douleur ?",
				Placeholder: "Précisez la zone et le type de douleur...",
				Visibility:  when("has_back_problems", answer.Bool(true)),
			},
			{ID: "has_cardiovascular", Kind: KindToggle, Prompt: "Souffrez-vous de maladies cardiovasculaires (hypertension, troubles circulatoires, varices) ?"},
			{
				ID: "cardiovascular_details", Kind: KindTextarea,
				Prompt:      "Pouvez-vous préciser votre condition ?",
				Placeholder: "Précisez votre condition...",
				Visibility:  when("has_cardiovascular", answer.Bool(true)),
			},
			{ID: "has_recent_surgery", Kind: KindToggle, Prompt: "Avez-vous eu une opération récente ?"},
			{
				ID: "surgery_details", Kind: KindTextarea,
				Prompt:      "Quelle opération et quand ?",
				Placeholder: "Quelle opération et quand ?",
				Visibility:  when("has_recent_surgery", answer.Bool(true)),
			},
			{ID: "is_pregnant", Kind: KindToggle, Prompt: "Êtes-vous enceinte ?"},
			{
				ID: "pregnancy_details", Kind: KindTextarea,
				Prompt:      "À quel mois de grossesse êtes-vous ?",
				Placeholder: "À quel mois de grossesse êtes-vous ?",
				Visibility:  when("is_pregnant", answer.Bool(true)),
			},
			{ID: "has_medication", Kind: KindToggle, Prompt: "Prenez-vous un traitement médical ?"},
			{
				ID: "medication_details", Kind: KindTextarea,
				Prompt:      "Quel traitement ?",
				Placeholder: "Quel traitement ?",
				Visibility:  when("has_medication", answer.Bool(true)),
			},
			{ID: "has_allergies", Kind: KindToggle, Prompt: "Avez-vous des allergies cutanées ou respiratoires (huiles essentielles, produits de massage) ?"},
			{
				ID: "allergies_details", Kind: KindTextarea,
				Prompt:      "À quoi êtes-vous allergique ?",
				Placeholder: "À quoi êtes-vous allergique ?",
				Visibility:  when("has_allergies", answer.Bool(true)),
			},
			{ID: "zones_to_focus", Kind: KindChips, Prompt: "Quelles zones souhaitez-vous privilégier ?", Options: bodyZones, AllowMultiple: true},
			{ID: "zones_to_avoid", Kind: KindChips, Prompt: "Y a-t-il des zones à éviter ?", Options: bodyZones, AllowMultiple: true},
			{ID: "preferred_pressure", Kind: KindCards, Prompt: "Quelle pression préférez-vous ?", Options: pressureLevels},
			{
				ID: "objective", Kind: KindCards, Prompt: "Quel est votre objectif recherché ?",
				Options: []Option{
					{Value: "relaxation", Label: "Détente", Icon: "🧘"},
					{Value: "recovery", Label: "Récupération", Icon: "🏃"},
					{Value: "anti-stress", Label: "Anti-stress", Icon: "😌"},
				},
			},
		},
	}
}

func skincareCatalog() *Catalog {
	return &Catalog{
		Category: CategorySkincare,
		Title:    "Soin du visage",
		Questions: []Question{
			{
				ID: "skin_type", Kind: KindCards, Prompt: "Quel est ton type de peau ?",
				Options: []Option{
					{Value: "dry", Label: "Sèche", Icon: "💧"},
					{Value: "oily", Label: "Grasse", Icon: "✨"},
					{Value: "normal", Label: "Normale", Icon: "🌸"},
					{Value: "combination", Label: "Mixte", Icon: "⚖️"},
				},
			},
			{
				ID: "current_issues", Kind: KindChips, Prompt: "Quels problèmes cutanés rencontres-tu actuellement ?", AllowMultiple: true,
				Options: []Option{
					{Value: "acne", Label: "Acné"},
					{Value: "blackheads", Label: "Points noirs"},
					{Value: "spots", Label: "Taches"},
					{Value: "wrinkles", Label: "Rides"},
					{Value: "dehydration", Label: "Déshydratation"},
					{Value: "redness", Label: "Rougeurs"},
					{Value: "sensitivity", Label: "Sensibilité"},
					{Value: "other", Label: "Autre"},
				},
			},
			{
				ID: "dermatological_conditions", Kind: KindChips, Prompt: "As-tu des pathologies dermatologiques ?",
				Options: []Option{
					{Value: "eczema", Label: "Eczéma"},
					{Value: "psoriasis", Label: "Psoriasis"},
					{Value: "rosacea", Label: "Rosacée"},
					{Value: "none", Label: "Aucune"},
					{Value: "other", Label: "Autre"},
				},
			},
			{
				ID: "known_allergies", Kind: KindChips, Prompt: "As-tu des allergies connues ?", AllowMultiple: true,
				Options: []Option{
					{Value: "fragrances", Label: "Parfums"},
					{Value: "alcohol", Label: "Alcool"},
					{Value: "retinol", Label: "Rétinol"},
					{Value: "acids", Label: "Acides"},
					{Value: "vitamin-c", Label: "Vitamine C"},
					{Value: "niacinamide", Label: "Niacinamide"},
					{Value: "essential-oils", Label: "Huiles essentielles"},
					{Value: "other", Label: "Autre"},
				},
			},
			{
				ID: "current_actives", Kind: KindChips, Prompt: "Quels actifs cosmétiques utilises-tu actuellement ?", AllowMultiple: true,
				Options: []Option{
					{Value: "acids", Label: "Acides (AHA/BHA)"},
					{Value: "retinol", Label: "Rétinol"},
					{Value: "vitamin-c", Label: "Vitamine C"},
					{Value: "niacinamide", Label: "Niacinamide"},
					{Value: "peptides", Label: "Peptides"},
					{Value: "bakuchiol", Label: "Bakuchiol"},
					{Value: "none", Label: "Aucun"},
					{Value: "other", Label: "Autre"},
				},
			},
			{
				ID: "last_active_use", Kind: KindCards, Prompt: "Quand as-tu utilisé des actifs pour la dernière fois ?",
				Options: []Option{
					{Value: "yesterday", Label: "Hier"},
					{Value: "2-3-days", Label: "Il y a 2-3 jours"},
					{Value: "week-plus", Label: "Il y a plus d'une semaine"},
					{Value: "never", Label: "Jamais"},
				},
			},
			{
				ID: "recent_treatments", Kind: KindChips, Prompt: "As-tu eu des traitements esthétiques récents (moins de 3 mois) ?", AllowMultiple: true,
				Options: []Option{
					{Value: "peeling", Label: "Peeling"},
					{Value: "laser", Label: "Laser"},
					{Value: "injections", Label: "Injections"},
					{Value: "microneedling", Label: "Microneedling"},
					{Value: "led", Label: "LED"},
					{Value: "none", Label: "Aucun"},
					{Value: "other", Label: "Autre"},
				},
			},
			{
				ID: "primary_goals", Kind: KindCards, Prompt: "Quels sont tes objectifs prioritaires ? (2 choix maximum)",
				AllowMultiple: true, MaxSelections: 2,
				Options: []Option{
					{Value: "hydration", Label: "Hydratation", Icon: "💧"},
					{Value: "purification", Label: "Purification", Icon: "🧼"},
					{Value: "anti-aging", Label: "Anti-âge", Icon: "⏳"},
					{Value: "radiance", Label: "Éclat", Icon: "✨"},
					{Value: "repair", Label: "Réparation", Icon: "🩹"},
				},
			},
			{ID: "extraction_pressure", Kind: KindCards, Prompt: "Pour les extractions, quelle pression préfères-tu ?", Options: pressureLevels},
			{ID: "water_temperature", Kind: KindCards, Prompt: "Quelle température d'eau préfères-tu ?", Options: waterTemperatures},
			{ID: "last_facial", Kind: KindText, Prompt: "À quand remonte ton dernier soin du visage ?", Placeholder: "Ex: Il y a 3 mois"},
		},
	}
}

func headspaCatalog() *Catalog {
	return &Catalog{
		Category: CategoryHeadSpa,
		Title:    "Head Spa",
		Questions: []Question{
			{
				ID: "health_conditions", Kind: KindChips, Prompt: "As-tu des éléments de santé à mentionner ?", AllowMultiple: true,
				Options: []Option{
					{Value: "pregnant", Label: "Enceinte", Icon: "🤰"},
					{Value: "breastfeeding", Label: "Allaitement", Icon: "🍼"},
					{Value: "scalp-conditions", Label: "Affections cutanées du cuir chevelu", Icon: "🩺"},
					{Value: "allergies", Label: "Allergies", Icon: "🌸"},
					{Value: "none", Label: "Aucun", Icon: "✅"},
				},
			},
			{
				ID: "health_conditions_details", Kind: KindTextarea,
				Prompt:      "Pouvez-vous préciser ?",
				Placeholder: "Précisez vos conditions de santé...",
				Visibility:  when("health_conditions", answer.Set("allergies", "scalp-conditions")),
			},
			{ID: "hair_type", Kind: KindCards, Prompt: "Dirais-tu que tu as le cheveu :", Options: hairTypes},
			{ID: "last_shampoo", Kind: KindText, Prompt: "À quand remonte ton dernier shampoing ?", Placeholder: "Aujourd'hui, hier, il y a 2 jours..."},
			{
				ID: "massage_preference", Kind: KindCards, Prompt: "Préfères-tu les massages :",
				Options: []Option{
					{Value: "tonic", Label: "Tonique", Icon: "⚡"},
					{Value: "relaxing", Label: "Relaxant", Icon: "🧘"},
				},
			},
			{
				ID: "pressure_preference", Kind: KindCards, Prompt: "Préfères-tu une pression :",
				Options: []Option{
					{Value: "soft", Label: "Douce", Icon: "🌸"},
					{Value: "firm", Label: "Forte", Icon: "💪"},
				},
			},
			{ID: "water_temperature", Kind: KindCards, Prompt: "Préfères-tu te laver les cheveux à l'eau :", Options: waterTemperatures},
			{ID: "had_headspa_before", Kind: KindToggle, Prompt: "As-tu déjà bénéficié d'un traitement HeadSpa ?"},
			{
				ID: "positive_effects", Kind: KindTextarea,
				Prompt:      "Quels effets positifs as-tu observés ?",
				Placeholder: "Décris ce que tu as aimé et les bienfaits ressentis...",
				Visibility:  when("had_headspa_before", answer.Bool(true)),
			},
			{
				ID: "negative_effects", Kind: KindTextarea,
				Prompt:      "As-tu ressenti des effets indésirables ou inconforts ?",
				Placeholder: "Y a-t-il eu des moments inconfortables ? Des sensations désagréables ?",
				Visibility:  when("had_headspa_before", answer.Bool(true)),
			},
			{ID: "face_skin_type", Kind: KindCards, Prompt: "Tu as la peau (du visage) :", Options: faceSkinTypes},
			{
				ID: "calming_sounds", Kind: KindChips, Prompt: "Coche les sons qui t'apaisent :", AllowMultiple: true,
				Options: []Option{
					{Value: "rain", Label: "Pluie", Icon: "🌧️"},
					{Value: "waves", Label: "Vagues", Icon: "🌊"},
					{Value: "thunder", Label: "Orage", Icon: "⛈️"},
					{Value: "stream", Label: "Ruisseau", Icon: "💧"},
					{Value: "birds", Label: "Oiseaux", Icon: "🐦"},
					{Value: "lullaby", Label: "Berceuse", Icon: "🎵"},
					{Value: "summer-night", Label: "Nuit d'été", Icon: "🌙"},
					{Value: "wind", Label: "Vent", Icon: "💨"},
				},
			},
		},
	}
}
