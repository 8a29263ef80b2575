package service

import "go-skin-inspector/pkg/models"

const faceTreatment = "Face Treatment"

var treatmentSuggestions = map[models.Severity][]string{
	models.SeveritySevere: {
		"Benzoyl Peroxide 5-10% Treatment",
		"Prescription-strength Retinoid",
		"Medical-grade Salicylic Acid Cleanser",
	},
	models.SeverityModerate: {
		"Benzoyl Peroxide 2.5-5% Cleanser",
		"Over-the-counter Retinol",
		"Tea Tree Oil Cleanser",
	},
	models.SeverityMild: {
		"Gentle Salicylic Acid Cleanser",
		"Niacinamide Serum",
		"Gentle Foaming Cleanser",
	},
}

// TreatmentsFor returns the treatment suggestions for an acne severity.
// None and Unknown get an empty, non-nil list.
func TreatmentsFor(severity models.Severity) []models.TreatmentRecommendation {
	suggestions, ok := treatmentSuggestions[severity]
	if !ok {
		return []models.TreatmentRecommendation{}
	}
	return []models.TreatmentRecommendation{{
		Type:        faceTreatment,
		Severity:    severity,
		Suggestions: append([]string(nil), suggestions...),
	}}
}
