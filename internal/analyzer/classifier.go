package analyzer

import "go-skin-inspector/pkg/models"

// Classify buckets a severity score. Bounds are inclusive below, so a score
// exactly on a threshold lands in the upper bucket.
func Classify(score float64, opts Options) (models.Severity, float64) {
	switch {
	case score < opts.MildThreshold:
		return models.SeverityNone, opts.NoneConfidence
	case score < opts.ModerateThreshold:
		return models.SeverityMild, opts.MildConfidence
	case score < opts.SevereThreshold:
		return models.SeverityModerate, opts.ModerateConfidence
	default:
		return models.SeveritySevere, opts.SevereConfidence
	}
}
