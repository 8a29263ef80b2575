package analyzer

import (
	"math"

	"go-skin-inspector/pkg/models"
)

const (
	acneLocation = "Face"
	unanalyzable = "Unable to analyze image"
	noConcerns   = "No significant skin concerns detected"
	scoreCeiling = 100.0
)

// BuildReport turns an extraction into the final report. A failed extraction
// yields the degraded report with the same field set.
func BuildReport(ex Extraction, opts Options) models.SkinReport {
	if ex.Err != nil {
		return DegradedReport()
	}

	f := ex.Features
	severity, confidence := Classify(f.SeverityScore, opts)

	return models.SkinReport{
		Acne: models.AcneAssessment{
			Severity:   severity,
			Confidence: confidence,
			Location:   acneLocation,
		},
		Hydration:   hydrationLevel(f.AvgBrightness, opts),
		Oiliness:    oilinessLevel(f.AvgSaturation, opts),
		Sensitivity: sensitivityLevel(f.RednessMean, opts),
		Concerns:    concerns(f, severity, opts),
		Metrics: models.SkinMetrics{
			SpotDensity:    models.NewScore(f.SpotRatio * 100),
			TextureScore:   models.NewScore(math.Min(scoreCeiling, f.TextureScore/10)),
			HydrationScore: models.NewScore(math.Min(scoreCeiling, f.AvgBrightness/2)),
			OilScore:       models.NewScore(math.Min(scoreCeiling, f.AvgSaturation/2)),
			EvennessScore:  models.NewScore(f.Uniformity * 100),
			RednessScore:   models.NewScore(math.Min(scoreCeiling, f.RednessMean*2)),
		},
	}
}

// DegradedReport is returned whenever the image could not be analyzed
func DegradedReport() models.SkinReport {
	return models.SkinReport{
		Acne: models.AcneAssessment{
			Severity:   models.SeverityUnknown,
			Confidence: 0,
			Location:   acneLocation,
		},
		Hydration:   models.LevelUnknown,
		Oiliness:    models.LevelUnknown,
		Sensitivity: models.LevelUnknown,
		Concerns:    []string{unanalyzable},
		// zero Scores render as "N/A"
		Metrics: models.SkinMetrics{},
	}
}

func hydrationLevel(brightness float64, opts Options) models.Level {
	switch {
	case brightness < opts.DryBrightness:
		return models.LevelLow
	case brightness < opts.NormalBrightness:
		return models.LevelModerate
	default:
		return models.LevelGood
	}
}

func oilinessLevel(saturation float64, opts Options) models.Level {
	switch {
	case saturation > opts.HighOilSaturation:
		return models.LevelHigh
	case saturation > opts.ModerateOilSaturation:
		return models.LevelModerate
	default:
		return models.LevelLow
	}
}

func sensitivityLevel(redness float64, opts Options) models.Level {
	switch {
	case redness > opts.HighSensitivityRedness:
		return models.LevelHigh
	case redness > opts.ModerateSensitivityRedness:
		return models.LevelModerate
	default:
		return models.LevelLow
	}
}

func concerns(f FeatureVector, severity models.Severity, opts Options) []string {
	var out []string

	if severity != models.SeverityNone {
		out = append(out, string(severity)+" acne detected")
	}

	if f.TextureScore > opts.SignificantTexture {
		out = append(out, "Significant texture irregularities")
	} else if f.TextureScore > opts.ModerateTexture {
		out = append(out, "Moderate texture concerns")
	}

	if f.AvgBrightness < opts.DryBrightness {
		out = append(out, "Signs of dehydration")
	} else if f.AvgBrightness < opts.NormalBrightness {
		out = append(out, "Slightly dry skin")
	}

	if f.AvgSaturation > opts.HighOilSaturation {
		out = append(out, "Excessive oil production")
	} else if f.AvgSaturation > opts.ModerateOilSaturation {
		out = append(out, "Slightly oily skin")
	}

	if f.RednessMean > opts.RednessConcern {
		out = append(out, "Increased skin redness")
	}

	if f.Uniformity < opts.UnevenUniformity {
		out = append(out, "Uneven skin tone")
	}

	if len(out) == 0 {
		out = append(out, noConcerns)
	}
	return out
}
