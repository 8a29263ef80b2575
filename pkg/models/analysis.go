package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Severity is the acne severity bucket of a report
type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	SeverityUnknown  Severity = "Unknown"
)

// Level is a categorical hydration, oiliness or sensitivity label
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelGood     Level = "Good"
	LevelHigh     Level = "High"
	LevelUnknown  Level = "Unknown"
)

// NotAvailable is the score sentinel used by degraded reports
const NotAvailable = "N/A"

// Score is a presentation score rendered with one decimal place, or "N/A"
// when the analysis could not produce it.
type Score struct {
	Value float64
	Valid bool
}

// NewScore wraps a computed value
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// Rounded returns the value at the one decimal precision it is rendered with
func (s Score) Rounded() float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(s.Value, 'f', 1, 64), 64)
	return r
}

func (s Score) String() string {
	if !s.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// MarshalJSON emits a JSON number with one decimal, or the string "N/A"
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', 1, 64)), nil
}

// UnmarshalJSON accepts either form written by MarshalJSON
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str != NotAvailable {
			return fmt.Errorf("invalid score %q", str)
		}
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = NewScore(v)
	return nil
}

// AcneAssessment is the acne part of a report
type AcneAssessment struct {
	Severity   Severity `json:"severity"`
	Confidence float64  `json:"confidence"`
	Location   string   `json:"location"`
}

// SkinMetrics holds the six presentation scores, each capped at 100
type SkinMetrics struct {
	SpotDensity    Score `json:"spot_density"`
	TextureScore   Score `json:"texture_score"`
	HydrationScore Score `json:"hydration_score"`
	OilScore       Score `json:"oil_score"`
	EvennessScore  Score `json:"evenness_score"`
	RednessScore   Score `json:"redness_score"`
}

// SkinReport is the terminal artifact of one analysis.
// Degraded reports keep the same field set with "Unknown" labels and "N/A" scores.
type SkinReport struct {
	Acne        AcneAssessment `json:"acne"`
	Hydration   Level          `json:"hydration"`
	Oiliness    Level          `json:"oiliness"`
	Sensitivity Level          `json:"sensitivity"`
	Concerns    []string       `json:"concerns"`
	Metrics     SkinMetrics    `json:"metrics"`
}

// IsDegraded reports whether this is the fallback report of a failed analysis
func (r SkinReport) IsDegraded() bool {
	return r.Acne.Severity == SeverityUnknown
}

// FeatureSnapshot exposes the raw feature vector behind a report
type FeatureSnapshot struct {
	AvgSaturation       float64 `json:"avg_saturation"`
	AvgBrightness       float64 `json:"avg_brightness"`
	TextureVariance     float64 `json:"texture_variance"`
	TextureScore        float64 `json:"texture_score"`
	SpotRatio           float64 `json:"spot_ratio"`
	RednessMean         float64 `json:"redness_mean"`
	Uniformity          float64 `json:"uniformity"`
	BrightnessVariation float64 `json:"brightness_variation"`
	SeverityScore       float64 `json:"severity_score"`
}

// TreatmentRecommendation lists product suggestions for one treatment area
type TreatmentRecommendation struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Suggestions []string `json:"suggestions"`
}
