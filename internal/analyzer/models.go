package analyzer

import "go-skin-inspector/pkg/models"

// RGBGrid is a planar three channel image in row-major order
type RGBGrid struct {
	Width, Height int
	R, G, B       []uint8
}

func newRGBGrid(width, height int) *RGBGrid {
	n := width * height
	return &RGBGrid{
		Width:  width,
		Height: height,
		R:      make([]uint8, n),
		G:      make([]uint8, n),
		B:      make([]uint8, n),
	}
}

// HSVGrid holds hue, saturation and value, each scaled to 0-255
type HSVGrid struct {
	Width, Height int
	H, S, V       []uint8
}

// FeatureVector is the statistical summary every classification is derived from
type FeatureVector struct {
	AvgSaturation       float64
	AvgBrightness       float64
	TextureVariance     float64 // global stddev of V
	SpotRatio           float64
	RednessMean         float64
	TextureScore        float64 // mean local variance of V
	Uniformity          float64
	BrightnessVariation float64
	SeverityScore       float64
}

// Snapshot converts the vector into its wire form
func (f FeatureVector) Snapshot() *models.FeatureSnapshot {
	return &models.FeatureSnapshot{
		AvgSaturation:       f.AvgSaturation,
		AvgBrightness:       f.AvgBrightness,
		TextureVariance:     f.TextureVariance,
		TextureScore:        f.TextureScore,
		SpotRatio:           f.SpotRatio,
		RednessMean:         f.RednessMean,
		Uniformity:          f.Uniformity,
		BrightnessVariation: f.BrightnessVariation,
		SeverityScore:       f.SeverityScore,
	}
}

// Extraction is the outcome of the decode-to-features stages.
// Exactly one of Features and Err is meaningful.
type Extraction struct {
	Features FeatureVector
	Err      error
}
