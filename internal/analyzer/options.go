package analyzer

import "fmt"

// CanonicalSize is the edge length of the grid every analysis runs on
const CanonicalSize = 300

// Options holds every weight and threshold of the pipeline
type Options struct {
	// Canonical grid
	GridSize int

	// Spot mask
	SpotRednessThreshold    float64
	SpotSaturationThreshold float64
	SpotBrightnessCeiling   float64

	// Local texture window edge (odd)
	WindowSize int
	// Divisor of stddev(V) in the uniformity formula
	UniformityScale float64

	// Severity formula: spot*SpotWeight + redness/RednessDivisor + texture/TextureDivisor
	SpotWeight     float64
	RednessDivisor float64
	TextureDivisor float64

	// Severity buckets, lower bounds are inclusive
	MildThreshold     float64
	ModerateThreshold float64
	SevereThreshold   float64

	NoneConfidence     float64
	MildConfidence     float64
	ModerateConfidence float64
	SevereConfidence   float64

	// Labels and concerns
	DryBrightness              float64
	NormalBrightness           float64
	HighOilSaturation          float64
	ModerateOilSaturation      float64
	HighSensitivityRedness     float64
	ModerateSensitivityRedness float64
	RednessConcern             float64
	SignificantTexture         float64
	ModerateTexture            float64
	UnevenUniformity           float64

	// Performance
	Parallel   bool
	MaxWorkers int // batch workers, 0 means one per CPU
}

// DefaultOptions returns the stock pipeline constants
func DefaultOptions() Options {
	return Options{
		GridSize:                   CanonicalSize,
		SpotRednessThreshold:       30,
		SpotSaturationThreshold:    50,
		SpotBrightnessCeiling:      200,
		WindowSize:                 5,
		UniformityScale:            128,
		SpotWeight:                 5,
		RednessDivisor:             255,
		TextureDivisor:             1000,
		MildThreshold:              0.1,
		ModerateThreshold:          0.2,
		SevereThreshold:            0.3,
		NoneConfidence:             0.9,
		MildConfidence:             0.8,
		ModerateConfidence:         0.85,
		SevereConfidence:           0.9,
		DryBrightness:              100,
		NormalBrightness:           130,
		HighOilSaturation:          120,
		ModerateOilSaturation:      80,
		HighSensitivityRedness:     20,
		ModerateSensitivityRedness: 10,
		RednessConcern:             20,
		SignificantTexture:         1000,
		ModerateTexture:            500,
		UnevenUniformity:           0.6,
		Parallel:                   true,
		MaxWorkers:                 0,
	}
}

// WithSeverityWeights overrides the severity formula weights
func (opts Options) WithSeverityWeights(spotWeight, rednessDivisor, textureDivisor float64) Options {
	opts.SpotWeight = spotWeight
	opts.RednessDivisor = rednessDivisor
	opts.TextureDivisor = textureDivisor
	return opts
}

// WithSeverityThresholds overrides the bucket lower bounds
func (opts Options) WithSeverityThresholds(mild, moderate, severe float64) Options {
	opts.MildThreshold = mild
	opts.ModerateThreshold = moderate
	opts.SevereThreshold = severe
	return opts
}

// WithSpotMask overrides the spot mask thresholds
func (opts Options) WithSpotMask(redness, saturation, brightnessCeiling float64) Options {
	opts.SpotRednessThreshold = redness
	opts.SpotSaturationThreshold = saturation
	opts.SpotBrightnessCeiling = brightnessCeiling
	return opts
}

// WithoutParallel runs the local texture pass on the calling goroutine
func (opts Options) WithoutParallel() Options {
	opts.Parallel = false
	return opts
}

// WithWorkers sets the batch worker count
func (opts Options) WithWorkers(n int) Options {
	opts.MaxWorkers = n
	return opts
}

// Validate rejects option sets the pipeline cannot run with
func (opts Options) Validate() error {
	if opts.GridSize <= 0 {
		return fmt.Errorf("grid size must be > 0 (got %d)", opts.GridSize)
	}
	if opts.WindowSize <= 0 || opts.WindowSize%2 == 0 {
		return fmt.Errorf("window size must be a positive odd number (got %d)", opts.WindowSize)
	}
	if opts.RednessDivisor == 0 || opts.TextureDivisor == 0 || opts.UniformityScale == 0 {
		return fmt.Errorf("divisors must be non-zero")
	}
	if !(opts.MildThreshold <= opts.ModerateThreshold && opts.ModerateThreshold <= opts.SevereThreshold) {
		return fmt.Errorf("severity thresholds must be ascending (got %g, %g, %g)",
			opts.MildThreshold, opts.ModerateThreshold, opts.SevereThreshold)
	}
	return nil
}
