package analyzer

import (
	"fmt"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
	"gonum.org/v1/gonum/stat"

	apperrors "go-skin-inspector/internal/errors"
)

// window buffers for the local variance pass
var windowPool = sync.Pool{
	New: func() interface{} {
		return make([]float64, 0, 25)
	},
}

// ExtractFeatures computes the feature vector of a normalized grid and its HSV projection
func ExtractFeatures(rgb *RGBGrid, hsv *HSVGrid, opts Options) (FeatureVector, error) {
	n := len(hsv.V)
	if n == 0 || len(rgb.R) != n {
		return FeatureVector{}, apperrors.NewProcessingError(
			fmt.Sprintf("grid size mismatch (rgb=%d, hsv=%d)", len(rgb.R), n), nil)
	}

	sat := make([]float64, n)
	val := make([]float64, n)
	redness := make([]float64, n)
	spots := 0

	for i := 0; i < n; i++ {
		sat[i] = float64(hsv.S[i])
		val[i] = float64(hsv.V[i])
		redness[i] = float64(rgb.R[i]) - (float64(rgb.G[i])+float64(rgb.B[i]))/2

		if redness[i] > opts.SpotRednessThreshold &&
			sat[i] > opts.SpotSaturationThreshold &&
			val[i] < opts.SpotBrightnessCeiling {
			spots++
		}
	}

	meanV, varV := stat.PopMeanVariance(val, nil)
	if meanV == 0 {
		return FeatureVector{}, apperrors.NewProcessingError("image has zero mean brightness", nil)
	}
	stdV := math.Sqrt(varV)

	local := localVariance(val, hsv.Width, hsv.Height, opts.WindowSize, opts.Parallel)

	f := FeatureVector{
		AvgSaturation:       stat.Mean(sat, nil),
		AvgBrightness:       meanV,
		TextureVariance:     stdV,
		SpotRatio:           float64(spots) / float64(n),
		RednessMean:         stat.Mean(redness, nil),
		TextureScore:        stat.Mean(local, nil),
		Uniformity:          1 - stdV/opts.UniformityScale,
		BrightnessVariation: stdV / meanV,
	}
	f.SeverityScore = f.SpotRatio*opts.SpotWeight +
		f.RednessMean/opts.RednessDivisor +
		f.TextureScore/opts.TextureDivisor

	if err := f.checkFinite(); err != nil {
		return FeatureVector{}, err
	}
	return f, nil
}

func (f FeatureVector) checkFinite() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"avg_saturation", f.AvgSaturation},
		{"avg_brightness", f.AvgBrightness},
		{"texture_variance", f.TextureVariance},
		{"spot_ratio", f.SpotRatio},
		{"redness_mean", f.RednessMean},
		{"texture_score", f.TextureScore},
		{"uniformity", f.Uniformity},
		{"brightness_variation", f.BrightnessVariation},
		{"severity_score", f.SeverityScore},
	}
	for _, field := range fields {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			return apperrors.NewProcessingError(fmt.Sprintf("feature %s is not finite", field.name), nil)
		}
	}
	return nil
}

// localVariance returns the population variance of the window centered on every
// pixel. Out of range samples are mirrored with the edge sample repeated
// (d c b a | a b c d | d c b a).
func localVariance(values []float64, width, height, window int, inParallel bool) []float64 {
	out := make([]float64, len(values))
	radius := window / 2

	rows := func(start, end int) {
		buf := windowPool.Get().([]float64)
		defer func() { windowPool.Put(buf[:0]) }()

		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				buf = buf[:0]
				for dy := -radius; dy <= radius; dy++ {
					row := reflectIndex(y+dy, height) * width
					for dx := -radius; dx <= radius; dx++ {
						buf = append(buf, values[row+reflectIndex(x+dx, width)])
					}
				}
				_, out[y*width+x] = stat.PopMeanVariance(buf, nil)
			}
		}
	}

	if inParallel {
		parallel.Line(height, rows)
	} else {
		rows(0, height)
	}
	return out
}

func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		} else {
			i = 2*n - i - 1
		}
	}
	return i
}
