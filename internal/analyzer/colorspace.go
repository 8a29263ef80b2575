package analyzer

import colorful "github.com/lucasb-eyer/go-colorful"

// ProjectHSV converts a grid to HSV with every channel scaled to 0-255.
// Values are truncated, not rounded.
func ProjectHSV(grid *RGBGrid) *HSVGrid {
	n := len(grid.R)
	hsv := &HSVGrid{
		Width:  grid.Width,
		Height: grid.Height,
		H:      make([]uint8, n),
		S:      make([]uint8, n),
		V:      make([]uint8, n),
	}

	for i := 0; i < n; i++ {
		r, g, b := grid.R[i], grid.G[i], grid.B[i]
		hi, lo := max(r, g, b), min(r, g, b)
		hsv.V[i] = hi
		if hi == lo {
			continue
		}

		hsv.S[i] = uint8(float32(hi-lo) / float32(hi) * 255)

		hue, _, _ := colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		}.Hsv()
		hsv.H[i] = uint8(hue / 360 * 255)
	}
	return hsv
}
