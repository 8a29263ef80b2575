package analyzer

import "testing"

func TestProjectHSV(t *testing.T) {
	testCases := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
		hueTol  int
	}{
		{"black", 0, 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128, 0},
		{"white", 255, 255, 255, 0, 0, 255, 0},
		{"pure red", 255, 0, 0, 0, 255, 255, 0},
		{"skin red", 180, 60, 60, 0, 170, 180, 0},
		{"pure green", 0, 255, 0, 85, 255, 255, 1},
		{"pure blue", 0, 0, 255, 170, 255, 255, 1},
		{"half saturation", 200, 100, 100, 0, 127, 200, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid := newRGBGrid(1, 1)
			grid.R[0], grid.G[0], grid.B[0] = tc.r, tc.g, tc.b

			hsv := ProjectHSV(grid)
			if hsv.V[0] != tc.v {
				t.Errorf("V: expected %d, got %d", tc.v, hsv.V[0])
			}
			if hsv.S[0] != tc.s {
				t.Errorf("S: expected %d, got %d", tc.s, hsv.S[0])
			}
			if d := int(hsv.H[0]) - int(tc.h); d < -tc.hueTol || d > tc.hueTol {
				t.Errorf("H: expected %d, got %d", tc.h, hsv.H[0])
			}
		})
	}
}

func TestProjectHSV_KeepsShape(t *testing.T) {
	grid := newRGBGrid(4, 3)
	hsv := ProjectHSV(grid)
	if hsv.Width != 4 || hsv.Height != 3 || len(hsv.V) != 12 {
		t.Errorf("Unexpected shape %dx%d (%d samples)", hsv.Width, hsv.Height, len(hsv.V))
	}
}
