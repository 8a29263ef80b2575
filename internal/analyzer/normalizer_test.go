package analyzer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	apperrors "go-skin-inspector/internal/errors"
)

func TestNormalize_AlwaysCanonicalSize(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
	}{
		{"single pixel", 1, 1},
		{"tall strip", 17, 300},
		{"wide strip", 1000, 50},
		{"landscape", 640, 480},
		{"canonical", 300, 300},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := encodePNG(t, createNoiseImage(tc.width, tc.height, 7))
			grid, err := Normalize(data, CanonicalSize)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if grid.Width != CanonicalSize || grid.Height != CanonicalSize {
				t.Errorf("Expected %dx%d grid, got %dx%d", CanonicalSize, CanonicalSize, grid.Width, grid.Height)
			}
			n := CanonicalSize * CanonicalSize
			if len(grid.R) != n || len(grid.G) != n || len(grid.B) != n {
				t.Errorf("Expected %d samples per channel", n)
			}
		})
	}
}

func TestNormalize_CanonicalInputCopiedVerbatim(t *testing.T) {
	img := createNoiseImage(CanonicalSize, CanonicalSize, 42)
	grid, err := Normalize(encodePNG(t, img), CanonicalSize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for y := 0; y < CanonicalSize; y++ {
		for x := 0; x < CanonicalSize; x++ {
			want := img.RGBAAt(x, y)
			i := y*CanonicalSize + x
			if grid.R[i] != want.R || grid.G[i] != want.G || grid.B[i] != want.B {
				t.Fatalf("Pixel (%d,%d) changed: got (%d,%d,%d), want (%d,%d,%d)",
					x, y, grid.R[i], grid.G[i], grid.B[i], want.R, want.G, want.B)
			}
		}
	}
}

func TestNormalize_UniformImageStaysUniform(t *testing.T) {
	data := encodePNG(t, createTestImage(640, 480, color.RGBA{200, 150, 120, 255}))
	grid, err := Normalize(data, CanonicalSize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := range grid.R {
		if grid.R[i] != 200 || grid.G[i] != 150 || grid.B[i] != 120 {
			t.Fatalf("Sample %d not uniform: (%d,%d,%d)", i, grid.R[i], grid.G[i], grid.B[i])
		}
	}
}

func TestNormalize_GrayscaleReplicated(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, CanonicalSize, CanonicalSize))
	for i := range img.Pix {
		img.Pix[i] = 77
	}

	grid, err := Normalize(encodePNG(t, img), CanonicalSize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if grid.R[0] != 77 || grid.G[0] != 77 || grid.B[0] != 77 {
		t.Errorf("Expected gray replicated to all channels, got (%d,%d,%d)", grid.R[0], grid.G[0], grid.B[0])
	}
}

func TestNormalize_AlphaDropped(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, CanonicalSize, CanonicalSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 100, 50, 128
	}

	grid, err := Normalize(encodePNG(t, img), CanonicalSize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if grid.R[0] != 200 || grid.G[0] != 100 || grid.B[0] != 50 {
		t.Errorf("Expected straight color to be kept, got (%d,%d,%d)", grid.R[0], grid.G[0], grid.B[0])
	}
}

func TestNormalize_AlphaDroppedBeforeResize(t *testing.T) {
	t.Run("fully transparent", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 600, 600))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 150, 120, 0
		}

		grid, err := Normalize(encodePNG(t, img), CanonicalSize)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for _, i := range []int{0, CanonicalSize*CanonicalSize/2 + CanonicalSize/2, len(grid.R) - 1} {
			if !approxEqual(float64(grid.R[i]), 200, 1) || !approxEqual(float64(grid.G[i]), 150, 1) || !approxEqual(float64(grid.B[i]), 120, 1) {
				t.Errorf("pixel %d: expected (200,150,120), got (%d,%d,%d)", i, grid.R[i], grid.G[i], grid.B[i])
			}
		}
	})

	t.Run("mixed alpha columns blend by color only", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 601, 601))
		for y := 0; y < 601; y++ {
			for x := 0; x < 601; x++ {
				i := img.PixOffset(x, y)
				if x%2 == 0 {
					img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 60, 60, 255
				} else {
					img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 128, 128, 128, 1
				}
			}
		}

		grid, err := Normalize(encodePNG(t, img), CanonicalSize)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		i := CanonicalSize*CanonicalSize/2 + CanonicalSize/2
		if grid.R[i] > 190 || grid.G[i] < 70 {
			t.Errorf("Expected the transparent gray columns to contribute, got (%d,%d,%d)", grid.R[i], grid.G[i], grid.B[i])
		}
	})
}

func TestNormalize_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(120, 80, color.RGBA{90, 90, 90, 255}), nil); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	grid, err := Normalize(buf.Bytes(), CanonicalSize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if grid.Width != CanonicalSize {
		t.Errorf("Expected canonical width, got %d", grid.Width)
	}
}

func TestNormalize_UndecodableBytes(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image"), {0x89, 'P', 'N', 'G'}} {
		_, err := Normalize(data, CanonicalSize)
		if err == nil {
			t.Fatalf("Expected error for %q", data)
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
			t.Errorf("Expected decode error, got %v", err)
		}
	}
}
