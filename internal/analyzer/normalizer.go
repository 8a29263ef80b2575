package analyzer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "go-skin-inspector/internal/errors"
)

// Normalize decodes data and resamples it onto a size×size RGB grid.
// Alpha is dropped without compositing and grayscale is replicated to all channels.
func Normalize(data []byte, size int) (*RGBGrid, error) {
	if size <= 0 {
		size = CanonicalSize
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, apperrors.NewProcessingError(
			fmt.Sprintf("decoded %s image has no pixels", format), nil)
	}

	nrgba := imaging.Clone(img)
	// resampling weights colour by alpha, so make the clone opaque first
	for i := 3; i < len(nrgba.Pix); i += 4 {
		nrgba.Pix[i] = 0xff
	}
	if bounds.Dx() != size || bounds.Dy() != size {
		nrgba = imaging.Resize(nrgba, size, size, imaging.Linear)
	}

	grid := newRGBGrid(size, size)
	for y := 0; y < size; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < size; x++ {
			i := y*size + x
			grid.R[i] = row[x*4]
			grid.G[i] = row[x*4+1]
			grid.B[i] = row[x*4+2]
		}
	}
	return grid, nil
}
