package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Tile adjustment constants. Output regression tests depend on them.
const (
	Contrast     = 1.05
	Brightness   = 1.02
	SharpenSigma = 0.5
)

// Tile is a processed image and the top-left corner it is painted at.
type Tile struct {
	Image image.Image
	At    image.Point
}

// DecodeImage decodes JPEG, PNG, GIF, BMP, TIFF or WebP bytes.
func DecodeImage(raw []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// FitTile scales the shorter side to size, crops the longer side around the
// center and applies Enhance. Aspect ratio is never distorted.
func FitTile(img image.Image, size int) *image.NRGBA {
	return Enhance(imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos))
}

// Enhance applies the fixed contrast, brightness and sharpen pass.
func Enhance(img image.Image) *image.NRGBA {
	out := imaging.AdjustContrast(img, (Contrast-1)*100)
	out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
	return imaging.Sharpen(out, SharpenSigma)
}

func scale(v uint8) uint8 {
	return uint8(math.Min(255, math.Round(float64(v)*Brightness)))
}
