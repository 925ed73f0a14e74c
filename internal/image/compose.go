package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Compose paints tiles onto an opaque width x height canvas of bg and appends
// the footer band underneath. Cells never overlap, so paint order is free.
func Compose(width, height int, bg color.NRGBA, tiles []Tile, footer *Footer) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if footer == nil {
		footer = DefaultFooter()
	}
	bg.A = 0xff
	canvas := imaging.New(width, height+FooterHeight, bg)

	// draw.Draw writes in place; imaging.Paste would clone the canvas per tile.
	for _, t := range tiles {
		if t.Image == nil {
			continue
		}
		b := t.Image.Bounds()
		draw.Draw(canvas, image.Rectangle{Min: t.At, Max: t.At.Add(b.Size())}, t.Image, b.Min, draw.Src)
	}

	band := footer.Band(width)
	draw.Draw(canvas, image.Rect(0, height, width, height+FooterHeight), band, band.Bounds().Min, draw.Src)
	return canvas, nil
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
