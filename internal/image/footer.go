package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	FooterHeight   = 40
	DefaultCaption = "made with topster"
	captionSize    = 16
)

var footerBackground = color.NRGBA{A: 0xff}

// Footer renders the band appended below every poster. It is built once at
// startup and is safe for concurrent use.
type Footer struct {
	asset   image.Image
	caption string
	face    font.Face
	mu      sync.Mutex // font.Face is not safe for concurrent use
}

// LoadFooter reads the footer asset at path. A missing or undecodable asset
// is not fatal: the returned footer draws caption instead, and err says why.
func LoadFooter(path, caption string) (*Footer, error) {
	if caption == "" {
		caption = DefaultCaption
	}
	if path == "" {
		return NewCaptionFooter(caption), nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewCaptionFooter(caption), nil
		}
		return NewCaptionFooter(caption), fmt.Errorf("loading footer asset %s: %w", path, err)
	}
	return &Footer{asset: img, caption: caption}, nil
}

// NewCaptionFooter returns a footer that draws caption centered on black.
func NewCaptionFooter(caption string) *Footer {
	return &Footer{caption: caption, face: captionFace()}
}

var (
	defaultFooterOnce sync.Once
	defaultFooter     *Footer
)

// DefaultFooter is the caption footer with DefaultCaption.
func DefaultFooter() *Footer {
	defaultFooterOnce.Do(func() { defaultFooter = NewCaptionFooter(DefaultCaption) })
	return defaultFooter
}

// HasAsset reports whether the footer draws an image rather than a caption.
func (f *Footer) HasAsset() bool { return f.asset != nil }

// Band renders the footer for a canvas of the given width.
func (f *Footer) Band(width int) *image.NRGBA {
	band := imaging.New(width, FooterHeight, footerBackground)
	if f.asset != nil {
		fit := fitWithin(f.asset, width, FooterHeight)
		pos := image.Pt((width-fit.Bounds().Dx())/2, (FooterHeight-fit.Bounds().Dy())/2)
		return imaging.Overlay(band, fit, pos, 1.0)
	}
	if f.face == nil || f.caption == "" {
		return band
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.face.Metrics()
	w := font.MeasureString(f.face, f.caption).Ceil()
	d := &font.Drawer{
		Dst:  band,
		Src:  image.NewUniform(color.White),
		Face: f.face,
		Dot:  fixed.P((width-w)/2, (FooterHeight+m.Ascent.Ceil()-m.Descent.Ceil())/2),
	}
	d.DrawString(f.caption)
	return band
}

// fitWithin scales img up or down to the largest size inside w x h that
// keeps its aspect ratio. imaging.Fit only ever shrinks.
func fitWithin(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	r := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	fw := max(1, int(math.Round(float64(b.Dx())*r)))
	fh := max(1, int(math.Round(float64(b.Dy())*r)))
	return imaging.Resize(img, fw, fh, imaging.Lanczos)
}

func captionFace() font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	return face
}
