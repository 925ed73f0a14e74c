package imagepkg

import (
	"bytes"
	"fmt"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize     = 64
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

// GenerateQRPNG returns PNG bytes of a QR code for text. size is clamped to
// [MinQRSize, MaxQRSize].
func GenerateQRPNG(text string, size int) ([]byte, error) {
	size = max(MinQRSize, min(MaxQRSize, size))
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(pngBytes)); err != nil {
		return nil, fmt.Errorf("validating qr png: %w", err)
	}
	return pngBytes, nil
}
