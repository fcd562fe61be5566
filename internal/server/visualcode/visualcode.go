// Package visualcode renders verification URLs and fingerprints as QR code
// PNG images.
package visualcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	minSize     = 64

	dataURLPrefix = "data:image/png;base64,"
)

// Encoder renders QR codes of a fixed size with medium error correction.
type Encoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewEncoder returns an encoder producing size x size PNGs. Sizes below 64
// pixels fall back to DefaultSize.
func NewEncoder(size int) *Encoder {
	if size < minSize {
		size = DefaultSize
	}
	return &Encoder{size: size, level: qrcode.Medium}
}

func (e *Encoder) Size() int {
	return e.size
}

// PNG encodes content as a QR code image.
func (e *Encoder) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("empty qr content")
	}
	png, err := qrcode.Encode(content, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}

// DataURL wraps a PNG as an embeddable data: URL. Empty input yields "".
func DataURL(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}
