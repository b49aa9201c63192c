// Package qr renders scan codes as QR images for printed tickets and
// host-stand displays.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder produces PNG-encoded QR images from scan codes.
type Encoder struct {
	level qrcode.RecoveryLevel
}

// NewEncoder returns an encoder using medium error recovery, which keeps
// codes scannable on creased or partially smudged tickets.
func NewEncoder() *Encoder {
	return &Encoder{level: qrcode.Medium}
}

// EncodePNG renders code into a size x size pixel PNG.
func (e *Encoder) EncodePNG(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("encode qr: empty code")
	}
	png, err := qrcode.Encode(code, e.level, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
