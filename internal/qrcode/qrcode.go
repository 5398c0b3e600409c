// Package qrcode renders check-in URLs as PNG images.
package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

const defaultSize = 512

// PNG encodes content as a QR code PNG of the given pixel size. A size of
// zero or less falls back to a scan-friendly default.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
