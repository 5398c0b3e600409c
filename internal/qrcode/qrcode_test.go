package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestPNG(t *testing.T) {
	png, err := PNG("https://campus.example/api/v1/events/01HQZX3Y4K6F7G8H9J0K1M2N3P/qr-attendance", 256)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestPNGDefaultSize(t *testing.T) {
	png, err := PNG("hello", 0)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestPNGEmptyContent(t *testing.T) {
	_, err := PNG("", 128)
	require.Error(t, err)
}
