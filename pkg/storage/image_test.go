package storage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestDecodeDataURL(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	img, err := DecodeDataURL("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)
	assert.Equal(t, pngHeader, img.Data)

	img, err = DecodeDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, ".png", img.Ext)
}

func TestDecodeDataURLRejects(t *testing.T) {
	png := base64.StdEncoding.EncodeToString(pngHeader)
	text := base64.StdEncoding.EncodeToString([]byte("hello world"))

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"not base64 marked", "data:image/png," + png, ErrInvalidDataURL},
		{"bad base64", "data:image/png;base64,@@@", ErrInvalidDataURL},
		{"empty", "", ErrInvalidDataURL},
		{"text content", "data:text/plain;base64," + text, ErrUnsupportedImage},
		{"declared mismatch", "data:image/jpeg;base64," + png, ErrUnsupportedImage},
		{"too large", "data:image/png;base64," + strings.Repeat("A", (MaxPosterImageSize/3)*4+8), ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURL(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPosterImageKey(t *testing.T) {
	assert.Equal(t, "posters/abc/poster.png", PosterImageKey("abc", ".png"))
}

func TestContentDisposition(t *testing.T) {
	got := ContentDisposition("海报-3月15日.png")
	assert.True(t, strings.HasPrefix(got, "attachment; filename*=utf-8''"))
	assert.Equal(t, `attachment; filename=poster.png`, ContentDisposition("poster.png"))
}
