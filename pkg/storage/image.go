package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// MaxPosterImageSize is the largest decoded poster image accepted (10MB).
const MaxPosterImageSize = 10 * 1024 * 1024

// AllowedImageTypes maps accepted MIME types to the stored extension.
var AllowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

var (
	ErrInvalidDataURL   = errors.New("invalid data url")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

// Image is a decoded poster image.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

// DecodeDataURL parses "data:image/png;base64,...". A bare base64 payload is accepted and sniffed.
// The declared type must agree with the sniffed content.
func DecodeDataURL(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	declared := ""
	payload := s
	if strings.HasPrefix(s, "data:") {
		meta, data, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, ErrInvalidDataURL
		}
		declared = strings.ToLower(strings.TrimSuffix(meta, ";base64"))
		payload = data
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPosterImageSize+3 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURL
	}
	if len(data) > MaxPosterImageSize {
		return nil, ErrImageTooLarge
	}

	sniffed := http.DetectContentType(data)
	ext, ok := AllowedImageTypes[sniffed]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, sniffed)
	}
	if declared != "" {
		if declaredExt, ok := AllowedImageTypes[declared]; !ok || declaredExt != ext {
			return nil, fmt.Errorf("%w: declared %s, content %s", ErrUnsupportedImage, declared, sniffed)
		}
	}
	return &Image{ContentType: sniffed, Ext: ext, Data: data}, nil
}

// Reader returns the image bytes as a reader.
func (img *Image) Reader() *bytes.Reader { return bytes.NewReader(img.Data) }

// ContentDisposition builds an attachment header value that keeps non-ASCII file names intact.
func ContentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
