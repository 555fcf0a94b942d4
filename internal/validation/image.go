package validation

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize bounds decoded image payloads.
const MaxImageSize = 10 << 20

var (
	ErrImageEncoding = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	ErrImageTooLarge = errors.New("The uploaded image is too large.")
	ErrImageEmpty    = errors.New("The submitted file is empty.")
)

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImage accepts a data URL ("data:image/png;base64,...") or bare
// base64 and returns the decoded bytes. The content is sniffed and must be
// an image regardless of the declared media type.
func DecodeImage(raw string) (*Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrImageEmpty
	}

	payload := raw
	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 || !strings.HasSuffix(raw[:comma], ";base64") {
			return nil, ErrImageEncoding
		}
		payload = raw[comma+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrImageEncoding
	}
	if len(data) == 0 {
		return nil, ErrImageEmpty
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrImageEncoding
	}

	return &Image{
		Data:        data,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, nil
}
