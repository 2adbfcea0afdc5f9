package proof

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
)

const (
	DefaultMaxPhotoBytes = 5 * 1024 * 1024

	dataURLPrefix = "data:image/"
	base64Marker  = ";base64,"
)

type Photo struct {
	Data     []byte
	MimeType string
	Ext      string
}

var photoTypes = map[string]struct{ ext, mime string }{
	"jpeg": {"jpg", "image/jpeg"},
	"jpg":  {"jpg", "image/jpeg"},
	"png":  {"png", "image/png"},
	"webp": {"webp", "image/webp"},
}

func invalidPhoto(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidArgument, msg)
}

// DecodeDataURL parses data:image/<type>;base64,<payload>. Oversized payloads
// fail with both ErrInvalidArgument and ErrPayloadTooLarge.
func DecodeDataURL(dataURL string, maxBytes int64) (*Photo, error) {
	if dataURL == "" {
		return nil, invalidPhoto("capturedPhotoDataUrl is required")
	}
	if !strings.HasPrefix(dataURL, dataURLPrefix) || !strings.Contains(dataURL, base64Marker) {
		return nil, invalidPhoto("capturedPhotoDataUrl must be a valid image data URL")
	}

	header, payload, _ := strings.Cut(dataURL, base64Marker)
	subtype := strings.ToLower(strings.TrimPrefix(header, dataURLPrefix))

	kind, ok := photoTypes[subtype]
	if !ok {
		return nil, invalidPhoto("image type must be jpeg, png, or webp")
	}

	data, err := base64.StdEncoding.Strict().DecodeString(payload)
	if err != nil {
		return nil, invalidPhoto("invalid base64 image data")
	}
	if len(data) == 0 {
		return nil, invalidPhoto("uploaded image is empty")
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %w: captured photo exceeds %d bytes",
			common.ErrInvalidArgument, common.ErrPayloadTooLarge, maxBytes)
	}

	return &Photo{Data: data, MimeType: kind.mime, Ext: kind.ext}, nil
}
