package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/jpeg"
	"strings"

	"github.com/geoquest/api/internal/geo"
)

// MaxImageDimension bounds captures for bandwidth; clients downscale to
// 1024 px before upload and the server refuses anything bigger.
const MaxImageDimension = 1024

var (
	ErrMissingImage    = errors.New("image is required")
	ErrMissingLocation = errors.New("location is required")
	ErrBadImage        = errors.New("image is not a valid base64 JPEG")
	ErrImageTooLarge   = errors.New("image exceeds maximum dimensions")
)

// Capture is the client's proof-of-visit payload: one still image and
// the device's best-known coordinates at shutter time.
type Capture struct {
	ImageBase64 string
	Location    *geo.Point
}

// Validate rejects malformed captures before any inference call is made.
// A missing image or coordinate is a client error, never forwarded.
func (c Capture) Validate() error {
	if strings.TrimSpace(c.ImageBase64) == "" {
		return ErrMissingImage
	}
	if c.Location == nil {
		return ErrMissingLocation
	}

	raw, err := base64.StdEncoding.DecodeString(StripDataURL(c.ImageBase64))
	if err != nil {
		return ErrBadImage
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return ErrBadImage
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return ErrImageTooLarge
	}
	return nil
}

// StripDataURL removes a "data:image/jpeg;base64," style prefix if
// present; camera captures arrive as data URLs.
func StripDataURL(s string) string {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		return s[i+1:]
	}
	return s
}
