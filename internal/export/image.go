package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"profile-backend/profiledoc/model"
)

// Normalizer turns fetched image bytes into a NormalizedImage.
type Normalizer struct {
	MaxBytes  int64
	MaxPixels int
}

// DeclaredExtension returns the text after the first dot of the last path
// segment of ref, verbatim. "a/photo.final.png" yields "final.png".
func DeclaredExtension(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if i := strings.Index(p, "."); i >= 0 {
		return p[i+1:]
	}
	return ""
}

// Normalize validates data and derives its inline encoding. The media type
// comes from the declared extension only; a missing or mismatched one is
// kept and flagged with DeclaredTypeSuspect.
func (n Normalizer) Normalize(ref string, data []byte) (model.NormalizedImage, error) {
	if len(data) == 0 {
		return model.NormalizedImage{}, fmt.Errorf("%w: empty image", ErrImageDecode)
	}
	if n.MaxBytes > 0 && int64(len(data)) > n.MaxBytes {
		return model.NormalizedImage{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(data), n.MaxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return model.NormalizedImage{}, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if n.MaxPixels > 0 && cfg.Width*cfg.Height > n.MaxPixels {
		return model.NormalizedImage{}, fmt.Errorf("%w: %dx%d pixels", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return model.NormalizedImage{}, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	ext := DeclaredExtension(ref)
	mediaType := "image/" + ext
	return model.NormalizedImage{
		Bytes:               data,
		MediaType:           mediaType,
		Inline:              "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Format:              format,
		Width:               cfg.Width,
		Height:              cfg.Height,
		DeclaredTypeSuspect: !extensionMatches(ext, format),
	}, nil
}

func extensionMatches(ext, format string) bool {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "jpe", "jfif":
		return format == "jpeg"
	case "png":
		return format == "png"
	case "gif":
		return format == "gif"
	case "webp":
		return format == "webp"
	case "bmp", "dib":
		return format == "bmp"
	case "tif", "tiff":
		return format == "tiff"
	default:
		return false
	}
}
