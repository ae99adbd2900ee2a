package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"profile-backend/internal/shared/storage/object"
	"profile-backend/internal/shared/telemetry"
)

// DefaultMaxBytes is the upload limit when none is configured.
const DefaultMaxBytes int64 = 3 << 20

// AcceptedTypes are the image types the document export can decode.
var AcceptedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff"}

// Stored describes an accepted upload.
type Stored struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Service validates image uploads and keeps them in the object store.
type Service struct {
	Store    object.ObjectStore
	BaseURL  string
	MaxBytes int64
}

// NewService constructs a Service.
func NewService(store object.ObjectStore, baseURL string, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{Store: store, BaseURL: baseURL, MaxBytes: maxBytes}
}

// Upload stores an image owned by ownerID. The content type is detected from
// the bytes; the client-supplied name only contributes to the key.
func (s *Service) Upload(ctx context.Context, ownerID, fileName string, r io.Reader) (Stored, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Stored{}, ErrEmptyFile
	}
	if int64(len(data)) > s.MaxBytes {
		return Stored{}, ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), AcceptedTypes...) {
		return Stored{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, detected.String())
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = "upload" + detected.Extension()
	}

	obj, err := s.Store.Put(ctx, ownerID, fileName, bytes.NewReader(data))
	if err != nil {
		return Stored{}, fmt.Errorf("store upload: %w", err)
	}

	telemetry.Info("media.stored", map[string]any{
		"owner_id":     ownerID,
		"key":          obj.Key,
		"size":         obj.Size,
		"content_type": detected.String(),
	})
	return Stored{
		Key:         obj.Key,
		URL:         s.URL(obj.Key),
		ContentType: detected.String(),
		Size:        obj.Size,
	}, nil
}

// URL returns the public address of a stored key.
func (s *Service) URL(key string) string {
	base := s.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + key
}

// Open returns the stored object and its detected content type.
func (s *Service) Open(ctx context.Context, key string) (string, io.ReadCloser, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}
	contentType, body, err := object.Sniff(rc)
	if err != nil {
		_ = rc.Close()
		return "", nil, err
	}
	return contentType, readCloser{Reader: body, Closer: rc}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
