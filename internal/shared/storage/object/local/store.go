package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"profile-backend/internal/shared/storage/object"
	"profile-backend/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put writes r to disk under the owner's namespace with a random prefix.
func (s *Store) Put(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.Object, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	ownerKey := util.OwnerKey(ownerID)
	finalName := fmt.Sprintf("%s_%s", randomID(), sanitizedName)

	dirPath := filepath.Join(s.baseDir, ownerKey)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}

	contentType, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, err
	}

	f, err := os.OpenFile(filepath.Join(dirPath, finalName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}

	// Keys always use forward slashes so they can be embedded in URLs.
	return object.Object{
		Key:         ownerKey + "/" + finalName,
		Size:        written,
		ContentType: contentType,
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ object.ObjectStore = (*Store)(nil)
