package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored binary.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Put stores r under a fresh key namespaced by ownerID.
	Put(ctx context.Context, ownerID string, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// Sniff detects the content type of r from its leading bytes and returns a
// reader that replays them.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}
