package render

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"time"

	"profile-backend/profiledoc/model"
)

// ErrStreamAborted is returned when emission stops after the destination was
// handed to the emitter: a write or flush failed, or ctx was canceled.
var ErrStreamAborted = errors.New("stream aborted")

const contentTypePDF = "application/pdf"

// Metadata describes the document before its first byte is written.
type Metadata struct {
	ContentType string
	Filename    string
}

// ContentDisposition formats Metadata as an attachment header value.
func (m Metadata) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": m.Filename})
}

// Destination receives the document. Write may block to apply backpressure;
// the emitter does not produce the next chunk until it returns.
type Destination interface {
	Begin(meta Metadata) error
	Write(p []byte) (int, error)
	Flush() error
}

// Emitter streams composed blocks as a PDF, one chunk per block.
type Emitter struct {
	Filename string
	Producer string
	// Now stamps the document creation date.
	Now func() time.Time
}

// NewEmitter returns an Emitter that names downloads filename.
func NewEmitter(filename string) *Emitter {
	return &Emitter{
		Filename: filename,
		Producer: "profile-backend",
		Now:      time.Now,
	}
}

// Emit writes blocks to dst and returns the number of bytes accepted by it.
// The first chunk carries the file header, the last one the cross-reference
// table; each chunk is flushed before the next block is laid out.
func (e *Emitter) Emit(ctx context.Context, blocks []model.Block, dst Destination) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStreamAborted, err)
	}
	if err := dst.Begin(Metadata{ContentType: contentTypePDF, Filename: e.Filename}); err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrStreamAborted, err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	doc := newDocument()
	doc.prologue()

	var written int64
	for i := 0; i < len(blocks) || i == 0; i++ {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return written, fmt.Errorf("%w: %w", ErrStreamAborted, err)
			}
		}
		if i < len(blocks) {
			if err := doc.block(blocks[i]); err != nil {
				return written, fmt.Errorf("%w: %s block: %w", ErrStreamAborted, blocks[i].Kind(), err)
			}
		}
		if i >= len(blocks)-1 {
			if err := doc.finish(e.Producer, now()); err != nil {
				return written, fmt.Errorf("%w: %w", ErrStreamAborted, err)
			}
		}

		n, err := dst.Write(doc.w.pending())
		written += int64(n)
		doc.w.commit(n)
		if err != nil {
			return written, fmt.Errorf("%w: write: %w", ErrStreamAborted, err)
		}
		if err := dst.Flush(); err != nil {
			return written, fmt.Errorf("%w: flush: %w", ErrStreamAborted, err)
		}
	}
	return written, nil
}
