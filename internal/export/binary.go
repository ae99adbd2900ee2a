package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"profile-backend/internal/shared/storage/object"
)

// SourceFetcher resolves image references. References under MediaBaseURL
// and bare storage keys are read from the object store; absolute http(s)
// URLs are downloaded.
type SourceFetcher struct {
	Client       *http.Client
	Store        object.ObjectStore
	MediaBaseURL string
	MaxBytes     int64
}

// NewSourceFetcher builds a SourceFetcher from the pipeline configuration.
func NewSourceFetcher(store object.ObjectStore, cfg Config) *SourceFetcher {
	cfg = cfg.withDefaults()
	return &SourceFetcher{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: cfg.ImageTimeout,
			},
		},
		Store:        store,
		MediaBaseURL: cfg.MediaBaseURL,
		MaxBytes:     cfg.MaxImageBytes,
	}
}

// FetchBinary returns the bytes behind ref.
func (f *SourceFetcher) FetchBinary(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrImageUnavailable)
	}
	if key, ok := f.storageKey(ref); ok {
		return f.fromStore(ctx, key)
	}
	return f.fromHTTP(ctx, ref)
}

func (f *SourceFetcher) storageKey(ref string) (string, bool) {
	base := strings.TrimSpace(f.MediaBaseURL)
	if base != "" && strings.HasPrefix(ref, base) {
		key, err := url.PathUnescape(strings.TrimPrefix(ref, base))
		if err != nil {
			return "", false
		}
		return strings.TrimLeft(key, "/"), true
	}
	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return "", false
	}
	return strings.TrimLeft(ref, "/"), true
}

func (f *SourceFetcher) fromStore(ctx context.Context, key string) ([]byte, error) {
	if f.Store == nil {
		return nil, fmt.Errorf("%w: no object store for key %q", ErrImageUnavailable, key)
	}
	rc, err := f.Store.Open(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("open %q: %w", key, ctx.Err())
		}
		return nil, fmt.Errorf("%w: open %q: %v", ErrImageUnavailable, key, err)
	}
	defer rc.Close()
	return f.readLimited(ctx, rc)
}

func (f *SourceFetcher) fromHTTP(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnavailable, err)
	}
	req.Header.Set("Accept", "image/*")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("get %s: %w", ref, ctx.Err())
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrImageUnavailable, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: get %s: status %d", ErrImageUnavailable, ref, resp.StatusCode)
	}
	if f.MaxBytes > 0 && resp.ContentLength > f.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, resp.ContentLength, f.MaxBytes)
	}
	return f.readLimited(ctx, resp.Body)
}

func (f *SourceFetcher) readLimited(ctx context.Context, r io.Reader) ([]byte, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultConfig().MaxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("read image: %w", errors.Join(ctx.Err(), err))
		}
		return nil, fmt.Errorf("%w: read: %v", ErrImageUnavailable, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, limit)
	}
	return data, nil
}
