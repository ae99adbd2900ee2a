package export

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"profile-backend/internal/media"
	localstore "profile-backend/internal/shared/storage/object/local"
)

func TestFetchBinaryOverHTTP(t *testing.T) {
	payload := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		case "/big.png":
			_, _ = w.Write(bytes.Repeat([]byte{1}, 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &SourceFetcher{Client: srv.Client(), MaxBytes: 1024}

	got, err := f.FetchBinary(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = f.FetchBinary(context.Background(), srv.URL+"/missing.png")
	require.ErrorIs(t, err, ErrImageUnavailable)

	_, err = f.FetchBinary(context.Background(), srv.URL+"/big.png")
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestFetchBinaryUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	f := &SourceFetcher{Client: &http.Client{}, MaxBytes: 1024}
	_, err := f.FetchBinary(context.Background(), addr+"/ada.png")
	require.ErrorIs(t, err, ErrImageUnavailable)
}

func TestFetchBinaryCancellationReleasesRequest(t *testing.T) {
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			close(released)
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	f := &SourceFetcher{Client: srv.Client(), MaxBytes: 1024}
	_, err := f.FetchBinary(ctx, srv.URL+"/slow.png")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrImageUnavailable)

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream request was not canceled")
	}
}

func TestFetchBinaryFromObjectStore(t *testing.T) {
	store := localstore.New(t.TempDir())
	payload := pngBytes(t, 3, 3)
	obj, err := store.Put(context.Background(), "ada", "avatar.png", bytes.NewReader(payload))
	require.NoError(t, err)

	f := &SourceFetcher{Store: store, MediaBaseURL: "/api/v1/media/", MaxBytes: 1 << 20}

	got, err := f.FetchBinary(context.Background(), "/api/v1/media/"+obj.Key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = f.FetchBinary(context.Background(), obj.Key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = f.FetchBinary(context.Background(), "/api/v1/media/"+strings.Replace(obj.Key, "avatar", "other", 1))
	require.ErrorIs(t, err, ErrImageUnavailable)

	_, err = f.FetchBinary(context.Background(), "")
	require.ErrorIs(t, err, ErrImageUnavailable)
}

func TestNewSourceFetcherDefaultsMediaBaseURL(t *testing.T) {
	store := localstore.New(t.TempDir())
	payload := pngBytes(t, 2, 2)
	obj, err := store.Put(context.Background(), "ada", "avatar.png", bytes.NewReader(payload))
	require.NoError(t, err)

	f := NewSourceFetcher(store, Config{})
	assert.Equal(t, DefaultConfig().MediaBaseURL, f.MediaBaseURL)

	got, err := f.FetchBinary(context.Background(), "/api/v1/media/"+obj.Key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUploadedImageFormatsNormalize(t *testing.T) {
	var bmpData bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpData, image.NewRGBA(image.Rect(0, 0, 3, 2))))

	store := localstore.New(t.TempDir())
	uploads := media.NewService(store, "/api/v1/media/", 0)
	f := NewSourceFetcher(store, Config{})
	n := Normalizer{MaxBytes: 1 << 20}

	for _, tc := range []struct {
		name   string
		data   []byte
		format string
	}{
		{"me.png", pngBytes(t, 3, 2), "png"},
		{"me.bmp", bmpData.Bytes(), "bmp"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stored, err := uploads.Upload(context.Background(), "ada", tc.name, bytes.NewReader(tc.data))
			require.NoError(t, err)

			data, err := f.FetchBinary(context.Background(), stored.URL)
			require.NoError(t, err)

			img, err := n.Normalize(stored.URL, data)
			require.NoError(t, err)
			assert.Equal(t, tc.format, img.Format)
			assert.False(t, img.DeclaredTypeSuspect)
			assert.Equal(t, 3, img.Width)
		})
	}
}
