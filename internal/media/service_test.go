package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	localstore "profile-backend/internal/shared/storage/object/local"
)

func tinyImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, tinyImage()))
	return buf.Bytes()
}

func TestUploadStoresImageAndBuildsURL(t *testing.T) {
	svc := NewService(localstore.New(t.TempDir()), "/api/v1/media", 0)

	stored, err := svc.Upload(context.Background(), "profile-1", "me.png", bytes.NewReader(tinyPNG(t)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.ContentType)
	assert.Equal(t, "/api/v1/media/"+stored.Key, stored.URL)

	contentType, rc, err := svc.Open(context.Background(), "/"+stored.Key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, tinyPNG(t), got)
}

func TestUploadRejects(t *testing.T) {
	svc := NewService(localstore.New(t.TempDir()), "/m/", 16)

	cases := []struct {
		name string
		body []byte
		want error
	}{
		{"empty", nil, ErrEmptyFile},
		{"text", []byte("hello"), ErrUnsupportedType},
		{"too large", bytes.Repeat([]byte{0x89}, 17), ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), "p", "f.png", bytes.NewReader(tc.body))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUploadAcceptsOnlyExportableImageTypes(t *testing.T) {
	svc := NewService(localstore.New(t.TempDir()), "/m/", 0)

	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, tinyImage()))
	stored, err := svc.Upload(context.Background(), "p", "a.bmp", &bmpBuf)
	require.NoError(t, err)
	assert.Equal(t, "image/bmp", stored.ContentType)

	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="2" height="2"></svg>`
	_, err = svc.Upload(context.Background(), "p", "a.svg", strings.NewReader(svg))
	assert.ErrorIs(t, err, ErrUnsupportedType, "svg")

	heic := append([]byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic"), make([]byte, 32)...)
	_, err = svc.Upload(context.Background(), "p", "a.heic", bytes.NewReader(heic))
	assert.ErrorIs(t, err, ErrUnsupportedType, "heic")
}

func TestOpenMissingKey(t *testing.T) {
	svc := NewService(localstore.New(t.TempDir()), "/m/", 0)
	for _, key := range []string{"", "/", "abc/missing.png"} {
		_, _, err := svc.Open(context.Background(), key)
		assert.ErrorIs(t, err, ErrNotFound, "key %q", key)
	}
}

func TestUploadNamesNamelessFile(t *testing.T) {
	svc := NewService(localstore.New(t.TempDir()), "/m/", 0)
	stored, err := svc.Upload(context.Background(), "p", "  ", bytes.NewReader(tinyPNG(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Key, "upload.png"), stored.Key)
}
