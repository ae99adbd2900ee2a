package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"profile-backend/profiledoc/model"
	"profile-backend/profiledoc/render"
)

type fakeProfiles struct {
	profiles map[string]model.ProfileRecord
	delay    time.Duration
	onCall   func(ctx context.Context)
}

func (f *fakeProfiles) GetProfile(ctx context.Context, id string) (model.ProfileRecord, error) {
	if f.onCall != nil {
		f.onCall(ctx)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return model.ProfileRecord{}, ctx.Err()
		}
	}
	p, ok := f.profiles[id]
	if !ok {
		return model.ProfileRecord{}, ErrProfileNotFound
	}
	return p, nil
}

type fakeExperiences struct {
	items  map[string][]model.ExperienceRecord
	delay  time.Duration
	err    error
	onCall func(ctx context.Context)

	mu       sync.Mutex
	canceled bool
}

func (f *fakeExperiences) ListExperiences(ctx context.Context, profileID string) ([]model.ExperienceRecord, error) {
	if f.onCall != nil {
		f.onCall(ctx)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.mu.Lock()
			f.canceled = true
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items[profileID], nil
}

func (f *fakeExperiences) wasCanceled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canceled
}

type fakeBinaries struct {
	data  map[string][]byte
	delay time.Duration

	mu    sync.Mutex
	calls int
	refs  []string
}

func (f *fakeBinaries) FetchBinary(ctx context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.refs = append(f.refs, ref)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	data, ok := f.data[ref]
	if !ok {
		return nil, ErrImageUnavailable
	}
	return data, nil
}

func (f *fakeBinaries) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const adaImageRef = "https://cdn.example.com/u/ada.png"

func adaFixtures(t *testing.T) (*fakeProfiles, *fakeExperiences, *fakeBinaries) {
	profiles := &fakeProfiles{profiles: map[string]model.ProfileRecord{
		"ada": {ID: "ada", Name: "Ada", Surname: "Lovelace", Bio: "Mathematician", Image: adaImageRef},
	}}
	exps := &fakeExperiences{items: map[string][]model.ExperienceRecord{
		"ada": {{ID: "e1", ProfileID: "ada", Role: "Analyst", Company: "Firm A", Description: "...", Area: "Math"}},
	}}
	bins := &fakeBinaries{data: map[string][]byte{adaImageRef: pngBytes(t, 8, 6)}}
	return profiles, exps, bins
}

// recordingSink collects chunks and whether Begin ran.
type recordingSink struct {
	mu      sync.Mutex
	began   bool
	meta    render.Metadata
	chunks  [][]byte
	onWrite func(i int)
}

func (s *recordingSink) Begin(meta render.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.began = true
	s.meta = meta
	return nil
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.chunks = append(s.chunks, append([]byte(nil), p...))
	i := len(s.chunks)
	s.mu.Unlock()
	if s.onWrite != nil {
		s.onWrite(i)
	}
	return len(p), nil
}

func (s *recordingSink) Flush() error { return nil }

func (s *recordingSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.chunks {
		n += len(c)
	}
	return n
}

func (s *recordingSink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Join(s.chunks, nil)
}
