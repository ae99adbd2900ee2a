package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-backend/profiledoc/model"
)

func newTestPipeline(t *testing.T, profiles ProfileReader, exps ExperienceLister, bins BinaryFetcher) *Pipeline {
	t.Helper()
	p := NewPipeline(profiles, exps, bins, Config{})
	p.Emitter.Now = func() time.Time { return time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestPrepareAdaLovelace(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	p := newTestPipeline(t, profiles, exps, bins)

	blocks, n, err := p.Prepare(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, blocks, 4)

	assert.Equal(t, model.Heading{Text: "Ada Lovelace"}, blocks[0])
	assert.Equal(t, model.Paragraph{Text: "Mathematician"}, blocks[1])
	img, ok := blocks[2].(model.Image)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.Image.MediaType)
	assert.Equal(t, model.Table{
		Header: []string{"Role", "Company", "Description", "Area"},
		Rows:   [][]string{{"Analyst", "Firm A", "...", "Math"}},
	}, blocks[3])
}

func TestExportStreamsDocument(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	p := newTestPipeline(t, profiles, exps, bins)

	sink := &recordingSink{}
	res, err := p.Export(context.Background(), "ada", sink)
	require.NoError(t, err)

	assert.True(t, sink.began)
	assert.Equal(t, "application/pdf", sink.meta.ContentType)
	assert.Equal(t, "profile.pdf", sink.meta.Filename)
	assert.Len(t, sink.chunks, 4)
	assert.Equal(t, int64(sink.total()), res.Bytes)
	out := sink.bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "(Ada Lovelace) Tj")
	assert.Contains(t, string(out), "(Analyst) Tj")
}

func TestExportProfileNotFoundWritesNothing(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	p := newTestPipeline(t, profiles, exps, bins)

	sink := &recordingSink{}
	res, err := p.Export(context.Background(), "nobody", sink)

	require.ErrorIs(t, err, ErrProfileNotFound)
	assert.False(t, sink.began)
	assert.Zero(t, sink.total())
	assert.Zero(t, res.Bytes)
}

func TestExportImageUnavailableWritesNothing(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	bins.data = map[string][]byte{}
	p := newTestPipeline(t, profiles, exps, bins)

	sink := &recordingSink{}
	_, err := p.Export(context.Background(), "ada", sink)

	require.ErrorIs(t, err, ErrImageUnavailable)
	assert.False(t, sink.began)
	assert.Zero(t, sink.total())
}

func TestExportIncompleteProfile(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	ada := profiles.profiles["ada"]
	ada.Bio = ""
	profiles.profiles["ada"] = ada
	p := newTestPipeline(t, profiles, exps, bins)

	sink := &recordingSink{}
	_, err := p.Export(context.Background(), "ada", sink)
	require.ErrorIs(t, err, ErrIncompleteProfile)
	assert.Zero(t, sink.total())
}

func TestExportIsByteIdenticalAcrossRuns(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	exps.items["ada"] = append(exps.items["ada"],
		model.ExperienceRecord{Role: "Writer", Company: "Notes", Description: "Note G", Area: "Computing"},
	)
	p := newTestPipeline(t, profiles, exps, bins)

	first, second := &recordingSink{}, &recordingSink{}
	_, err := p.Export(context.Background(), "ada", first)
	require.NoError(t, err)
	_, err = p.Export(context.Background(), "ada", second)
	require.NoError(t, err)

	assert.Equal(t, first.bytes(), second.bytes())
}

func TestExportCanceledAfterHeadingStopsProduction(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	p := newTestPipeline(t, profiles, exps, bins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &recordingSink{onWrite: func(i int) {
		if i == 1 {
			cancel()
		}
	}}

	res, err := p.Export(ctx, "ada", sink)
	require.ErrorIs(t, err, ErrStreamAborted)
	require.Len(t, sink.chunks, 1)
	assert.Contains(t, string(sink.chunks[0]), "(Ada Lovelace) Tj")
	assert.Equal(t, int64(len(sink.chunks[0])), res.Bytes)
}

func TestExportCancelDuringFetchReleasesUpstream(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	exps.delay = 5 * time.Second
	p := newTestPipeline(t, profiles, exps, bins)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	sink := &recordingSink{}
	start := time.Now()
	_, err := p.Export(ctx, "ada", sink)

	require.ErrorIs(t, err, ErrStreamAborted)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, exps.wasCanceled())
	assert.Zero(t, sink.total())
}

func TestPrepareWarnsAboutGlyphsTheFontsLack(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	profiles.profiles["ada"] = model.ProfileRecord{
		ID: "ada", Name: "Ада", Surname: "Łovelace", Bio: "Математик 李", Image: adaImageRef,
	}
	logs := captureLogs(t)
	p := newTestPipeline(t, profiles, exps, bins)

	blocks, _, err := p.Prepare(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, model.Heading{Text: "Ада Łovelace"}, blocks[0])

	warned := logLines(t, logs, "export.glyphs_missing")
	require.Len(t, warned, 1)
	assert.Equal(t, "李", warned[0]["runes"])
	assert.Equal(t, "ada", warned[0]["profile_id"])
}

func TestPrepareDoesNotWarnForDrawableText(t *testing.T) {
	profiles, exps, bins := adaFixtures(t)
	logs := captureLogs(t)
	p := newTestPipeline(t, profiles, exps, bins)

	_, _, err := p.Prepare(context.Background(), "ada")
	require.NoError(t, err)
	assert.Empty(t, logLines(t, logs, "export.glyphs_missing"))
}
