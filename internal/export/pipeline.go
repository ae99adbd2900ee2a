package export

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"profile-backend/internal/shared/metrics"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/profiledoc/model"
	"profile-backend/profiledoc/render"
	"profile-backend/profiledoc/service"
)

// Pipeline runs fetch, normalize, build, compose and emit for one profile.
// It holds no per-request state and may serve concurrent exports.
type Pipeline struct {
	Fetcher    *Fetcher
	Normalizer Normalizer
	Emitter    *render.Emitter
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(profiles ProfileReader, experiences ExperienceLister, binaries BinaryFetcher, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		Fetcher: &Fetcher{
			Profiles:    profiles,
			Experiences: experiences,
			Binaries:    binaries,
			Config:      cfg,
		},
		Normalizer: Normalizer{MaxBytes: cfg.MaxImageBytes, MaxPixels: cfg.MaxImagePixels},
		Emitter:    render.NewEmitter(cfg.Filename),
	}
}

// Result summarizes one export.
type Result struct {
	Bytes       int64
	Experiences int
	Duration    time.Duration
}

// Prepare fetches and composes the document blocks without writing anything.
func (p *Pipeline) Prepare(ctx context.Context, profileID string) ([]model.Block, int, error) {
	res, err := p.Fetcher.Fetch(ctx, profileID)
	if err != nil {
		return nil, 0, err
	}

	_, span := tracer.Start(ctx, "export.compose")
	defer span.End()

	img, err := p.Normalizer.Normalize(res.Profile.Image, res.Image)
	if err != nil {
		recordError(span, err)
		return nil, 0, err
	}
	if img.DeclaredTypeSuspect {
		telemetry.Warn("export.image_type_suspect", map[string]any{
			"profile_id":      profileID,
			"declared_type":   img.MediaType,
			"detected_format": img.Format,
		})
	}

	vm, err := service.BuildViewModel(res.Profile, res.Experiences, img)
	if err != nil {
		recordError(span, err)
		return nil, 0, err
	}
	blocks := service.Compose(vm)
	span.SetAttributes(attribute.Int("blocks", len(blocks)))
	if missing := unrenderableRunes(blocks); len(missing) > 0 {
		span.SetAttributes(attribute.String("glyphs.missing", string(missing)))
		telemetry.Warn("export.glyphs_missing", map[string]any{
			"profile_id": profileID,
			"runes":      string(missing),
			"count":      len(missing),
		})
	}
	return blocks, len(res.Experiences), nil
}

// unrenderableRunes collects the distinct runes that will be drawn as '?'.
func unrenderableRunes(blocks []model.Block) []rune {
	var out []rune
	seen := map[rune]bool{}
	add := func(s string) {
		for _, r := range render.Unrenderable(s) {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	for _, b := range blocks {
		switch b := b.(type) {
		case model.Heading:
			add(b.Text)
		case model.Paragraph:
			add(b.Text)
		case model.Table:
			for _, cell := range b.Header {
				add(cell)
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					add(cell)
				}
			}
		}
	}
	return out
}

// Export streams the document of profileID into dst. Errors returned before
// dst.Begin is called leave dst untouched; once bytes were written, failures
// are ErrStreamAborted.
func (p *Pipeline) Export(ctx context.Context, profileID string, dst render.Destination) (Result, error) {
	start := time.Now()
	metrics.IncExportStarted()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "export.run")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", profileID))

	blocks, count, err := p.Prepare(ctx, profileID)
	if err != nil {
		p.fail(span, err)
		return Result{Duration: time.Since(start)}, err
	}

	emitCtx, emitSpan := tracer.Start(ctx, "export.emit")
	n, err := p.Emitter.Emit(emitCtx, blocks, dst)
	emitSpan.SetAttributes(attribute.Int64("bytes", n))
	emitSpan.End()

	metrics.AddExportBytes(n)
	result := Result{Bytes: n, Experiences: count, Duration: time.Since(start)}
	if err != nil {
		p.fail(span, err)
		return result, err
	}

	metrics.IncExportCompleted()
	metrics.ObserveExportDurationMs(metrics.SinceMillis(start))
	return result, nil
}

func (p *Pipeline) fail(span trace.Span, err error) {
	if errors.Is(err, ErrStreamAborted) {
		metrics.IncExportAborted()
	} else {
		metrics.IncExportFailed()
	}
	recordError(span, err)
}
