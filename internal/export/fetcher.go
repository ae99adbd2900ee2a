package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"profile-backend/profiledoc/model"
)

// ProfileReader returns ErrProfileNotFound when no profile has the id.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (model.ProfileRecord, error)
}

// ExperienceLister returns experiences in insertion order.
type ExperienceLister interface {
	ListExperiences(ctx context.Context, profileID string) ([]model.ExperienceRecord, error)
}

// BinaryFetcher returns ErrImageUnavailable when ref cannot be retrieved.
type BinaryFetcher interface {
	FetchBinary(ctx context.Context, ref string) ([]byte, error)
}

// Resources is everything an export needs from upstream.
type Resources struct {
	Profile     model.ProfileRecord
	Experiences []model.ExperienceRecord
	Image       []byte
}

// Fetcher gathers Resources. The profile and its experiences are read
// concurrently; the image is fetched once the profile is known.
type Fetcher struct {
	Profiles    ProfileReader
	Experiences ExperienceLister
	Binaries    BinaryFetcher
	Config      Config
}

// Fetch returns the resources of profileID. When both concurrent reads fail
// the profile error wins.
func (f *Fetcher) Fetch(ctx context.Context, profileID string) (Resources, error) {
	ctx, span := tracer.Start(ctx, "export.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", profileID))

	cfg := f.Config.withDefaults()
	var res Resources

	// A profile failure cancels the experience read; an experience failure
	// waits for the profile so that a missing profile is always reported as
	// ErrProfileNotFound.
	expCtx, cancelExp := context.WithCancel(ctx)
	defer cancelExp()

	var g errgroup.Group
	var profileErr, expErr error
	g.Go(func() error {
		res.Profile, profileErr = callWithTimeout(ctx, cfg.ProfileTimeout, "profile", func(c context.Context) (model.ProfileRecord, error) {
			return f.Profiles.GetProfile(c, profileID)
		})
		if profileErr != nil {
			cancelExp()
		}
		return profileErr
	})
	g.Go(func() error {
		res.Experiences, expErr = callWithTimeout(expCtx, cfg.ExperienceTimeout, "experiences", func(c context.Context) ([]model.ExperienceRecord, error) {
			return f.Experiences.ListExperiences(c, profileID)
		})
		return expErr
	})
	if err := g.Wait(); err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("%w: %w", ErrStreamAborted, ctx.Err())
		case profileErr != nil:
			err = profileErr
		}
		recordError(span, err)
		return Resources{}, err
	}

	ref := strings.TrimSpace(res.Profile.Image)
	if ref == "" {
		err := fmt.Errorf("%w: profile has no image", ErrImageUnavailable)
		recordError(span, err)
		return Resources{}, err
	}

	img, err := callWithTimeout(ctx, cfg.ImageTimeout, "image", func(c context.Context) ([]byte, error) {
		return f.Binaries.FetchBinary(c, ref)
	})
	if err != nil {
		recordError(span, err)
		return Resources{}, err
	}
	res.Image = img
	span.SetAttributes(
		attribute.Int("experience.count", len(res.Experiences)),
		attribute.Int("image.bytes", len(img)),
	)
	return res, nil
}

// callWithTimeout runs fn under its own deadline. Expiry of that deadline is
// ErrUpstreamTimeout; cancellation of ctx itself is ErrStreamAborted.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, name string, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(callCtx)
	if err == nil {
		return v, nil
	}
	var zero T
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrStreamAborted, name, ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return zero, fmt.Errorf("%w: %s after %s", ErrUpstreamTimeout, name, timeout)
	}
	return zero, fmt.Errorf("%s: %w", name, err)
}
