package experiences

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"profile-backend/internal/media"
	"profile-backend/internal/profiles"
)

// ProfileGetter resolves the owning profile.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

// Service contains business logic for experiences.
type Service struct {
	Repo     Repo
	Profiles ProfileGetter
	Media    *media.Service
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, p ProfileGetter, m *media.Service) *Service {
	return &Service{Repo: repo, Profiles: p, Media: m}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) requireProfile(ctx context.Context, profileID string) error {
	if strings.TrimSpace(profileID) == "" {
		return ErrProfileNotFound
	}
	if _, err := s.Profiles.Get(ctx, profileID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

// List returns a profile's experiences in insertion order.
func (s *Service) List(ctx context.Context, profileID string) ([]Experience, error) {
	if err := s.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, profileID)
}

// Create validates and appends an experience to a profile.
func (s *Service) Create(ctx context.Context, profileID string, e Experience) (Experience, error) {
	if err := s.requireProfile(ctx, profileID); err != nil {
		return Experience{}, err
	}
	e = normalize(e)
	if err := validate(e); err != nil {
		return Experience{}, err
	}
	now := s.now()
	e.ID = uuid.NewString()
	e.ProfileID = profileID
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.Repo.Create(ctx, e)
}

// Get returns one experience of a profile.
func (s *Service) Get(ctx context.Context, profileID, id string) (Experience, error) {
	if err := s.requireProfile(ctx, profileID); err != nil {
		return Experience{}, err
	}
	return s.Repo.GetByID(ctx, profileID, id)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, profileID, id string, ch Changes) (Experience, error) {
	current, err := s.Get(ctx, profileID, id)
	if err != nil {
		return Experience{}, err
	}
	next := normalize(ch.apply(current))
	if err := validate(next); err != nil {
		return Experience{}, err
	}
	next.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, next); err != nil {
		return Experience{}, err
	}
	return next, nil
}

// Delete removes one experience.
func (s *Service) Delete(ctx context.Context, profileID, id string) error {
	if err := s.requireProfile(ctx, profileID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, profileID, id)
}

// UploadPicture stores an image and attaches it to the experience.
func (s *Service) UploadPicture(ctx context.Context, profileID, id, fileName string, r io.Reader) (Experience, error) {
	if _, err := s.Get(ctx, profileID, id); err != nil {
		return Experience{}, err
	}
	stored, err := s.Media.Upload(ctx, profileID, fileName, r)
	if err != nil {
		return Experience{}, err
	}
	return s.Update(ctx, profileID, id, Changes{Image: &stored.URL})
}

func normalize(e Experience) Experience {
	e.Role = strings.TrimSpace(e.Role)
	e.Company = strings.TrimSpace(e.Company)
	e.Area = strings.TrimSpace(e.Area)
	e.StartDate = dateOnly(e.StartDate)
	if e.EndDate != nil {
		end := dateOnly(*e.EndDate)
		e.EndDate = &end
	}
	return e
}

func validate(e Experience) error {
	if e.Role == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidInput)
	}
	if e.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
