package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"profile-backend/internal/media"
)

// FriendLister lists the friend requests a profile takes part in.
type FriendLister interface {
	FriendLinks(ctx context.Context, profileID string) ([]FriendLink, error)
}

// Service contains business logic for profiles.
type Service struct {
	Repo  Repo
	Media *media.Service
	// Friends is optional; without it profiles are returned with no friends.
	Friends FriendLister
	Now     func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, m *media.Service) *Service {
	return &Service{Repo: repo, Media: m}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns a page of profiles.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Create validates and stores a new profile.
func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	p = normalize(p)
	if err := validate(p); err != nil {
		return Profile{}, err
	}
	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.Repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Get returns a profile by ID.
func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Update applies a partial update; the result must still be a valid profile.
func (s *Service) Update(ctx context.Context, id string, ch Changes) (Profile, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	next := normalize(ch.apply(current))
	if err := validate(next); err != nil {
		return Profile{}, err
	}
	next.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, next); err != nil {
		return Profile{}, err
	}
	return next, nil
}

// Delete removes a profile.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}

// UploadImage stores an image and points the profile at it.
func (s *Service) UploadImage(ctx context.Context, id, fileName string, r io.Reader) (Profile, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Profile{}, err
	}
	stored, err := s.Media.Upload(ctx, id, fileName, r)
	if err != nil {
		return Profile{}, err
	}
	return s.Update(ctx, id, Changes{Image: &stored.URL})
}

// FriendsOf resolves the friend requests of p. Requests whose other side no
// longer exists are skipped.
func (s *Service) FriendsOf(ctx context.Context, p Profile) ([]Friend, error) {
	if s.Friends == nil {
		return []Friend{}, nil
	}
	links, err := s.Friends.FriendLinks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", p.ID, err)
	}
	parties := map[string]Party{p.ID: partyOf(p)}
	lookup := func(id string) (Party, bool, error) {
		if party, ok := parties[id]; ok {
			return party, true, nil
		}
		other, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return Party{}, false, nil
		}
		if err != nil {
			return Party{}, false, err
		}
		parties[id] = partyOf(other)
		return parties[id], true, nil
	}

	out := make([]Friend, 0, len(links))
	for _, l := range links {
		requester, ok, err := lookup(l.RequesterID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		recipient, ok, err := lookup(l.RecipientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, Friend{ID: l.ID, Status: l.Status, Requester: requester, Recipient: recipient})
	}
	return out, nil
}

func normalize(p Profile) Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Surname = strings.TrimSpace(p.Surname)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Username = strings.TrimSpace(p.Username)
	p.Title = strings.TrimSpace(p.Title)
	p.Area = strings.TrimSpace(p.Area)
	p.Image = strings.TrimSpace(p.Image)
	return p
}

func validate(p Profile) error {
	for _, f := range []struct{ name, value string }{
		{"name", p.Name},
		{"surname", p.Surname},
		{"email", p.Email},
		{"username", p.Username},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	return nil
}
