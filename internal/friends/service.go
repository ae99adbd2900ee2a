package friends

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"profile-backend/internal/profiles"
	"profile-backend/internal/shared/telemetry"
)

// ProfileGetter resolves profiles taking part in a request.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

// Service contains business logic for friend requests.
type Service struct {
	Repo     Repo
	Profiles ProfileGetter
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, p ProfileGetter) *Service {
	return &Service{Repo: repo, Profiles: p}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) requireProfile(ctx context.Context, id string) error {
	if _, err := s.Profiles.Get(ctx, id); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return err
	}
	return nil
}

// Request opens a pending friend request from requester to recipient.
func (s *Service) Request(ctx context.Context, requesterID, recipientID string) (Friendship, error) {
	requesterID = strings.TrimSpace(requesterID)
	recipientID = strings.TrimSpace(recipientID)
	if requesterID == "" || recipientID == "" {
		return Friendship{}, fmt.Errorf("%w: requesterId and recipientId are required", ErrInvalidInput)
	}
	if requesterID == recipientID {
		return Friendship{}, fmt.Errorf("%w: cannot befriend yourself", ErrInvalidInput)
	}
	for _, id := range []string{requesterID, recipientID} {
		if err := s.requireProfile(ctx, id); err != nil {
			return Friendship{}, err
		}
	}

	now := s.now()
	f := Friendship{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		return Friendship{}, err
	}
	telemetry.Info("friend.requested", map[string]any{"id": f.ID, "requester_id": requesterID, "recipient_id": recipientID})
	return f, nil
}

// List returns requests involving profileID, optionally filtered by status.
func (s *Service) List(ctx context.Context, profileID string, status Status) ([]Friendship, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, fmt.Errorf("%w: profileId is required", ErrInvalidInput)
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if err := s.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.Repo.ListByProfile(ctx, profileID, status)
}

// Accept answers a pending request positively.
func (s *Service) Accept(ctx context.Context, id string) (Friendship, error) {
	return s.Repo.Transition(ctx, id, StatusAccepted, s.now())
}

// Reject answers a pending request negatively.
func (s *Service) Reject(ctx context.Context, id string) (Friendship, error) {
	return s.Repo.Transition(ctx, id, StatusRejected, s.now())
}

// Delete withdraws a request or ends a friendship.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

var _ profiles.FriendLister = (*Service)(nil)

// FriendLinks lists every request involving profileID, whatever its status,
// for display on the profile.
func (s *Service) FriendLinks(ctx context.Context, profileID string) ([]profiles.FriendLink, error) {
	items, err := s.Repo.ListByProfile(ctx, profileID, "")
	if err != nil {
		return nil, err
	}
	out := make([]profiles.FriendLink, 0, len(items))
	for _, f := range items {
		out = append(out, profiles.FriendLink{
			ID:          f.ID,
			RequesterID: f.RequesterID,
			RecipientID: f.RecipientID,
			Status:      string(f.Status),
		})
	}
	return out, nil
}
