package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"profile-backend/internal/profiles"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ProfileGetter resolves message participants.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

// Service contains business logic for messages.
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

// Send stores a message from sender to recipient.
func (s *Service) Send(ctx context.Context, senderID, recipientID, text string) (Message, error) {
	senderID = strings.TrimSpace(senderID)
	recipientID = strings.TrimSpace(recipientID)
	if senderID == "" || recipientID == "" {
		return Message{}, fmt.Errorf("%w: senderId and recipientId are required", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return Message{}, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, MaxTextLength)
	}
	for _, id := range []string{senderID, recipientID} {
		if err := s.requireProfile(ctx, id); err != nil {
			return Message{}, err
		}
	}

	m := Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// List returns messages involving profileID, newest first. With withID set it
// returns the conversation between the two, oldest first.
func (s *Service) List(ctx context.Context, profileID, withID string, limit, offset int) ([]Message, error) {
	profileID = strings.TrimSpace(profileID)
	withID = strings.TrimSpace(withID)
	if profileID == "" {
		return nil, fmt.Errorf("%w: profileId is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if err := s.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	if withID == "" {
		return s.Repo.ListByProfile(ctx, profileID, limit, offset)
	}
	if err := s.requireProfile(ctx, withID); err != nil {
		return nil, err
	}
	return s.Repo.Conversation(ctx, profileID, withID, limit, offset)
}

// Delete removes a message.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
