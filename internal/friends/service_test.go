package friends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-backend/internal/profiles"
)

type stubProfiles map[string]bool

func (s stubProfiles) Get(_ context.Context, id string) (profiles.Profile, error) {
	if !s[id] {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return profiles.Profile{ID: id}, nil
}

func newTestService() *Service {
	svc := NewService(NewMemoryRepo(), stubProfiles{"ada": true, "charles": true, "mary": true})
	clock := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestRequestRules(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Request(ctx, "ada", "ada")
	assert.ErrorIs(t, err, ErrInvalidInput, "self request")
	_, err = svc.Request(ctx, "ada", "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	f, err := svc.Request(ctx, "ada", "charles")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, f.Status)

	_, err = svc.Request(ctx, "charles", "ada")
	assert.ErrorIs(t, err, ErrConflict, "reverse duplicate")
}

func TestAnswerOnlyPending(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, err := svc.Request(ctx, "ada", "charles")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	assert.True(t, accepted.UpdatedAt.After(f.UpdatedAt))

	_, err = svc.Reject(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = svc.Accept(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Request(ctx, "charles", "ada")
	assert.ErrorIs(t, err, ErrConflict, "accepted pair must block new requests")
}

func TestRejectedPairCanRequestAgain(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, err := svc.Request(ctx, "ada", "mary")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, f.ID)
	require.NoError(t, err)
	_, err = svc.Request(ctx, "mary", "ada")
	assert.NoError(t, err)
}

func TestListFiltersByProfileAndStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, _ := svc.Request(ctx, "ada", "charles")
	_, _ = svc.Request(ctx, "mary", "ada")
	_, _ = svc.Request(ctx, "charles", "mary")
	_, _ = svc.Accept(ctx, first.ID)

	all, err := svc.List(ctx, "ada", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "mary", all[0].RequesterID, "newest first")

	accepted, err := svc.List(ctx, "ada", StatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, first.ID, accepted[0].ID)

	_, err = svc.List(ctx, "ada", Status("maybe"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.List(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFriendLinksCoverEveryStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, _ := svc.Request(ctx, "ada", "charles")
	second, _ := svc.Request(ctx, "mary", "ada")
	_, _ = svc.Request(ctx, "charles", "mary")
	_, _ = svc.Reject(ctx, first.ID)

	links, err := svc.FriendLinks(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, []profiles.FriendLink{
		{ID: second.ID, RequesterID: "mary", RecipientID: "ada", Status: "pending"},
		{ID: first.ID, RequesterID: "ada", RecipientID: "charles", Status: "rejected"},
	}, links)

	links, err = svc.FriendLinks(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, links)
}
