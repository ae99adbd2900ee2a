package friends

import (
	"context"
	"time"
)

// Repo defines persistence operations for friend requests.
type Repo interface {
	// Create fails with ErrConflict when an open request links the pair.
	Create(ctx context.Context, f Friendship) error
	GetByID(ctx context.Context, id string) (Friendship, error)
	ListByProfile(ctx context.Context, profileID string, status Status) ([]Friendship, error)
	// Transition moves a pending request to status; ErrNotPending otherwise.
	Transition(ctx context.Context, id string, status Status, at time.Time) (Friendship, error)
	Delete(ctx context.Context, id string) error
}
