package friends

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Friendship
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Friendship)}
}

func (r *MemoryRepo) Create(ctx context.Context, f Friendship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.data {
		if samePair(other, f.RequesterID, f.RecipientID) && other.Status.open() {
			return ErrConflict
		}
	}
	r.data[f.ID] = f
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Friendship, error) {
	if err := ctx.Err(); err != nil {
		return Friendship{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.data[id]
	if !ok {
		return Friendship{}, ErrNotFound
	}
	return f, nil
}

// ListByProfile returns requests involving profileID, newest first. An empty
// status matches all.
func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string, status Status) ([]Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Friendship{}
	for _, f := range r.data {
		if f.Involves(profileID) && (status == "" || f.Status == status) {
			out = append(out, f)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Transition(ctx context.Context, id string, status Status, at time.Time) (Friendship, error) {
	if err := ctx.Err(); err != nil {
		return Friendship{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.data[id]
	if !ok {
		return Friendship{}, ErrNotFound
	}
	if f.Status != StatusPending {
		return Friendship{}, ErrNotPending
	}
	f.Status = status
	f.UpdatedAt = at
	r.data[id] = f
	return f, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
