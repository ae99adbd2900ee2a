package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Profile)}
}

// List returns profiles oldest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Profile, 0, len(r.data))
	for _, p := range r.data {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Profile{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) Create(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(p) {
		return ErrConflict
	}
	r.data[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[p.ID]
	if !ok {
		return ErrNotFound
	}
	if r.takenLocked(p) {
		return ErrConflict
	}
	p.CreatedAt = existing.CreatedAt
	r.data[p.ID] = p
	return nil
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

// takenLocked reports whether another profile holds p's email or username.
func (r *MemoryRepo) takenLocked(p Profile) bool {
	for id, other := range r.data {
		if id == p.ID {
			continue
		}
		if strings.EqualFold(other.Email, p.Email) || strings.EqualFold(other.Username, p.Username) {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
