package experiences

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	seq  int64
	data map[string][]Experience // profileID -> experiences in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Experience)}
}

func (r *MemoryRepo) List(ctx context.Context, profileID string) ([]Experience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Experience{}, r.data[profileID]...), nil
}

func (r *MemoryRepo) Create(ctx context.Context, e Experience) (Experience, error) {
	if err := ctx.Err(); err != nil {
		return Experience{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.Seq = r.seq
	r.data[e.ProfileID] = append(r.data[e.ProfileID], e)
	return e, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, profileID, id string) (Experience, error) {
	if err := ctx.Err(); err != nil {
		return Experience{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.data[profileID] {
		if e.ID == id {
			return e, nil
		}
	}
	return Experience{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, e Experience) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[e.ProfileID]
	for i := range items {
		if items[i].ID == e.ID {
			e.Seq = items[i].Seq
			e.CreatedAt = items[i].CreatedAt
			items[i] = e
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) Delete(ctx context.Context, profileID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[profileID]
	for i := range items {
		if items[i].ID == id {
			r.data[profileID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
