package messages

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Message // append order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, m)
	return nil
}

func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Message{}
	for i := len(r.data) - 1; i >= 0; i-- {
		m := r.data[i]
		if m.SenderID == profileID || m.RecipientID == profileID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

func (r *MemoryRepo) Conversation(ctx context.Context, a, b string, limit, offset int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Message{}
	for _, m := range r.data {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		if r.data[i].ID == id {
			r.data = append(r.data[:i:i], r.data[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func page(items []Message, limit, offset int) []Message {
	if offset >= len(items) {
		return []Message{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

var _ Repo = (*MemoryRepo)(nil)
