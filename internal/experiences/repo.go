package experiences

import "context"

// Repo defines persistence operations for experiences. List returns
// insertion order.
type Repo interface {
	List(ctx context.Context, profileID string) ([]Experience, error)
	Create(ctx context.Context, e Experience) (Experience, error)
	GetByID(ctx context.Context, profileID, id string) (Experience, error)
	Update(ctx context.Context, e Experience) error
	Delete(ctx context.Context, profileID, id string) error
}
