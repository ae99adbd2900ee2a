package profiles

import "context"

// Repo defines persistence operations for profiles.
type Repo interface {
	List(ctx context.Context, limit, offset int) ([]Profile, error)
	Create(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	Update(ctx context.Context, p Profile) error
	Delete(ctx context.Context, id string) error
}
