package messages

import "context"

// Repo defines persistence operations for messages.
type Repo interface {
	Create(ctx context.Context, m Message) error
	// ListByProfile returns messages sent or received by profileID, newest first.
	ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]Message, error)
	// Conversation returns messages exchanged between a and b, oldest first.
	Conversation(ctx context.Context, a, b string, limit, offset int) ([]Message, error)
	Delete(ctx context.Context, id string) error
}
