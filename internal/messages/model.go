package messages

import "time"

// MaxTextLength is the longest accepted message, in characters.
const MaxTextLength = 2000

// Message is a direct message between two profiles.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Text        string
	CreatedAt   time.Time
}
