package friends

import "time"

// Status of a friend request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// open statuses block a new request between the same pair.
func (s Status) open() bool {
	return s == StatusPending || s == StatusAccepted
}

// Friendship is a friend request between two profiles.
type Friendship struct {
	ID          string
	RequesterID string
	RecipientID string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Involves reports whether profileID is either side of the request.
func (f Friendship) Involves(profileID string) bool {
	return f.RequesterID == profileID || f.RecipientID == profileID
}

func samePair(f Friendship, a, b string) bool {
	return (f.RequesterID == a && f.RecipientID == b) || (f.RequesterID == b && f.RecipientID == a)
}
