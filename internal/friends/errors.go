package friends

import "errors"

var (
	ErrNotFound        = errors.New("friend request not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidInput    = errors.New("invalid friend request")
	// ErrConflict reports an open or accepted request already linking the pair.
	ErrConflict = errors.New("friend request already exists")
	// ErrNotPending reports a state change on a request that was already answered.
	ErrNotPending = errors.New("friend request is not pending")
)
