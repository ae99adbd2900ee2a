package profiles

import "errors"

var (
	ErrNotFound     = errors.New("profile not found")
	ErrInvalidInput = errors.New("invalid profile")
	// ErrConflict reports an email or username already taken by another profile.
	ErrConflict = errors.New("email or username already in use")
)
