package messages

import "errors"

var (
	ErrNotFound        = errors.New("message not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidInput    = errors.New("invalid message")
)
