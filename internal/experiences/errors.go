package experiences

import "errors"

var (
	ErrNotFound        = errors.New("experience not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidInput    = errors.New("invalid experience")
)
