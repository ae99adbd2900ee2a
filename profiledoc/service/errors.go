package service

import "errors"

// ErrIncompleteProfile is returned when a required profile field is blank.
var ErrIncompleteProfile = errors.New("incomplete profile")
