package export

import (
	"errors"

	"profile-backend/profiledoc/render"
	"profile-backend/profiledoc/service"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrImageUnavailable = errors.New("image unavailable")
	ErrImageDecode      = errors.New("image decode error")
	ErrImageTooLarge    = errors.New("image too large")

	ErrIncompleteProfile = service.ErrIncompleteProfile
	ErrStreamAborted     = render.ErrStreamAborted
)
