package media

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file exceeds the upload limit")
	ErrUnsupportedType = errors.New("only image uploads are accepted")
	ErrNotFound        = errors.New("media not found")
)
