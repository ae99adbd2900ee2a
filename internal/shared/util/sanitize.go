package util

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that cannot be stored safely.
var ErrInvalidFileName = errors.New("invalid file name")

const maxFileNameLen = 128

// SanitizeFileName flattens path separators, drops control characters and
// rejects traversal. The extension survives truncation.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		case unicode.IsSpace(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" || strings.Trim(s, "_.") == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := ""
		if i := strings.LastIndexByte(s, '.'); i > 0 && len(s)-i <= 16 {
			ext = s[i:]
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}
