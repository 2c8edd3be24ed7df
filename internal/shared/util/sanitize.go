package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 128

// SanitizeFileName removes path separators and control characters and rejects traversal patterns.
// Long names keep their extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if runes := []rune(s); len(runes) > maxFileNameLen {
		ext := []rune(extension(s))
		if len(ext) >= maxFileNameLen {
			ext = nil
		}
		s = string(runes[:maxFileNameLen-len(ext)]) + string(ext)
	}
	return s, nil
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return ""
	}
	return name[i:]
}
