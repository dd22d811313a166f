package util

import (
	"strings"
	"unicode"
)

// SanitizeKey trims a configuration key and drops control characters, which
// editors and shells occasionally leave in hand-written property files.
func SanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(key))
}

// SanitizeEnvValue trims v and strips one pair of matching surrounding
// quotes, as left by `export X="value"` style environments.
func SanitizeEnvValue(v string) string {
	v = strings.TrimSpace(v)
	if n := len(v); n >= 2 {
		switch {
		case v[0] == '"' && v[n-1] == '"', v[0] == '\'' && v[n-1] == '\'':
			v = strings.TrimSpace(v[1 : n-1])
		}
	}
	return v
}

// Coalesce returns the first non-zero value.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
