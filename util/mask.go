package util

import (
	"maps"
	"strings"
)

// sensitiveParts mark a configuration key as holding a secret.
var sensitiveParts = []string{"password", "passwd", "secret", "token", "apikey", "api_key", "credential", "private_key"}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if visiblePrefix < 0 || len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}

// IsSensitiveKey reports whether the last segment of a dotted key names a
// secret, e.g. "db.password" or "auth.api_key".
func IsSensitiveKey(key string) bool {
	last := strings.ToLower(key)
	if i := strings.LastIndexByte(last, '.'); i >= 0 {
		last = last[i+1:]
	}
	for _, part := range sensitiveParts {
		if strings.Contains(last, part) {
			return true
		}
	}
	return false
}

// MaskValues returns a copy of m with the values of sensitive keys masked.
func MaskValues(m map[string]string) map[string]string {
	out := maps.Clone(m)
	for k, v := range out {
		if IsSensitiveKey(k) {
			out[k] = MaskSecret(v, 0)
		}
	}
	return out
}
