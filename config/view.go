package config

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// View is an immutable snapshot of a flat string-keyed configuration.
// It is the only configuration source module discovery reads from; hosts
// build one per bootstrap and pass it explicitly.
type View struct {
	entries map[string]string
}

// NewView copies entries into a new View. Keys are kept exactly as given.
func NewView(entries map[string]string) View {
	return View{entries: maps.Clone(entries)}
}

// Lookup returns the value stored under key and whether it exists.
func (v View) Lookup(key string) (string, bool) {
	val, ok := v.entries[key]
	return val, ok
}

// Get returns the value stored under key, or "" if absent.
func (v View) Get(key string) string {
	return v.entries[key]
}

// Bool reports whether key holds "true" or "1". Case and surrounding
// whitespace are ignored. Every other value, including "t", "yes" and "on",
// is false, as is an absent key.
func (v View) Bool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(v.entries[key])) {
	case "true", "1":
		return true
	}
	return false
}

// Len returns the number of entries.
func (v View) Len() int {
	return len(v.entries)
}

// All iterates over every entry. Iteration order is unspecified and differs
// between calls.
func (v View) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, val := range v.entries {
			if !yield(k, val) {
				return
			}
		}
	}
}

// Keys returns all keys in lexical order.
func (v View) Keys() []string {
	return slices.Sorted(maps.Keys(v.entries))
}

// Map returns a copy of the entries.
func (v View) Map() map[string]string {
	return maps.Clone(v.entries)
}

// Merge returns a new View holding v's entries overlaid with other's.
func (v View) Merge(other View) View {
	merged := make(map[string]string, len(v.entries)+len(other.entries))
	maps.Copy(merged, v.entries)
	maps.Copy(merged, other.entries)
	return View{entries: merged}
}
