package module

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/kbukum/modkit/config"
)

// Scoped is the configuration visible to a single module.
type Scoped struct {
	entries map[string]string
}

// NewScoped copies entries into a Scoped.
func NewScoped(entries map[string]string) Scoped {
	return Scoped{entries: maps.Clone(entries)}
}

// Scope derives the configuration of module id from view:
//
//   - declaration keys, including id's own, are dropped;
//   - the enabled key gating the bootstrap is dropped;
//   - <namespace>.<id>.<key> is kept as <key>;
//   - <namespace>.<other>.<key> is dropped;
//   - every other key is kept verbatim.
//
// A private key shadows a global key of the same local name.
func (p *Pattern) Scope(view config.View, id string) Scoped {
	prefix := p.Prefix(id)
	global := make(map[string]string)
	private := make(map[string]string)

	for key, val := range view.All() {
		if key == p.enabledKey || p.IsDeclaration(key) {
			continue
		}
		if local, ok := strings.CutPrefix(key, prefix); ok {
			if local != "" {
				private[local] = val
			}
			continue
		}
		if _, ok := p.owner(key); ok {
			continue
		}
		global[key] = val
	}

	maps.Copy(global, private)
	return Scoped{entries: global}
}

// Lookup returns the value of key and whether it is present.
func (s Scoped) Lookup(key string) (string, bool) {
	val, ok := s.entries[key]
	return val, ok
}

// Get returns the value of key, or "" if absent.
func (s Scoped) Get(key string) string {
	return s.entries[key]
}

// GetOr returns the value of key, or fallback if absent.
func (s Scoped) GetOr(key, fallback string) string {
	if val, ok := s.entries[key]; ok {
		return val
	}
	return fallback
}

// Duration parses key as a duration ("1s", "250ms"), returning fallback if the
// key is absent or unparsable.
func (s Scoped) Duration(key string, fallback time.Duration) time.Duration {
	raw, ok := s.entries[key]
	if !ok {
		return fallback
	}
	d, err := cast.ToDurationE(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return d
}

// Int parses key as an integer, returning fallback if absent or unparsable.
func (s Scoped) Int(key string, fallback int) int {
	raw, ok := s.entries[key]
	if !ok {
		return fallback
	}
	n, err := cast.ToIntE(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// Len returns the number of entries.
func (s Scoped) Len() int { return len(s.entries) }

// Keys returns all keys in lexical order.
func (s Scoped) Keys() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// All iterates over every entry in unspecified order.
func (s Scoped) All() iter.Seq2[string, string] {
	return maps.All(s.entries)
}

// Map returns a copy of the entries.
func (s Scoped) Map() map[string]string {
	return maps.Clone(s.entries)
}
