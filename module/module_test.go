package module

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
)

func newTestResolver(t *testing.T, ns string) (*Resolver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	return NewResolver(MustPattern(ns), WithLogger(log)), &buf
}

func TestNewPattern(t *testing.T) {
	tests := []struct {
		ns      string
		wantErr bool
	}{
		{"module", false},
		{"modkit.module", false},
		{"", true},
		{".module", true},
		{"module.", true},
	}
	for _, tc := range tests {
		t.Run(tc.ns, func(t *testing.T) {
			_, err := NewPattern(tc.ns)
			if tc.wantErr {
				if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
					t.Fatalf("expected INVALID_CONFIG, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPatternMatch(t *testing.T) {
	p := MustPattern("modkit.module")
	tests := []struct {
		key   string
		id    string
		order int
		ok    bool
	}{
		{"modkit.module.A.1", "A", 1, true},
		{"modkit.module.graphQL2.0", "graphQL2", 0, true},
		{"modkit.module.A.007", "A", 7, true},
		{"modkit.module.A.-1", "", 0, false},
		{"modkit.module.A.one", "", 0, false},
		{"modkit.module.A.1.extra", "", 0, false},
		{"modkit.module.A", "", 0, false},
		{"modkit.module..1", "", 0, false},
		{"modkit.module.my-mod.1", "", 0, false},
		{"modkit.module.A.1 ", "", 0, false},
		{"other.modkit.module.A.1", "", 0, false},
		{"modkitXmodule.A.1", "", 0, false},
		{"modkit.module.A.99999999999999999999999", "", 0, false},
		{"modkit.module.enabled", "", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			id, order, ok := p.Match(tc.key)
			if ok != tc.ok || id != tc.id || order != tc.order {
				t.Errorf("Match(%q) = (%q, %d, %v), want (%q, %d, %v)", tc.key, id, order, ok, tc.id, tc.order, tc.ok)
			}
		})
	}
}

func TestPatternHelpers(t *testing.T) {
	p := MustPattern("module")
	if p.Namespace() != "module" {
		t.Errorf("Namespace() = %q", p.Namespace())
	}
	if p.EnabledKey() != "module.enabled" {
		t.Errorf("EnabledKey() = %q", p.EnabledKey())
	}
	if p.Prefix("A") != "module.A." {
		t.Errorf("Prefix() = %q", p.Prefix("A"))
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"A1", false},
		{"heartbeat", false},
		{"", true},
		{"a.b", true},
		{"A-1", true},
		{"A 1", true},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			err := ValidateID(tc.id)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateID(%q) error = %v, wantErr %v", tc.id, err, tc.wantErr)
			}
			if err != nil && !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestResolve_Scenario(t *testing.T) {
	view := config.NewView(map[string]string{
		"module.enabled":     "true",
		"module.A.1":         "FactoryA",
		"module.A.threshold": "20",
		"module.B.2":         "FactoryB",
	})
	r, _ := newTestResolver(t, "module")

	got := r.Resolve(view)
	want := []Descriptor{
		{ID: "A", Order: 1, FactoryRef: "FactoryA", Key: "module.A.1"},
		{ID: "B", Order: 2, FactoryRef: "FactoryB", Key: "module.B.2"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}

	scopeA := r.Scope(view, "A")
	if want := map[string]string{"threshold": "20"}; !maps.Equal(scopeA.Map(), want) {
		t.Errorf("Scope(A) = %v, want %v", scopeA.Map(), want)
	}
	if scopeB := r.Scope(view, "B"); scopeB.Len() != 0 {
		t.Errorf("Scope(B) = %v, want empty", scopeB.Map())
	}
}

func TestScope_EnabledKeyNeverVisible(t *testing.T) {
	view := config.NewView(map[string]string{
		"module.enabled":     "true",
		"features.modules":   "on",
		"module.A.1":         "FactoryA",
		"module.A.threshold": "20",
		"region":             "eu",
	})

	tests := []struct {
		name    string
		pattern *Pattern
		want    map[string]string
	}{
		{
			name:    "default key",
			pattern: MustPattern("module"),
			want:    map[string]string{"threshold": "20", "features.modules": "on", "region": "eu"},
		},
		{
			name:    "custom key",
			pattern: MustPattern("module").WithEnabledKey("features.modules"),
			want:    map[string]string{"threshold": "20", "module.enabled": "true", "region": "eu"},
		},
		{
			name:    "empty key keeps default",
			pattern: MustPattern("module").WithEnabledKey(""),
			want:    map[string]string{"threshold": "20", "features.modules": "on", "region": "eu"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pattern.Scope(view, "A").Map(); !maps.Equal(got, tc.want) {
				t.Errorf("Scope(A) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolve_SortedRegardlessOfInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r, _ := newTestResolver(t, "modkit.module")

	for round := 0; round < 20; round++ {
		entries := map[string]string{"unrelated.key": "x"}
		orders := rng.Perm(50)
		for i, o := range orders {
			entries[fmt.Sprintf("modkit.module.m%d.%d", i, o)] = fmt.Sprintf("ref%d", i)
		}

		got := r.Resolve(config.NewView(entries))
		if len(got) != len(orders) {
			t.Fatalf("round %d: expected %d descriptors, got %d", round, len(orders), len(got))
		}
		if !slices.IsSortedFunc(got, func(a, b Descriptor) int { return a.Order - b.Order }) {
			t.Fatalf("round %d: descriptors not sorted: %v", round, got)
		}
	}
}

func TestResolve_TiesKeptAndWarned(t *testing.T) {
	view := config.NewView(map[string]string{
		"module.enabled": "true",
		"module.X.3":     "FactoryX",
		"module.Y.3":     "FactoryY",
		"module.Z.1":     "FactoryZ",
	})
	r, buf := newTestResolver(t, "module")

	res := r.ResolveDetailed(view)
	if len(res.Descriptors) != 3 {
		t.Fatalf("expected 3 descriptors, got %v", res.Descriptors)
	}
	if res.Descriptors[0].ID != "Z" {
		t.Errorf("expected Z first, got %v", res.Descriptors)
	}
	tied := []string{res.Descriptors[1].ID, res.Descriptors[2].ID}
	slices.Sort(tied)
	if !slices.Equal(tied, []string{"X", "Y"}) {
		t.Errorf("expected X and Y once each, got %v", tied)
	}
	if !slices.Equal(res.Ties, []int{3}) {
		t.Errorf("expected ties [3], got %v", res.Ties)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Errorf("expected warn level, got %v", entry["level"])
	}
	if !strings.Contains(entry["message"].(string), "ordered randomly") {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry[logger.FieldOrder] != float64(3) {
		t.Errorf("expected order field 3, got %v", entry[logger.FieldOrder])
	}
}

func TestResolve_NoTiesNoWarning(t *testing.T) {
	r, buf := newTestResolver(t, "module")
	res := r.ResolveDetailed(config.NewView(map[string]string{"module.A.1": "a", "module.B.2": "b"}))
	if len(res.Ties) != 0 {
		t.Errorf("expected no ties, got %v", res.Ties)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %q", buf.String())
	}
}

func TestResolve_MalformedNotDiscovered(t *testing.T) {
	view := config.NewView(map[string]string{
		"module.A.x":   "FactoryA",
		"module.B.1.2": "FactoryB",
		"module.C-1.1": "FactoryC",
		"module.D.":    "FactoryD",
		"module.E.-3":  "FactoryE",
		"modules.F.1":  "FactoryF",
		"module.G.4":   "FactoryG",
	})
	r, _ := newTestResolver(t, "module")

	got := r.Resolve(view)
	if len(got) != 1 || got[0].ID != "G" {
		t.Fatalf("expected only G, got %v", got)
	}
}

func TestResolve_EmptyView(t *testing.T) {
	r, _ := newTestResolver(t, "module")
	if got := r.Resolve(config.NewView(nil)); len(got) != 0 {
		t.Fatalf("expected no descriptors, got %v", got)
	}
}

func TestResolve_SameIDTwiceNotDeduplicated(t *testing.T) {
	r, _ := newTestResolver(t, "module")
	got := r.Resolve(config.NewView(map[string]string{"module.A.1": "a", "module.A.2": "a2"}))
	if len(got) != 2 || got[0].FactoryRef != "a" || got[1].FactoryRef != "a2" {
		t.Fatalf("expected both declarations of A, got %v", got)
	}
}

func TestScope_Rules(t *testing.T) {
	p := MustPattern("modkit.module")
	view := config.NewView(map[string]string{
		"modkit.module.enabled":             "true",
		"modkit.module.A.5":                 "FactoryA",
		"modkit.module.A.threshold":         "20",
		"modkit.module.A.db.url":            "postgres://a",
		"modkit.module.A.modkit.module.A.x": "nested",
		"modkit.module.B.7":                 "FactoryB",
		"modkit.module.B.threshold":         "99",
		"modkit.module.B.secret":            "b-only",
		"modelPath":                         "/models",
		"server.port":                       "7474",
	})

	got := p.Scope(view, "A").Map()
	want := map[string]string{
		"threshold":             "20",
		"db.url":                "postgres://a",
		"modkit.module.A.x": "nested",
		"modelPath":         "/models",
		"server.port":       "7474",
	}
	if !maps.Equal(got, want) {
		t.Errorf("Scope(A) = %v, want %v", got, want)
	}
}

func TestScope_OwnDeclarationNeverVisible(t *testing.T) {
	p := MustPattern("module")
	view := config.NewView(map[string]string{
		"module.A.1": "FactoryA",
		"module.B.2": "FactoryB",
		"module.A.3": "FactoryA2",
	})

	for _, id := range []string{"A", "B", "C"} {
		s := p.Scope(view, id)
		if s.Len() != 0 {
			t.Errorf("Scope(%s) should be empty, got %v", id, s.Map())
		}
	}
}

func TestScope_Property(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	p := MustPattern("module")
	ids := []string{"A", "B", "C", "D"}

	for round := 0; round < 25; round++ {
		entries := make(map[string]string)
		for i, id := range ids {
			entries[fmt.Sprintf("module.%s.%d", id, rng.IntN(5))] = "ref"
			for k := 0; k < rng.IntN(4); k++ {
				entries[fmt.Sprintf("module.%s.key%d", id, k)] = fmt.Sprintf("%s-%d", id, k)
			}
			entries[fmt.Sprintf("global%d", i)] = "g"
		}
		view := config.NewView(entries)

		for _, x := range ids {
			scoped := p.Scope(view, x)
			for key, val := range entries {
				local, own := strings.CutPrefix(key, "module."+x+".")
				switch {
				case p.IsDeclaration(key):
					if _, ok := scoped.Lookup(key); ok {
						t.Fatalf("declaration %q visible in scope %s", key, x)
					}
				case own:
					if scoped.Get(local) != val {
						t.Fatalf("scope %s: expected %q=%q, got %q", x, local, val, scoped.Get(local))
					}
				case strings.HasPrefix(key, "module."):
					if _, ok := scoped.Lookup(key); ok {
						t.Fatalf("foreign key %q visible in scope %s", key, x)
					}
				default:
					if scoped.Get(key) != val {
						t.Fatalf("global key %q missing from scope %s", key, x)
					}
				}
			}
		}
	}
}

func TestScope_PrivateShadowsGlobal(t *testing.T) {
	p := MustPattern("module")
	view := config.NewView(map[string]string{
		"threshold":          "1",
		"module.A.threshold": "20",
	})
	if got := p.Scope(view, "A").Get("threshold"); got != "20" {
		t.Errorf("expected private value to win, got %q", got)
	}
	if got := p.Scope(view, "B").Get("threshold"); got != "1" {
		t.Errorf("expected global value for B, got %q", got)
	}
}

func TestScopedAccessors(t *testing.T) {
	s := NewScoped(map[string]string{
		"interval": "250ms",
		"bad":      "soon",
		"count":    " 3 ",
		"name":     "hb",
	})

	if got := s.Duration("interval", time.Second); got != 250*time.Millisecond {
		t.Errorf("Duration(interval) = %v", got)
	}
	if got := s.Duration("bad", time.Second); got != time.Second {
		t.Errorf("Duration(bad) should fall back, got %v", got)
	}
	if got := s.Duration("missing", 2*time.Second); got != 2*time.Second {
		t.Errorf("Duration(missing) should fall back, got %v", got)
	}
	if got := s.Int("count", 0); got != 3 {
		t.Errorf("Int(count) = %d", got)
	}
	if got := s.Int("name", 5); got != 5 {
		t.Errorf("Int(name) should fall back, got %d", got)
	}
	if got := s.GetOr("missing", "dflt"); got != "dflt" {
		t.Errorf("GetOr = %q", got)
	}
	if !slices.Equal(s.Keys(), []string{"bad", "count", "interval", "name"}) {
		t.Errorf("Keys() = %v", s.Keys())
	}
	n := 0
	for range s.All() {
		n++
	}
	if n != s.Len() {
		t.Errorf("All yielded %d, want %d", n, s.Len())
	}
}
