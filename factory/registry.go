package factory

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrDuplicate is returned when a factory reference is registered twice.
var ErrDuplicate = stderrors.New("factory already registered")

// Registry maps factory references to constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register registers a constructor under ref.
func (r *Registry) Register(ref string, c Constructor) error {
	if err := validateRef(ref); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("factory %q: nil constructor", ref)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.constructors[ref]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, ref)
	}
	r.constructors[ref] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(ref string, c Constructor) {
	if err := r.Register(ref, c); err != nil {
		panic(err)
	}
}

// RegisterFactory registers a ready-made Factory under ref.
func (r *Registry) RegisterFactory(ref string, f Factory) error {
	if f == nil {
		return fmt.Errorf("factory %q: nil factory", ref)
	}
	return r.Register(ref, func() (Factory, error) { return f, nil })
}

// Lookup returns the constructor registered under ref.
func (r *Registry) Lookup(ref string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[ref]
	return c, ok
}

// Names returns sorted references of all registered factories.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.constructors))
}

// Default is the process-wide registry factories add themselves to from init.
var Default = NewRegistry()

// Register registers a constructor in the Default registry.
func Register(ref string, c Constructor) error {
	return Default.Register(ref, c)
}

// MustRegister registers a constructor in the Default registry and panics on error.
func MustRegister(ref string, c Constructor) {
	Default.MustRegister(ref, c)
}
