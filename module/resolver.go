package module

import (
	"cmp"
	"slices"

	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/logger"
)

// Resolution is the outcome of scanning a view for module declarations.
type Resolution struct {
	// Descriptors in ascending order. Descriptors sharing an order keep the
	// order they were encountered in, which is unspecified.
	Descriptors []Descriptor `json:"descriptors"`
	// Ties lists, in ascending order, every order value declared more than once.
	Ties []int `json:"ties,omitempty"`
}

// Resolver discovers module declarations in a config.View.
type Resolver struct {
	pattern *Pattern
	log     *logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger ties are reported to.
func WithLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a Resolver for pattern.
func NewResolver(pattern *Pattern, opts ...ResolverOption) *Resolver {
	r := &Resolver{pattern: pattern}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("module")
	}
	return r
}

// Pattern returns the pattern the resolver matches keys with.
func (r *Resolver) Pattern() *Pattern { return r.pattern }

// Resolve returns the declared modules sorted by ascending order.
func (r *Resolver) Resolve(view config.View) []Descriptor {
	return r.ResolveDetailed(view).Descriptors
}

// ResolveDetailed returns the declared modules and the order values that clash.
// Each clash is logged as a warning; it is never an error.
func (r *Resolver) ResolveDetailed(view config.View) Resolution {
	var descriptors []Descriptor
	for key, ref := range view.All() {
		id, order, ok := r.pattern.Match(key)
		if !ok {
			continue
		}
		descriptors = append(descriptors, Descriptor{ID: id, Order: order, FactoryRef: ref, Key: key})
	}

	slices.SortStableFunc(descriptors, func(a, b Descriptor) int {
		return cmp.Compare(a.Order, b.Order)
	})

	res := Resolution{Descriptors: descriptors}
	for i := 0; i < len(descriptors); {
		j := i + 1
		for j < len(descriptors) && descriptors[j].Order == descriptors[i].Order {
			j++
		}
		if j-i > 1 {
			ids := make([]string, 0, j-i)
			for _, d := range descriptors[i:j] {
				ids = append(ids, d.ID)
			}
			r.log.Warn("more than one module declared with order; clashing modules will be ordered randomly",
				logger.Fields(logger.FieldOrder, descriptors[i].Order, "modules", ids))
			res.Ties = append(res.Ties, descriptors[i].Order)
		}
		i = j
	}
	return res
}

// Scope returns the scoped configuration of module id.
func (r *Resolver) Scope(view config.View, id string) Scoped {
	return r.pattern.Scope(view, id)
}
