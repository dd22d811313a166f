package module

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/validation"
)

// IDPattern is the form of a module ID.
const IDPattern = `^[a-zA-Z0-9]+$`

var idPattern = regexp.MustCompile(IDPattern)

// ValidateID returns an INVALID_CONFIG error unless id can name a module.
func ValidateID(id string) error {
	v := validation.New().
		Required("module_id", id).
		Pattern("module_id", id, IDPattern)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Pattern recognizes the keys of one module namespace.
//
// A declaration key has the form <namespace>.<id>.<order>, where id is
// alphanumeric and order a non-negative decimal integer. A private key has the
// form <namespace>.<id>.<key> for any other key.
type Pattern struct {
	namespace   string
	prefix      string
	enabledKey  string
	declaration *regexp.Regexp
}

// NewPattern compiles the key pattern for namespace.
func NewPattern(namespace string) (*Pattern, error) {
	if namespace == "" {
		return nil, errors.InvalidConfig("module namespace is required")
	}
	if strings.HasPrefix(namespace, ".") || strings.HasSuffix(namespace, ".") {
		return nil, errors.InvalidConfig(fmt.Sprintf("module namespace %q must not start or end with a dot", namespace))
	}
	return &Pattern{
		namespace:   namespace,
		prefix:      namespace + ".",
		enabledKey:  namespace + ".enabled",
		declaration: regexp.MustCompile(`^` + regexp.QuoteMeta(namespace) + `\.([a-zA-Z0-9]+)\.([0-9]+)$`),
	}, nil
}

// MustPattern is like NewPattern but panics on an invalid namespace.
func MustPattern(namespace string) *Pattern {
	p, err := NewPattern(namespace)
	if err != nil {
		panic(err)
	}
	return p
}

// Namespace returns the namespace the pattern was built for.
func (p *Pattern) Namespace() string { return p.namespace }

// EnabledKey returns the key gating the bootstrap, <namespace>.enabled
// unless replaced with WithEnabledKey.
func (p *Pattern) EnabledKey() string { return p.enabledKey }

// WithEnabledKey returns a copy of p gating on key instead of
// <namespace>.enabled. An empty key keeps the current one.
func (p *Pattern) WithEnabledKey(key string) *Pattern {
	cp := *p
	if key != "" {
		cp.enabledKey = key
	}
	return &cp
}

// Prefix returns the private key prefix of module id, <namespace>.<id>.
func (p *Pattern) Prefix(id string) string { return p.prefix + id + "." }

// Match reports whether key declares a module and returns its id and order.
// Orders that do not fit in an int are treated as malformed.
func (p *Pattern) Match(key string) (id string, order int, ok bool) {
	m := p.declaration.FindStringSubmatch(key)
	if m == nil {
		return "", 0, false
	}
	order, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], order, true
}

// IsDeclaration reports whether key declares a module.
func (p *Pattern) IsDeclaration(key string) bool {
	_, _, ok := p.Match(key)
	return ok
}

// owner returns the module id a private key belongs to.
func (p *Pattern) owner(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, p.prefix)
	if !ok {
		return "", false
	}
	id, local, found := strings.Cut(rest, ".")
	if !found || local == "" || !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
