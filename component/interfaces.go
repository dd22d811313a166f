package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed unit of the runtime. Every module built by
// a factory is a Component.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information reported by the status API.
type Description struct {
	// Name is the human-readable display name. If empty, Name() is used.
	Name string `json:"name"`
	// Type categorizes the component, e.g. "heartbeat" or "noop".
	Type string `json:"type"`
	// Details is a human-readable one-liner, e.g. "interval=1s".
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by Components to self-report what
// they are and how they're configured.
type Describable interface {
	Describe() Description
}

// Describe returns c's Description, or one built from its name.
func Describe(c Component) Description {
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = c.Name()
		}
		return desc
	}
	return Description{Name: c.Name()}
}
