package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/modkit/component"
)

var _ component.Component = (*Component)(nil)

// Component records its lifecycle calls. StartErr and StopErr are returned
// from Start and Stop when set.
type Component struct {
	name string

	mu       sync.Mutex
	starts   int
	stops    int
	StartErr error
	StopErr  error
}

// NewComponent creates a Component named name.
func NewComponent(name string) *Component {
	return &Component{name: name}
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Start records the call.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	return c.StartErr
}

// Stop records the call.
func (c *Component) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	return c.StopErr
}

// Health reports healthy once started and not stopped since.
func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.starts > c.stops {
		return component.Health{Name: c.name, Status: component.StatusHealthy}
	}
	return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "not started"}
}

// Starts returns the number of Start calls.
func (c *Component) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

// Stops returns the number of Stop calls.
func (c *Component) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

// Reset clears the recorded calls.
func (c *Component) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts, c.stops = 0, 0
}
