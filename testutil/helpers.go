package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/modkit/component"
)

// THelper provides testing.T integration for component setup.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps t.
func T(t *testing.T) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context used for Start and Stop.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Start starts c and stops it when the test ends.
func (h *THelper) Start(c component.Component) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			h.t.Errorf("failed to stop %s: %v", c.Name(), err)
		}
	})
}

// Eventually polls cond until it holds or timeout elapses.
func (h *THelper) Eventually(timeout time.Duration, cond func() bool, msg string) {
	h.t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			h.t.Fatalf("condition not met within %s: %s", timeout, msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
