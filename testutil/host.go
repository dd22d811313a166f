package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kbukum/modkit/factory"
)

var _ factory.Host = (*Host)(nil)

// Host is a factory.Host whose availability is switched by the test.
type Host struct {
	name      string
	available atomic.Bool
	checks    atomic.Int64
}

// NewHost returns an available Host.
func NewHost(name string) *Host {
	h := &Host{name: name}
	h.available.Store(true)
	return h
}

// Name returns the host name.
func (h *Host) Name() string { return h.name }

// IsAvailable reports the availability set with SetAvailable.
func (h *Host) IsAvailable(context.Context, time.Duration) bool {
	h.checks.Add(1)
	return h.available.Load()
}

// SetAvailable switches availability.
func (h *Host) SetAvailable(v bool) { h.available.Store(v) }

// Checks returns how often availability was queried.
func (h *Host) Checks() int64 { return h.checks.Load() }
