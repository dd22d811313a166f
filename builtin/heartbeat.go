package builtin

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
)

// DefaultHeartbeatInterval is used when a heartbeat module sets no interval.
const DefaultHeartbeatInterval = 10 * time.Second

// Heartbeat logs a beat at a fixed interval while started.
//
// Scoped keys:
//
//	interval  duration between beats (default 10s)
//	message   log message (default "heartbeat")
type Heartbeat struct {
	id       string
	host     string
	interval time.Duration
	message  string
	log      *logger.Logger

	beats    atomic.Int64
	lastBeat atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var (
	_ component.Component   = (*Heartbeat)(nil)
	_ component.Describable = (*Heartbeat)(nil)
)

// NewHeartbeat creates a Heartbeat from a module's scoped config.
func NewHeartbeat(id string, cfg module.Scoped, host factory.Host) (*Heartbeat, error) {
	interval := cfg.Duration("interval", DefaultHeartbeatInterval)
	if interval <= 0 {
		return nil, fmt.Errorf("heartbeat interval must be positive, got %s", interval)
	}
	hostName := ""
	if host != nil {
		hostName = host.Name()
	}
	return &Heartbeat{
		id:       id,
		host:     hostName,
		interval: interval,
		message:  cfg.GetOr("message", "heartbeat"),
		log:      logger.WithComponent("heartbeat").WithFields(logger.Fields(logger.FieldModuleID, id)),
	}, nil
}

func buildHeartbeat(_ context.Context, id string, cfg module.Scoped, host factory.Host) (component.Component, error) {
	return NewHeartbeat(id, cfg, host)
}

// Name returns the module ID.
func (h *Heartbeat) Name() string { return h.id }

// Interval returns the time between beats.
func (h *Heartbeat) Interval() time.Duration { return h.interval }

// Beats returns the number of beats since the first start.
func (h *Heartbeat) Beats() int64 { return h.beats.Load() }

// Start begins beating. Starting a running heartbeat is a no-op.
func (h *Heartbeat) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})
	h.lastBeat.Store(time.Now().UnixNano())
	go h.loop(ctx, h.done)
	return nil
}

func (h *Heartbeat) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := h.beats.Add(1)
			h.lastBeat.Store(time.Now().UnixNano())
			h.log.Debug(h.message, logger.Fields(logger.FieldCount, n, "host", h.host))
		}
	}
}

// Stop ends the beat loop and waits for it to exit.
func (h *Heartbeat) Stop(ctx context.Context) error {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports degraded when beats are more than three intervals late.
func (h *Heartbeat) Health(_ context.Context) component.Health {
	h.mu.Lock()
	running := h.cancel != nil
	h.mu.Unlock()

	if !running {
		return component.Health{Name: h.id, Status: component.StatusUnhealthy, Message: "not started"}
	}
	since := time.Since(time.Unix(0, h.lastBeat.Load()))
	if since > 3*h.interval {
		return component.Health{Name: h.id, Status: component.StatusDegraded,
			Message: fmt.Sprintf("last beat %s ago", since.Round(time.Millisecond))}
	}
	return component.Health{Name: h.id, Status: component.StatusHealthy}
}

// Describe reports the configured interval.
func (h *Heartbeat) Describe() component.Description {
	return component.Description{
		Name:    h.id,
		Type:    "heartbeat",
		Details: fmt.Sprintf("interval=%s", h.interval),
	}
}
