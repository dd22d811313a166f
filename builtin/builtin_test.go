package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/module"
	"github.com/kbukum/modkit/testutil"
)

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, ref := range []string{NoopRef, HeartbeatRef} {
		if _, ok := factory.Default.Lookup(ref); !ok {
			t.Errorf("expected %s in the default registry", ref)
		}
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := factory.NewRegistry()
	Register(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(reg)
}

func TestNoop(t *testing.T) {
	reg := factory.NewRegistry()
	Register(reg)

	out := factory.Invoke(context.Background(), reg,
		module.Descriptor{ID: "idle", Order: 1, FactoryRef: NoopRef},
		module.NewScoped(nil), testutil.NewHost("test-host"))
	if !out.Registered() {
		t.Fatalf("expected noop to build, got %v", out.Err)
	}
	if d := component.Describe(out.Component); d.Type != "noop" || d.Name != "idle" {
		t.Errorf("unexpected description %+v", d)
	}
}

func TestHeartbeatFromScopedConfig(t *testing.T) {
	view := config.NewView(map[string]string{
		"modkit.module.pulse.1":        HeartbeatRef,
		"modkit.module.pulse.interval": "250ms",
		"modkit.module.pulse.message":  "tick",
	})
	cfg := module.MustPattern("modkit.module").Scope(view, "pulse")

	h, err := NewHeartbeat("pulse", cfg, testutil.NewHost("test-host"))
	if err != nil {
		t.Fatalf("NewHeartbeat failed: %v", err)
	}
	if h.Interval() != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", h.Interval())
	}
	if h.message != "tick" {
		t.Errorf("expected message tick, got %q", h.message)
	}
	if d := h.Describe(); d.Details != "interval=250ms" {
		t.Errorf("unexpected details %q", d.Details)
	}
}

func TestHeartbeatDefaultsAndRejects(t *testing.T) {
	h, err := NewHeartbeat("pulse", module.NewScoped(nil), nil)
	if err != nil {
		t.Fatalf("NewHeartbeat failed: %v", err)
	}
	if h.Interval() != DefaultHeartbeatInterval {
		t.Errorf("expected default interval, got %s", h.Interval())
	}

	_, err = NewHeartbeat("pulse", module.NewScoped(map[string]string{"interval": "-1s"}), nil)
	if err == nil {
		t.Error("expected negative interval to be rejected")
	}
}

func TestHeartbeatLifecycle(t *testing.T) {
	h, err := NewHeartbeat("pulse", module.NewScoped(map[string]string{"interval": "5ms"}), testutil.NewHost("test-host"))
	if err != nil {
		t.Fatalf("NewHeartbeat failed: %v", err)
	}
	ctx := context.Background()

	if got := h.Health(ctx).Status; got != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", got)
	}
	if err := h.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := h.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	testutil.T(t).Eventually(2*time.Second, func() bool { return h.Beats() >= 2 }, "heartbeat beats")
	if got := h.Health(ctx).Status; got == component.StatusUnhealthy {
		t.Errorf("expected a running heartbeat, got %s", got)
	}

	if err := h.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := h.Stop(ctx); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
	if got := h.Health(ctx).Status; got != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", got)
	}
}
