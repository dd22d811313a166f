package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
)

func newTestRuntime() *Runtime {
	return New("test").WithLogger(logger.NewNop())
}

func TestRuntimeLifecycle(t *testing.T) {
	rt := newTestRuntime()
	var order []string
	for _, name := range []string{"A", "B"} {
		n := name
		c := component.NewFuncs(n, func(context.Context) error {
			order = append(order, "start:"+n)
			return nil
		}, func(context.Context) error {
			order = append(order, "stop:"+n)
			return nil
		})
		if err := rt.Register(c); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
	}

	if rt.State() != StateCreated || rt.IsStarted() {
		t.Fatalf("expected created state, got %s", rt.State())
	}
	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !rt.IsStarted() {
		t.Fatalf("expected started, got %s", rt.State())
	}
	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("second Start should be a no-op, got %v", err)
	}
	if err := rt.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if rt.State() != StateStopped {
		t.Errorf("expected stopped, got %s", rt.State())
	}

	want := []string{"start:A", "start:B", "stop:B", "stop:A"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestRuntimeRegisterDuplicate(t *testing.T) {
	rt := newTestRuntime()
	rt.Register(component.NewFuncs("A", nil, nil))
	err := rt.Register(component.NewFuncs("A", nil, nil))
	if !stderrors.Is(err, component.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if rt.Len() != 1 {
		t.Errorf("expected 1 module, got %d", rt.Len())
	}
}

func TestRuntimeStartFailure(t *testing.T) {
	rt := newTestRuntime()
	rt.Register(component.NewFuncs("bad", func(context.Context) error { return fmt.Errorf("boom") }, nil))

	err := rt.Start(context.Background())
	if !errors.IsCode(err, errors.ErrCodeRuntimeStart) {
		t.Fatalf("expected RUNTIME_START_FAILED, got %v", err)
	}
	if rt.State() != StateFailed {
		t.Errorf("expected failed, got %s", rt.State())
	}
}

func TestRuntimeStopBeforeStart(t *testing.T) {
	rt := newTestRuntime()
	stopped := false
	rt.Register(component.NewFuncs("A", nil, func(context.Context) error { stopped = true; return nil }))
	if err := rt.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped {
		t.Error("modules must not be stopped before the runtime started")
	}
	if rt.State() != StateCreated {
		t.Errorf("expected created, got %s", rt.State())
	}
}

func TestRuntimeAccessors(t *testing.T) {
	rt := newTestRuntime()
	rt.Register(component.NewFuncs("A", nil, nil))
	rt.Register(component.NewFuncs("B", nil, nil))

	if rt.Name() != "test" {
		t.Errorf("Name() = %q", rt.Name())
	}
	if rt.Get("B") == nil || rt.Get("C") != nil {
		t.Error("unexpected Get results")
	}
	if len(rt.Components()) != 2 {
		t.Errorf("expected 2 components, got %d", len(rt.Components()))
	}

	health := rt.Health(context.Background())
	if len(health) != 2 || health[0].Status != component.StatusUnhealthy {
		t.Errorf("expected unstarted modules unhealthy, got %+v", health)
	}
	rt.Start(context.Background())
	if h := rt.Health(context.Background()); h[0].Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %+v", h)
	}
}
