package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/modkit/logger"
)

// Hook is a callback run on the readiness path once the run has ended.
type Hook func(ctx context.Context) error

// OnStarted registers hooks that run after the runtime has started.
// Hooks must be registered before Run.
func (b *Bootstrapper) OnStarted(hooks ...Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStarted = append(b.onStarted, hooks...)
}

// OnAbandoned registers hooks that run when the runtime is abandoned.
// Hooks must be registered before Run.
func (b *Bootstrapper) OnAbandoned(hooks ...Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onAbandoned = append(b.onAbandoned, hooks...)
}

// runHooks executes hooks sequentially. A failing hook is logged and does not
// stop the ones after it.
func runHooks(ctx context.Context, log *logger.Logger, hooks []Hook) {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			log.Error("bootstrap hook failed", logger.MergeWithError(
				logger.Fields("hook", i), fmt.Errorf("hook %d failed: %w", i, err)))
		}
	}
}
