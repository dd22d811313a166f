package readiness

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/resilience"
)

// DefaultTimeout bounds a readiness wait when none is configured.
const DefaultTimeout = 5 * time.Minute

// Predicate reports whether the hosted service is usable. IsReady may block
// for at most timeout.
type Predicate interface {
	IsReady(ctx context.Context, timeout time.Duration) bool
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(ctx context.Context, timeout time.Duration) bool

// IsReady calls f.
func (f PredicateFunc) IsReady(ctx context.Context, timeout time.Duration) bool {
	return f(ctx, timeout)
}

// Always is a Predicate that is always ready.
var Always Predicate = PredicateFunc(func(context.Context, time.Duration) bool { return true })

// Poller waits for a Predicate with exponential backoff between checks.
type Poller struct {
	// Timeout bounds the whole wait.
	Timeout time.Duration
	// Backoff spaces the checks after a negative answer.
	Backoff resilience.Backoff

	log *logger.Logger
}

// Result describes a finished wait.
type Result struct {
	Ready    bool
	Attempts int
	Elapsed  time.Duration
}

// NewPoller creates a Poller bounded by timeout, polling every interval and
// backing off up to maxInterval.
func NewPoller(timeout, interval, maxInterval time.Duration) *Poller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	b := resilience.DefaultBackoff()
	if interval > 0 {
		b.Initial = interval
	}
	if maxInterval > 0 {
		b.Max = max(maxInterval, b.Initial)
	}
	return &Poller{Timeout: timeout, Backoff: b}
}

// WithLogger sets the logger readiness checks are reported to.
func (p *Poller) WithLogger(l *logger.Logger) *Poller {
	p.log = l
	return p
}

var errNotReady = stderrors.New("host not ready")

// Wait polls pred until it reports ready or the timeout elapses. Each check
// is given the time left before the deadline. A timeout yields a
// READINESS_TIMEOUT error; a cancelled ctx yields ctx's error.
func (p *Poller) Wait(ctx context.Context, pred Predicate) (Result, error) {
	log := p.log
	if log == nil {
		log = logger.WithComponent("readiness")
	}

	start := time.Now()
	deadline := start.Add(p.Timeout)
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var res Result
	err := resilience.RetryFunc(waitCtx, resilience.RetryConfig{
		Backoff: p.Backoff,
		OnRetry: func(attempt int, _ error, backoff time.Duration) {
			log.Debug("host not ready yet", logger.Fields("attempt", attempt, "backoff", backoff.String()))
		},
	}, func() error {
		res.Attempts++
		if pred.IsReady(waitCtx, time.Until(deadline)) {
			return nil
		}
		return errNotReady
	})
	res.Elapsed = time.Since(start)

	switch {
	case err == nil:
		res.Ready = true
		return res, nil
	case ctx.Err() != nil:
		return res, ctx.Err()
	default:
		return res, errors.ReadinessTimeout(p.Timeout)
	}
}

// Wait polls pred with default intervals until it reports ready or timeout elapses.
func Wait(ctx context.Context, pred Predicate, timeout time.Duration) (Result, error) {
	return NewPoller(timeout, 0, 0).Wait(ctx, pred)
}
