package resilience

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

var errNotYet = errors.New("not yet")

// succeedAfter returns a probe failing n times before succeeding, and a
// counter of the calls made.
func succeedAfter(n int) (func() (int, error), *int) {
	calls := 0
	return func() (int, error) {
		calls++
		if calls <= n {
			return 0, errNotYet
		}
		return calls, nil
	}, &calls
}

func TestRetry(t *testing.T) {
	fast := Backoff{Initial: time.Millisecond, Max: 2 * time.Millisecond}
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		cfg       RetryConfig
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{"first attempt", RetryConfig{Backoff: fast, MaxAttempts: 3}, 0, nil, 1, nil},
		{"after two failures", RetryConfig{Backoff: fast, MaxAttempts: 3}, 2, nil, 3, nil},
		{"attempts exhausted", RetryConfig{Backoff: fast, MaxAttempts: 3}, 10, nil, 3, errNotYet},
		{"unbounded attempts", RetryConfig{Backoff: fast}, 5, nil, 6, nil},
		{
			name: "RetryIf rejects",
			cfg: RetryConfig{Backoff: fast, MaxAttempts: 5, RetryIf: func(err error) bool {
				return !errors.Is(err, permanent)
			}},
			failures: 10, failWith: permanent, wantCalls: 1, wantErr: permanent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			probe, calls := succeedAfter(tc.failures)
			fn := probe
			if tc.failWith != nil {
				fn = func() (int, error) {
					*calls++
					return 0, tc.failWith
				}
			}

			got, err := Retry(context.Background(), tc.cfg, fn)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if *calls != tc.wantCalls {
				t.Errorf("expected %d calls, got %d", tc.wantCalls, *calls)
			}
			if tc.wantErr == nil && got != tc.wantCalls {
				t.Errorf("expected the value of the last call, got %d", got)
			}
		})
	}
}

func TestRetry_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe, calls := succeedAfter(0)
	if _, err := Retry(ctx, RetryConfig{}, probe); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if *calls != 0 {
		t.Errorf("expected no attempt, got %d", *calls)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts []int
		delays   []time.Duration
	)
	cfg := RetryConfig{
		Backoff:     Backoff{Initial: time.Millisecond, Max: 4 * time.Millisecond, Factor: 2},
		MaxAttempts: 4,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			if !errors.Is(err, errNotYet) {
				t.Errorf("attempt %d: unexpected error %v", attempt, err)
			}
			attempts = append(attempts, attempt)
			delays = append(delays, backoff)
		},
	}

	_ = RetryFunc(context.Background(), cfg, func() error { return errNotYet })

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(attempts, []int{1, 2, 3}) {
		t.Errorf("expected OnRetry after attempts [1 2 3], got %v", attempts)
	}
	if !slices.Equal(delays, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}) {
		t.Errorf("unexpected delays %v", delays)
	}
}

func TestRetry_UnboundedUntilDeadline(t *testing.T) {
	cfg := RetryConfig{Backoff: Backoff{Initial: time.Millisecond, Max: 5 * time.Millisecond, Factor: 2.0}}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	callCount := 0
	start := time.Now()
	err := RetryFunc(ctx, cfg, func() error {
		callCount++
		return errors.New("not yet")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if callCount < 3 {
		t.Errorf("expected several attempts, got %d", callCount)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("retry overran the deadline: %v", elapsed)
	}
}

func TestRetry_LongBackoffCutByDeadline(t *testing.T) {
	cfg := RetryConfig{Backoff: Backoff{Initial: time.Hour, Max: time.Hour, Factor: 2.0}}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := RetryFunc(ctx, cfg, func() error { return errors.New("not yet") })

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("backoff was not cut short by the deadline")
	}
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{
		Initial: 100 * time.Millisecond,
		Max:     1 * time.Second,
		Factor:  2.0,
		Jitter:  0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond}, // 100 * 2^0
		{2, 200 * time.Millisecond}, // 100 * 2^1
		{3, 400 * time.Millisecond}, // 100 * 2^2
		{4, 800 * time.Millisecond}, // 100 * 2^3
		{5, 1 * time.Second},        // Capped at max
		{6, 1 * time.Second},        // Still capped
	}

	for _, tt := range tests {
		got := b.Delay(tt.attempt)
		if got != tt.expected {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.expected, got)
		}
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	b := Backoff{Initial: 100 * time.Millisecond, Max: time.Second, Factor: 2.0, Jitter: 0.5}
	for i := 0; i < 100; i++ {
		d := b.Delay(1)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay out of bounds: %v", d)
		}
	}
}

func TestDefaultBackoff(t *testing.T) {
	b := DefaultBackoff()
	if b.Initial != time.Second || b.Max != 10*time.Second || b.Factor != 2.0 {
		t.Errorf("unexpected defaults %+v", b)
	}
}
