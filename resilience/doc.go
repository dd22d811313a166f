// Package resilience provides retry with exponential backoff.
//
//	err := resilience.RetryFunc(ctx, resilience.RetryConfig{
//	    Backoff:     resilience.DefaultBackoff(),
//	    MaxAttempts: 0, // until ctx is done
//	}, func() error {
//	    return probe(ctx)
//	})
package resilience
