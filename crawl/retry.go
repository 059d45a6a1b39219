package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/siteaudit"
)

// ProbeFunc is the signature for a single-URL probe.
type ProbeFunc func(ctx context.Context, url string) (*siteaudit.LinkResult, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// RetryDelays returns the wait before each re-attempt for an attempt
// budget of n spaced by delay: n-1 equal delays.
func RetryDelays(n int, delay time.Duration) []time.Duration {
	if n <= 1 {
		return nil
	}
	delays := make([]time.Duration, n-1)
	for i := range delays {
		delays[i] = delay
	}
	return delays
}

// ProbeWithRetryDelays probes a URL until an attempt yields a definitive
// status. An attempt that returns an error or StatusUnknown counts as
// failed; len(delays)+1 attempts are made at most, waiting delays[i]
// after the i-th failure.
//
// It returns the first definitive result (nil if every attempt failed)
// and the number of attempts made. The only error returned is the
// context's.
func ProbeWithRetryDelays(ctx context.Context, url string, probe ProbeFunc, logger LogFunc, delays []time.Duration) (*siteaudit.LinkResult, int, error) {
	maxAttempts := len(delays) + 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt, err
		}

		result, err := probe(ctx, url)
		if err == nil && result != nil && result.Status != siteaudit.StatusUnknown {
			return result, attempt + 1, nil
		}

		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d/%d): %v", url, attempt+2, maxAttempts, failure(result, err))
		}

		select {
		case <-ctx.Done():
			return nil, attempt + 1, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, maxAttempts, nil
}

func failure(result *siteaudit.LinkResult, err error) any {
	if err != nil {
		return err
	}
	if result == nil {
		return "no result"
	}
	return "status unknown"
}
