package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFetchFailed indicates the external media fetcher reported failure
	// for a stream.
	ErrFetchFailed = errors.New("media fetch failed")
)

// Fetcher synchronously produces a local media file from a stream URL, or
// reports failure.
type Fetcher interface {
	Fetch(ctx context.Context, streamURL, destPath string) error
}

// Runner executes an external command to completion. It exists so tests can
// observe invocations without spawning processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Policy controls retry behavior around a Fetcher. The default is no retry;
// the policy is an injection point, not pipeline behavior.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
}

// NoRetry is the default policy: one attempt, failure propagates.
func NoRetry() Policy {
	return Policy{}
}

// Factory builds a Fetcher for a named implementation.
type Factory interface {
	NewFetcher(implementation string, runner Runner, policy Policy) (Fetcher, error)
}

type FetcherFactory struct{}

func NewFetcherFactory() Factory {
	return FetcherFactory{}
}

// NewFetcher returns a fetcher for the given implementation name wrapped in
// the retry policy.
func (FetcherFactory) NewFetcher(implementation string, runner Runner, policy Policy) (Fetcher, error) {
	var f Fetcher
	switch implementation {
	case "streamlink":
		f = NewStreamlinkFetcher(runner)
	default:
		return nil, fmt.Errorf("unknown fetcher implementation: %v", implementation)
	}

	return withPolicy(f, policy), nil
}

// withPolicy wraps f so Fetch retries per the policy.
func withPolicy(f Fetcher, policy Policy) Fetcher {
	if policy.MaxRetries <= 0 {
		return f
	}
	return &retryingFetcher{inner: f, policy: policy}
}

type retryingFetcher struct {
	inner  Fetcher
	policy Policy
}

func (r *retryingFetcher) Fetch(ctx context.Context, streamURL, destPath string) error {
	var err error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 && r.policy.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.policy.Backoff):
			}
		}

		if err = r.inner.Fetch(ctx, streamURL, destPath); err == nil {
			return nil
		}
	}

	return err
}
