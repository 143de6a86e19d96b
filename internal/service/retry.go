package service

import (
	"context"
	"time"
)

// RetryPolicy bounds calls to an external collaborator.
type RetryPolicy struct {
	// Attempts is the total number of tries; values below 1 mean 1.
	Attempts int
	// Timeout bounds each attempt; zero means no per-attempt limit.
	Timeout time.Duration
	// Backoff is multiplied by the attempt number between tries.
	Backoff time.Duration
}

// run calls op until it succeeds, returns a non-retryable error, the
// attempts are used up, or ctx is done. It reports how many attempts ran.
func (p RetryPolicy) run(ctx context.Context, op func(context.Context) error, retryable func(error) bool) (int, error) {
	attempts := max(p.Attempts, 1)
	for i := 1; ; i++ {
		err := p.once(ctx, op)
		if err == nil {
			return i, nil
		}
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		if i >= attempts || !retryable(err) {
			return i, err
		}
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		case <-time.After(p.Backoff * time.Duration(i)):
		}
	}
}

func (p RetryPolicy) once(ctx context.Context, op func(context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return op(ctx)
}
