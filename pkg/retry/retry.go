// Package retry provides a bounded fixed-interval retry loop for polling
// asynchronous remote operations. The attempt ceiling is the cancellation
// mechanism: when it is reached the caller gets the last observed value and
// ErrAttemptsExhausted, never an indefinite wait.
package retry

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrAttemptsExhausted is returned when the operation never reported a
// terminal state within the attempt ceiling.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

type Options struct {
	// MaxAttempts is the hard ceiling on operation invocations.
	MaxAttempts int
	// Interval is the fixed delay between attempts.
	Interval time.Duration
}

// Do invokes op up to opts.MaxAttempts times, sleeping opts.Interval
// between attempts. op reports done=true once a terminal state is reached;
// its value is then returned. A non-nil error from op aborts immediately.
// On exhaustion the last value is returned along with ErrAttemptsExhausted
// so callers can still inspect the non-terminal state.
func Do[T any](ctx context.Context, opts Options, op func(ctx context.Context) (value T, done bool, err error)) (T, error) {
	var last T
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, opts.Interval); err != nil {
				return last, err
			}
		}
		value, done, err := op(ctx)
		if err != nil {
			return value, err
		}
		last = value
		if done {
			return value, nil
		}
	}
	return last, ErrAttemptsExhausted
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
