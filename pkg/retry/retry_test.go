package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_TerminatesOnDone(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Options{MaxAttempts: 5, Interval: time.Millisecond},
		func(ctx context.Context) (string, bool, error) {
			calls++
			return "done", calls == 3, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhaustion(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Options{MaxAttempts: 5, Interval: time.Millisecond},
		func(ctx context.Context) (string, bool, error) {
			calls++
			return "still-pending", false, nil
		})
	require.ErrorIs(t, err, ErrAttemptsExhausted)
	// the last observed value is still returned for inspection
	assert.Equal(t, "still-pending", got)
	assert.Equal(t, 5, calls)
}

func TestDo_ErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Do(context.Background(), Options{MaxAttempts: 5, Interval: time.Millisecond},
		func(ctx context.Context) (int, bool, error) {
			calls++
			return 0, false, boom
		})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Do(ctx, Options{MaxAttempts: 5, Interval: time.Hour},
			func(ctx context.Context) (int, bool, error) {
				calls++
				return 0, false, nil
			})
		assert.ErrorIs(t, err, context.Canceled)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	assert.Equal(t, 1, calls)
}
