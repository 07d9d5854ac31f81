package retry_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"stock-sync/core/metrics"
	"stock-sync/core/retry"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func newTransport(max int, slept *[]time.Duration, opts ...retry.Option) *retry.Transport {
	opts = append(opts, retry.WithSleep(func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}))
	return retry.New("test", retry.Policy{MaxAttempts: max, BaseDelay: time.Second}, zap.NewNop(), opts...)
}

func TestPolicy_Backoff(t *testing.T) {
	p := retry.DefaultPolicy()
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
}

func TestExecute_SucceedsFirstTime(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{Name: "GET products", Call: func(context.Context) error {
		calls++
		return nil
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestExecute_RetriesTransientThenSucceeds(t *testing.T) {
	var slept []time.Duration
	m := metrics.NewRegistry()
	tr := newTransport(3, &slept, retry.WithMetrics(m))

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{Name: "GET products", Call: func(context.Context) error {
		calls++
		if calls < 3 {
			return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		}
		return nil
	}})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransportRetries.WithLabelValues("test", "read")))
}

func TestExecute_Exhausted(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{Name: "PUT products/1", Kind: retry.Write, Call: func(context.Context) error {
		calls++
		return fmt.Errorf("request: %w", timeoutErr{})
	}})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, retry.ErrExhausted)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, "PUT products/1", exhausted.Op)
	assert.ErrorAs(t, exhausted.Err, new(timeoutErr))
}

func TestExecute_NonTransientNotRetried(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)
	boom := errors.New("400 bad request")

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{Name: "GET products", Call: func(context.Context) error {
		calls++
		return boom
	}})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestExecute_MarkedTransient(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(2, &slept)
	unavailable := errors.New("503 service unavailable")

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{Name: "GET products", Call: func(context.Context) error {
		calls++
		return retry.MarkTransient(unavailable)
	}})

	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.ErrorIs(t, err, unavailable)
	assert.Equal(t, 2, calls)
}

func TestExecute_ContextCancelledStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := retry.New("test", retry.Policy{MaxAttempts: 5, BaseDelay: time.Hour}, zap.NewNop())

	calls := 0
	err := tr.Execute(ctx, retry.Op{Name: "GET products", Call: func(context.Context) error {
		calls++
		cancel()
		return timeoutErr{}
	}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExecute_SleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := retry.New("test", retry.Policy{MaxAttempts: 3, BaseDelay: time.Hour}, zap.NewNop())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := tr.Execute(ctx, retry.Op{Name: "GET products", Call: func(context.Context) error {
		return timeoutErr{}
	}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestExecute_BeforeRetryShortCircuits(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)

	calls, checks := 0, 0
	err := tr.Execute(context.Background(), retry.Op{
		Name: "POST pages",
		Kind: retry.Write,
		Call: func(context.Context) error {
			calls++
			return timeoutErr{}
		},
		BeforeRetry: func(context.Context) (bool, error) {
			checks++
			return true, nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, checks)
}

func TestExecute_BeforeRetryNotApplied(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)

	calls := 0
	err := tr.Execute(context.Background(), retry.Op{
		Name: "POST pages",
		Kind: retry.Write,
		Call: func(context.Context) error {
			calls++
			if calls == 1 {
				return timeoutErr{}
			}
			return nil
		},
		BeforeRetry: func(context.Context) (bool, error) { return false, nil },
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo(t *testing.T) {
	var slept []time.Duration
	tr := newTransport(3, &slept)

	calls := 0
	got, err := retry.Do(context.Background(), tr, "GET products/1", retry.Read, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, timeoutErr{}
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Plain", errors.New("boom"), false},
		{"Timeout", timeoutErr{}, true},
		{"DeadlineExceeded", context.DeadlineExceeded, true},
		{"Canceled", context.Canceled, false},
		{"OpError", &net.OpError{Op: "read", Err: errors.New("reset")}, true},
		{"Marked", retry.MarkTransient(errors.New("429")), true},
		{"Wrapped", fmt.Errorf("get: %w", timeoutErr{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.IsTransient(tt.err))
		})
	}
}
