package retry

import (
	"context"
	"time"

	"stock-sync/core/metrics"

	"go.uber.org/zap"
)

// Kind separates reads from writes for logging and metrics.
type Kind int

const (
	// Read operations never change remote state.
	Read Kind = iota
	// Write operations create or update remote state.
	Write
)

func (k Kind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Policy bounds the retry loop.
type Policy struct {
	// MaxAttempts is the total number of calls, the first one included.
	MaxAttempts int
	// BaseDelay is the wait before the second call; it doubles afterwards.
	BaseDelay time.Duration
}

// DefaultPolicy makes three attempts waiting 1s then 2s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Backoff returns the wait after the given zero-based failed attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<uint(attempt))
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Op is one remote call.
type Op struct {
	// Name identifies the call in logs and errors, e.g. "GET products".
	Name string
	// Kind is Read or Write.
	Kind Kind
	// Call performs the request once.
	Call func(ctx context.Context) error
	// BeforeRetry runs before every call but the first. Returning true means
	// the earlier attempt already took effect and the loop stops successfully.
	BeforeRetry func(ctx context.Context) (bool, error)
}

// Transport executes operations against one remote store.
type Transport struct {
	store   string
	policy  Policy
	logger  *zap.Logger
	metrics *metrics.Registry
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option customizes a Transport.
type Option func(*Transport)

// WithMetrics counts retries in the given registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(t *Transport) { t.metrics = m }
}

// WithSleep replaces the backoff wait.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Transport) { t.sleep = sleep }
}

// New creates a Transport for the named store.
func New(store string, policy Policy, logger *zap.Logger, opts ...Option) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Transport{
		store:  store,
		policy: policy,
		logger: logger,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute runs op, retrying transient failures with exponential backoff.
// Non-transient errors are returned unchanged after the first failure.
func (t *Transport) Execute(ctx context.Context, op Op) error {
	attempts := t.policy.attempts()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := t.policy.Backoff(attempt - 1)
			t.logger.Warn("Retrying remote call",
				zap.String("store", t.store),
				zap.String("op", op.Name),
				zap.String("kind", op.Kind.String()),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			t.metrics.Retry(t.store, op.Kind.String())
			if err := t.sleep(ctx, delay); err != nil {
				return err
			}
		}

		err := t.attempt(ctx, op, attempt)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
	}

	t.logger.Error("Remote call failed after retries",
		zap.String("store", t.store),
		zap.String("op", op.Name),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return &ExhaustedError{Op: op.Name, Attempts: attempts, Err: lastErr}
}

func (t *Transport) attempt(ctx context.Context, op Op, attempt int) error {
	if attempt > 0 && op.BeforeRetry != nil {
		done, err := op.BeforeRetry(ctx)
		if err != nil {
			return err
		}
		if done {
			t.logger.Info("Earlier attempt already applied, not resending",
				zap.String("store", t.store),
				zap.String("op", op.Name),
			)
			return nil
		}
	}
	return op.Call(ctx)
}

// Do runs fn through t and returns its value.
func Do[T any](ctx context.Context, t *Transport, name string, kind Kind, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := t.Execute(ctx, Op{
		Name: name,
		Kind: kind,
		Call: func(ctx context.Context) error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			out = v
			return nil
		},
	})
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
