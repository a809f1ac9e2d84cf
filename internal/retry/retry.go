package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/deckhand/internal/apierr"
)

// Policy controls how a failed operation is re-attempted. A policy is
// immutable for the duration of one logical operation.
type Policy struct {
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	RetryableKinds map[apierr.Kind]bool
}

// Retries reports whether the policy allows retrying failures of the given
// kind. Kinds that are inherently non-retryable never pass, regardless of the
// policy set.
func (p Policy) Retries(kind apierr.Kind) bool {
	return kind.Retryable() && p.RetryableKinds[kind]
}

// Kinds builds a retryable-kind set for a policy.
func Kinds(kinds ...apierr.Kind) map[apierr.Kind]bool {
	set := make(map[apierr.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// DefaultPolicy returns the process-wide default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    3,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		RetryableKinds: Kinds(
			apierr.KindNetwork,
			apierr.KindTimeout,
			apierr.KindServer,
			apierr.KindRateLimited,
		),
	}
}

// Classifier turns a raw failure into a classified error using the
// connectivity reading current at classification time.
type Classifier func(error) *apierr.Error

// Operation is one attempt of the work being retried. Each invocation must
// start a fresh physical call.
type Operation func(ctx context.Context) error

// Executor re-invokes failed operations with exponential backoff and jitter.
type Executor struct {
	classify Classifier
	jitter   func() float64
	logger   zerolog.Logger
}

// NewExecutor creates an executor with the default jitter source.
func NewExecutor(classify Classifier, logger zerolog.Logger) *Executor {
	return &Executor{
		classify: classify,
		jitter:   rand.Float64,
		logger:   logger.With().Str("component", "RetryExecutor").Logger(),
	}
}

// WithJitterSource replaces the jitter source. Tests inject a deterministic
// one.
func (e *Executor) WithJitterSource(src func() float64) *Executor {
	e.jitter = src
	return e
}

// Do runs op up to policy.MaxRetries+1 times. On success it returns nil
// immediately. On failure it classifies the error; non-retryable kinds and
// exhausted budgets surface the last classified error to the caller, never a
// wrapper that hides the classification.
func (e *Executor) Do(ctx context.Context, name string, policy Policy, op Operation) error {
	var lastErr *apierr.Error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return lastErr
			}
			return e.classify(ctx.Err())
		default:
		}

		err := op(ctx)
		if err == nil {
			if attempt > 0 {
				e.logger.Info().
					Str("operation", name).
					Int("retries", attempt).
					Msg("Operation succeeded after retries")
			}
			return nil
		}

		lastErr = e.classify(err)

		if attempt == policy.MaxRetries || !policy.Retries(lastErr.Kind) {
			break
		}

		delay := e.Delay(policy, attempt)
		e.logger.Warn().
			Str("operation", name).
			Str("kind", lastErr.Kind.String()).
			Int("attempt", attempt+1).
			Int("max_retries", policy.MaxRetries).
			Dur("delay", delay).
			Msg("Operation failed, backing off before retry")

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
	}

	return lastErr
}

// Delay computes the jittered backoff delay for the given attempt:
// min(MaxDelay, BaseDelay*BackoffFactor^attempt) scaled by a factor uniform
// in [0.5, 1.0) so concurrent clients do not retry in lockstep.
func (e *Executor) Delay(policy Policy, attempt int) time.Duration {
	base := float64(policy.BaseDelay) * math.Pow(policy.BackoffFactor, float64(attempt))
	if capped := float64(policy.MaxDelay); base > capped {
		base = capped
	}
	return time.Duration(base * (0.5 + e.jitter()*0.5))
}
