package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff
// and jitter. It wraps any Provider, so the generator and evaluator
// get the same policy for free.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry decorates p with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !r.retryable(err, &invalidRetried) {
			return nil, err
		}

		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable classifies an error under the retry policy.
func (r *RetryProvider) retryable(err error, invalidRetried *bool) bool {
	// A cancelled caller is done; never retry context errors.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Truncation will recur at the same MaxTokens cap.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// A malformed completion gets exactly one second chance: models do
	// slip occasionally, but repeated garbage means the prompt or the
	// schema is wrong.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, provider outages and anything else (network, DNS)
	// are treated as transient.
	return true
}

// wait computes the backoff before the next attempt.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	// A vendor-supplied Retry-After wins over the computed backoff.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	w := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if w > float64(r.config.MaxWait) {
		w = float64(r.config.MaxWait)
	}

	// Spread retries with up to 20% jitter either way.
	w += w * 0.2 * (2*rand.Float64() - 1)

	if w < 0 {
		w = 0
	}
	return time.Duration(w)
}
