package question

import (
	"context"
	"errors"
)

// ErrGenerationFailed wraps any non-entitlement failure of the remote
// generator. Retryable: the user may re-issue the same load.
var ErrGenerationFailed = errors.New("question generation failed")

// Generator produces a batch of practice questions.
type Generator interface {
	// GenerateBatch returns exactly req.Count questions in fixed order.
	// All configured validators are run before returning.
	GenerateBatch(ctx context.Context, req BatchRequest) ([]Question, error)
}
