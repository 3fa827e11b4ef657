package practice

import (
	"errors"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/scoring"
	"github.com/prepvox/prepvox/internal/speech"
)

// ErrInvalidOption means an mcq answer is not one of the question's
// option labels. The prior answer, if any, is left unchanged.
var ErrInvalidOption = errors.New("answer is not one of the question's options")

// ErrRequestTimeout means a remote request exceeded its deadline. The
// user retries explicitly; nothing is retried automatically.
var ErrRequestTimeout = errors.New("request timed out")

// ErrInvalidTransition means an operation was called in a session state
// that does not permit it.
var ErrInvalidTransition = errors.New("operation not permitted in current session state")

// ErrIndexOutOfRange means a navigation target is outside the loaded
// question sequence.
var ErrIndexOutOfRange = errors.New("question index out of range")

// Kind classifies an error by the remedy it needs.
type Kind int

const (
	// KindRetryable means the user may retry the same action.
	KindRetryable Kind = iota

	// KindBlocking means retrying cannot help; an external remedy is
	// required, such as a subscription upgrade or a microphone fix.
	KindBlocking
)

func (k Kind) String() string {
	if k == KindBlocking {
		return "blocking"
	}
	return "retryable"
}

// Classify maps an error to the presentation the UI should pick:
// a retry button for retryable errors, an upgrade or remediation
// prompt for blocking ones. Unknown errors default to retryable.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, entitlement.ErrEntitlementExpired),
		errors.Is(err, entitlement.ErrLimitReached),
		errors.Is(err, speech.ErrPermissionDenied),
		errors.Is(err, speech.ErrEngineUnavailable):
		return KindBlocking
	case errors.Is(err, question.ErrGenerationFailed),
		errors.Is(err, scoring.ErrEvaluationFailed),
		errors.Is(err, ErrRequestTimeout):
		return KindRetryable
	}
	return KindRetryable
}
