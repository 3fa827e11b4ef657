package question

import (
	"fmt"
	"strings"
)

// Validator checks a generated question before it reaches a session.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logging.
	Name() string

	// Validate returns nil if the question passes, or a
	// ValidationError describing the failure.
	Validate(q *Question, req BatchRequest) *ValidationError
}

// ValidationError describes why a generated question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator enforces the basic shape of a question: non-empty
// prompt, the requested modality, and option/answer-key consistency.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, req BatchRequest) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(q.Prompt) == "" {
		return fail("empty prompt")
	}
	if q.Modality != req.Modality {
		return fail("modality %q, requested %q", q.Modality, req.Modality)
	}

	switch q.Modality {
	case ModalityMCQ:
		if len(q.Options) != 4 {
			return fail("mcq question has %d options, want 4", len(q.Options))
		}
		if q.CorrectAnswer == "" {
			return fail("mcq question has no answer key")
		}
	default:
		if len(q.Options) != 0 {
			return fail("%s question carries %d options", q.Modality, len(q.Options))
		}
	}

	return nil
}

// AnswerKeyValidator checks that the answer key is consistent with the
// modality: for mcq it must match exactly one option; dictation keys
// must be non-trivial sentences.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(q *Question, _ BatchRequest) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	switch q.Modality {
	case ModalityMCQ:
		matches := 0
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				matches++
			}
		}
		if matches != 1 {
			return fail("answer key matches %d options, want exactly 1", matches)
		}
	case ModalityDictation:
		// A missing key falls back to the prompt at scoring time, but a
		// key that is present must be a real sentence.
		if q.CorrectAnswer != "" && len(strings.Fields(q.CorrectAnswer)) < 3 {
			return fail("dictation key too short: %q", q.CorrectAnswer)
		}
	}

	return nil
}
