package practice

import (
	"fmt"
	"strings"

	"github.com/prepvox/prepvox/internal/question"
)

// AnswerStore holds the current answer per question index. Later writes
// overwrite earlier ones. A missing key means unanswered; an empty
// string is stored verbatim but counts as unanswered for progress.
type AnswerStore struct {
	answers map[int]string
}

// NewAnswerStore creates an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{answers: make(map[int]string)}
}

// Set records the answer for the question at index. For mcq the value
// must be one of the question's option labels; on ErrInvalidOption the
// prior value is left unchanged. Any string, including empty, is
// accepted for the other modalities.
func (s *AnswerStore) Set(index int, q question.Question, value string) error {
	if q.Modality == question.ModalityMCQ && !optionOf(q, value) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, value)
	}
	s.answers[index] = value
	return nil
}

// Get returns the stored answer and whether one exists.
func (s *AnswerStore) Get(index int) (string, bool) {
	v, ok := s.answers[index]
	return v, ok
}

// Clear removes the answer for index entirely.
func (s *AnswerStore) Clear(index int) {
	delete(s.answers, index)
}

// Reset removes every answer.
func (s *AnswerStore) Reset() {
	s.answers = make(map[int]string)
}

// AnsweredCount returns the number of non-blank answers.
func (s *AnswerStore) AnsweredCount() int {
	n := 0
	for _, v := range s.answers {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// UnansweredCount returns how many of total questions have no answer
// or a blank one.
func (s *AnswerStore) UnansweredCount(total int) int {
	return total - s.AnsweredCount()
}

// Snapshot returns a copy of the answers keyed by question index.
func (s *AnswerStore) Snapshot() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func optionOf(q question.Question, value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}
