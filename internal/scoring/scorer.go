package scoring

import (
	"strings"
	"time"

	"github.com/prepvox/prepvox/internal/question"
)

// Scorer computes local verdicts for deterministic modalities and
// leaves the rest for the remote evaluator.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score builds a report for the given questions and answers. Answers
// are keyed by question index; a missing key means unanswered.
func (s *Scorer) Score(sessionID string, questions []question.Question, answers map[int]string) Report {
	results := make([]QuestionResult, len(questions))
	for i, q := range questions {
		answer, answered := answers[i]
		qr := QuestionResult{
			Index:      i,
			Modality:   q.Modality,
			UserAnswer: answer,
		}
		if q.Modality.Deterministic() {
			correct := answered && s.verdict(q, answer)
			qr.Correct = &correct
		}
		results[i] = qr
	}

	return Report{
		SessionID:   sessionID,
		PerQuestion: results,
		Aggregate:   aggregate(results),
		CreatedAt:   time.Now(),
	}
}

// DeferredItems extracts the evaluator payload: answered questions of
// modalities without a local verdict, in index order.
func (s *Scorer) DeferredItems(questions []question.Question, answers map[int]string) []EvalItem {
	var items []EvalItem
	for i, q := range questions {
		if q.Modality.Deterministic() {
			continue
		}
		answer, ok := answers[i]
		if !ok || strings.TrimSpace(answer) == "" {
			continue
		}
		items = append(items, EvalItem{QuestionText: q.Prompt, AnswerText: answer})
	}
	return items
}

func (s *Scorer) verdict(q question.Question, answer string) bool {
	switch q.Modality {
	case question.ModalityMCQ:
		return answer == q.CorrectAnswer
	case question.ModalityDictation:
		key := q.CorrectAnswer
		if key == "" {
			// No separate answer key authored: the prompt sentence is
			// the expected transcription.
			key = q.Prompt
		}
		return normalizeText(answer) == normalizeText(key)
	}
	return false
}

// normalizeText lowercases and collapses whitespace runs to single
// spaces for dictation comparison.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
