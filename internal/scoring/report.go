package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/prepvox/prepvox/internal/question"
)

// QuestionResult is the scored outcome for one question index.
type QuestionResult struct {
	Index      int
	Modality   question.Modality
	UserAnswer string

	// Correct is set only for modalities with a deterministic local
	// verdict (mcq, dictation). Nil means the verdict is deferred.
	Correct *bool

	// Score and Feedback arrive from the remote evaluator for deferred
	// modalities. Score is 0-100.
	Score    *float64
	Feedback string
}

// Aggregate summarizes the deterministic portion of a report.
type Aggregate struct {
	CorrectCount int
	Total        int
	Percentage   int
}

// Report is the outcome of one submit. Immutable: merging evaluator
// results produces a new Report, and a re-submit builds a fresh one.
type Report struct {
	SessionID   string
	PerQuestion []QuestionResult
	Aggregate   Aggregate
	CreatedAt   time.Time

	// Evaluated is true once remote evaluation results were merged.
	Evaluated bool

	// OverallFeedback is the evaluator's whole-session commentary.
	OverallFeedback string
}

// WithEvaluation returns a copy of the report with evaluator results
// merged into the deferred entries. The receiver is not modified.
// Evaluator items are matched positionally against the deferred
// questions in index order, using the same blank test DeferredItems
// applies, so the merge walks exactly the entries that were sent.
func (r Report) WithEvaluation(eval *EvalResult) Report {
	merged := r
	merged.PerQuestion = make([]QuestionResult, len(r.PerQuestion))
	copy(merged.PerQuestion, r.PerQuestion)

	i := 0
	for idx := range merged.PerQuestion {
		qr := &merged.PerQuestion[idx]
		if qr.Correct != nil || strings.TrimSpace(qr.UserAnswer) == "" {
			continue
		}
		if i >= len(eval.PerItem) {
			break
		}
		item := eval.PerItem[i]
		score := item.Score
		qr.Score = &score
		qr.Feedback = item.Feedback
		i++
	}

	merged.Evaluated = true
	merged.OverallFeedback = eval.Feedback
	return merged
}

// aggregate computes the deterministic aggregate over results.
// Percentage is rounded, and counts only modalities with a local
// verdict.
func aggregate(results []QuestionResult) Aggregate {
	var agg Aggregate
	for _, r := range results {
		if !r.Modality.Deterministic() {
			continue
		}
		agg.Total++
		if r.Correct != nil && *r.Correct {
			agg.CorrectCount++
		}
	}
	if agg.Total > 0 {
		agg.Percentage = int(math.Round(float64(agg.CorrectCount) / float64(agg.Total) * 100))
	}
	return agg
}
