package scoring

import (
	"testing"

	"github.com/prepvox/prepvox/internal/question"
)

func mcq(prompt, answer string) question.Question {
	return question.Question{
		Modality:      question.ModalityMCQ,
		Prompt:        prompt,
		Options:       []string{answer, "B", "C", "D"},
		CorrectAnswer: answer,
	}
}

func TestScore_MCQAggregate(t *testing.T) {
	// Three MCQs: one right, one wrong, one blank.
	questions := []question.Question{
		mcq("q1", "alpha"),
		mcq("q2", "beta"),
		mcq("q3", "gamma"),
	}
	answers := map[int]string{
		0: "alpha",
		1: "delta",
	}

	report := NewScorer().Score("s1", questions, answers)

	agg := report.Aggregate
	if agg.CorrectCount != 1 || agg.Total != 3 || agg.Percentage != 33 {
		t.Errorf("aggregate = %+v, want {1 3 33}", agg)
	}

	if report.PerQuestion[0].Correct == nil || !*report.PerQuestion[0].Correct {
		t.Error("q1 should be correct")
	}
	if report.PerQuestion[1].Correct == nil || *report.PerQuestion[1].Correct {
		t.Error("q2 should be incorrect")
	}
	if report.PerQuestion[2].Correct == nil || *report.PerQuestion[2].Correct {
		t.Error("unanswered q3 should be incorrect, not deferred")
	}
}

func TestScore_DictationNormalization(t *testing.T) {
	q := question.Question{
		Modality:      question.ModalityDictation,
		Prompt:        "ignored prompt",
		CorrectAnswer: "The Cat Sat.",
	}

	tests := []struct {
		answer string
		want   bool
	}{
		{"The Cat Sat.", true},
		{"the cat sat.", true},
		{"The  Cat Sat.", true},
		{"  the   cat   sat.  ", true},
		{"the cat sat", false}, // punctuation still counts
		{"the dog sat.", false},
	}
	scorer := NewScorer()
	for _, tt := range tests {
		report := scorer.Score("s1", []question.Question{q}, map[int]string{0: tt.answer})
		got := *report.PerQuestion[0].Correct
		if got != tt.want {
			t.Errorf("dictation %q: correct = %t, want %t", tt.answer, got, tt.want)
		}
	}
}

func TestScore_DictationPromptFallback(t *testing.T) {
	// No separate answer key: the prompt sentence is the expected
	// transcription.
	q := question.Question{
		Modality: question.ModalityDictation,
		Prompt:   "A stitch in time saves nine.",
	}
	report := NewScorer().Score("s1", []question.Question{q}, map[int]string{0: "a stitch in  time saves nine."})
	if !*report.PerQuestion[0].Correct {
		t.Error("prompt-fallback dictation match failed")
	}
}

func TestScore_DeferredModalitiesHaveNoVerdict(t *testing.T) {
	questions := []question.Question{
		{Modality: question.ModalityText, Prompt: "Explain paging."},
		{Modality: question.ModalityVoiceSpeaking, Prompt: "Tell me about yourself."},
	}
	answers := map[int]string{0: "pages map virtual to physical", 1: "I am a final year student"}

	report := NewScorer().Score("s1", questions, answers)
	for i, qr := range report.PerQuestion {
		if qr.Correct != nil {
			t.Errorf("question %d has local verdict for deferred modality", i)
		}
	}
	if report.Aggregate.Total != 0 {
		t.Errorf("aggregate total = %d, want 0 (nothing deterministic)", report.Aggregate.Total)
	}
}

func TestDeferredItems_SkipsBlankAndDeterministic(t *testing.T) {
	questions := []question.Question{
		mcq("q1", "a"),
		{Modality: question.ModalityText, Prompt: "t1"},
		{Modality: question.ModalityVoiceSpeaking, Prompt: "v1"},
		{Modality: question.ModalityText, Prompt: "t2"},
	}
	answers := map[int]string{0: "a", 1: "typed answer", 2: "  "}

	items := NewScorer().DeferredItems(questions, answers)
	if len(items) != 1 {
		t.Fatalf("got %d deferred items, want 1", len(items))
	}
	if items[0].QuestionText != "t1" {
		t.Errorf("deferred item = %q, want t1", items[0].QuestionText)
	}
}

func TestReport_WithEvaluationSkipsWhitespaceAnswers(t *testing.T) {
	// A whitespace-only answer is never sent to the evaluator, so the
	// merge must skip it too or every later verdict lands one slot off.
	questions := []question.Question{
		{Modality: question.ModalityText, Prompt: "t1"},
		{Modality: question.ModalityText, Prompt: "t2"},
	}
	answers := map[int]string{0: "  ", 1: "real answer"}

	scorer := NewScorer()
	items := scorer.DeferredItems(questions, answers)
	if len(items) != 1 || items[0].QuestionText != "t2" {
		t.Fatalf("deferred items = %+v, want only t2", items)
	}

	report := scorer.Score("s1", questions, answers)
	merged := report.WithEvaluation(&EvalResult{
		Score:    90,
		Feedback: "overall",
		PerItem:  []ItemScore{{Score: 90, Feedback: "graded t2"}},
	})

	if merged.PerQuestion[0].Score != nil || merged.PerQuestion[0].Feedback != "" {
		t.Errorf("whitespace answer received a verdict: %+v", merged.PerQuestion[0])
	}
	if merged.PerQuestion[1].Score == nil || *merged.PerQuestion[1].Score != 90 {
		t.Error("graded answer did not receive its verdict")
	}
	if merged.PerQuestion[1].Feedback != "graded t2" {
		t.Errorf("feedback = %q, want graded t2", merged.PerQuestion[1].Feedback)
	}
}

func TestReport_WithEvaluationIsCopyOnWrite(t *testing.T) {
	questions := []question.Question{
		{Modality: question.ModalityText, Prompt: "t1"},
		{Modality: question.ModalityText, Prompt: "t2"},
	}
	answers := map[int]string{0: "first", 1: "second"}
	orig := NewScorer().Score("s1", questions, answers)

	eval := &EvalResult{
		Score:    72,
		Feedback: "decent",
		PerItem: []ItemScore{
			{Score: 80, Feedback: "good"},
			{Score: 64, Feedback: "thin"},
		},
	}
	merged := orig.WithEvaluation(eval)

	if orig.Evaluated {
		t.Error("original report mutated")
	}
	if orig.PerQuestion[0].Score != nil {
		t.Error("original per-question result mutated")
	}
	if !merged.Evaluated || merged.OverallFeedback != "decent" {
		t.Error("merged report missing evaluation")
	}
	if merged.PerQuestion[0].Score == nil || *merged.PerQuestion[0].Score != 80 {
		t.Error("first deferred item not merged positionally")
	}
	if merged.PerQuestion[1].Feedback != "thin" {
		t.Error("second deferred item feedback missing")
	}
}
