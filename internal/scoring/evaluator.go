package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prepvox/prepvox/internal/llm"
)

// ErrEvaluationFailed wraps any failure of the remote evaluator.
// Retryable: the user may re-trigger evaluation of the same report.
var ErrEvaluationFailed = errors.New("answer evaluation failed")

// EvalItem is one question/answer pair sent for remote evaluation.
type EvalItem struct {
	QuestionText string
	AnswerText   string
}

// ItemScore is the evaluator's verdict on one item.
type ItemScore struct {
	Score    float64 // 0-100
	Feedback string
}

// EvalResult is the evaluator's response for a whole submission.
type EvalResult struct {
	Score    float64 // 0-100, overall
	Feedback string
	PerItem  []ItemScore
}

// Evaluator grades open-ended and voice answers remotely.
type Evaluator interface {
	Evaluate(ctx context.Context, items []EvalItem) (*EvalResult, error)
}

const evalSystemPrompt = `You are an examiner grading spoken and written answers from an engineering student preparing for placement interviews.

Rules:
- Grade each answer on correctness, completeness, and clarity. Score 0-100.
- Transcribed speech: ignore capitalization, punctuation, and transcription artifacts; grade the content.
- Feedback per answer: 1-3 sentences, specific and actionable, addressed to the student.
- An empty or off-topic answer scores 0 with feedback saying what was expected.
- The overall score is your holistic assessment, not necessarily the mean.`

// EvalSchema defines the JSON schema for evaluator responses.
var EvalSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Scores and feedback for a batch of open-ended practice answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall score for the submission",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Overall commentary for the whole submission",
			},
			"per_item": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"score": map[string]any{
							"type":    "number",
							"minimum": 0,
							"maximum": 100,
						},
						"feedback": map[string]any{
							"type": "string",
						},
					},
					"required":             []any{"score", "feedback"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"score", "feedback", "per_item"},
		"additionalProperties": false,
	},
}

// LLMEvaluator implements Evaluator on the LLM provider.
type LLMEvaluator struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMEvaluator creates an evaluator with the given provider.
func NewLLMEvaluator(provider llm.Provider) *LLMEvaluator {
	return &LLMEvaluator{provider: provider, maxTokens: 2048}
}

type evalOutput struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	PerItem  []struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	} `json:"per_item"`
}

// Evaluate grades the items. All failures fold into ErrEvaluationFailed.
func (e *LLMEvaluator) Evaluate(ctx context.Context, items []EvalItem) (*EvalResult, error) {
	if len(items) == 0 {
		return &EvalResult{}, nil
	}
	ctx = llm.WithPurpose(ctx, "evaluation")

	req := llm.Request{
		System: evalSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvalMessage(items)},
		},
		Schema:      EvalSchema,
		MaxTokens:   e.maxTokens,
		Temperature: 0.2,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	var out evalOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrEvaluationFailed, err)
	}
	if len(out.PerItem) != len(items) {
		return nil, fmt.Errorf("%w: got %d item scores, want %d", ErrEvaluationFailed, len(out.PerItem), len(items))
	}

	result := &EvalResult{Score: out.Score, Feedback: out.Feedback}
	for _, item := range out.PerItem {
		result.PerItem = append(result.PerItem, ItemScore{Score: item.Score, Feedback: item.Feedback})
	}
	return result, nil
}

func buildEvalMessage(items []EvalItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade these %d answers, in order.\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "\nQuestion %d: %s\nAnswer %d: %s\n", i+1, item.QuestionText, i+1, item.AnswerText)
	}
	return b.String()
}
