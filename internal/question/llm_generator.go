package question

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/prepvox/prepvox/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewLLMGenerator creates a generator with the given provider and config.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Items []itemOutput `json:"items"`
}

type itemOutput struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
}

// GenerateBatch produces req.Count validated questions in fixed order.
// All failures except entitlement errors are folded into
// ErrGenerationFailed so the session layer can offer a retry.
func (g *LLMGenerator) GenerateBatch(ctx context.Context, req BatchRequest) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, "question-batch")

	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrGenerationFailed, err)
	}
	if len(raw.Items) < req.Count {
		return nil, fmt.Errorf("%w: got %d questions, want %d", ErrGenerationFailed, len(raw.Items), req.Count)
	}

	questions := make([]Question, 0, req.Count)
	for _, item := range raw.Items[:req.Count] {
		q := Question{
			ID:            uuid.New().String(),
			Modality:      req.Modality,
			Prompt:        item.Prompt,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
			Difficulty:    Difficulty(item.Difficulty),
		}
		for _, v := range g.config.Validators {
			if verr := v.Validate(&q, req); verr != nil {
				return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, verr)
			}
		}
		questions = append(questions, q)
	}

	return questions, nil
}
