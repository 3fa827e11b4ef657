package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single entry point for model-backed generation. The
// question generator and the answer evaluator both program against it,
// so swapping vendors never touches domain code.
type Provider interface {
	// Generate runs one completion. When req.Schema is set the provider
	// asks for structured output and the returned Content is JSON that
	// has been validated against that schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the model this provider resolves requests to.
	ModelID() string
}

// Request is a single completion request.
type Request struct {
	// System frames the model's role, e.g. the exam-coach persona the
	// question generator uses.
	System string

	// Messages is the turn history. Question generation and answer
	// evaluation are both single-turn, so this usually holds exactly
	// one user message.
	Messages []Message

	// Schema, when set, forces structured output. Left nil, Content
	// comes back as the raw completion text.
	Schema *Schema

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature in [0.0, 1.0]. Zero means deterministic.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema declares the JSON shape a structured response must satisfy.
type Schema struct {
	// Name keys the compiled-schema cache and doubles as the schema
	// name sent to providers that want one. Kebab-case, e.g.
	// "practice-question-batch" or "answer-evaluation".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a plain map.
	Definition map[string]any
}

// Response is the outcome of one completion.
type Response struct {
	// Content is the completion body. Validated JSON when the request
	// carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage holds the token counts billed for this request.
	Usage Usage

	// Model is the model that actually served the request, which may be
	// a dated snapshot of the requested alias.
	Model string

	// StopReason is normalized across vendors: "end", "max_tokens" or
	// "error".
	StopReason string
}

// Usage is the token accounting for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
