package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func openaiStub(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  "gpt-4o-mini",
	}
}

func TestOpenAIProvider_ParsesCompletion(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-eval",
			"object":  "chat.completion",
			"created": 1767000000,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": `{"per_item":[{"score":85,"feedback":"Mentions preemption, missing priority inversion."}]}`,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     340,
				"completion_tokens": 52,
				"total_tokens":      392,
			},
		})
	}

	p := openaiStub(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You grade spoken exam answers.",
		Messages:  []Message{{Role: RoleUser, Content: "grade this transcript"}},
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 340 || resp.Usage.OutputTokens != 52 {
		t.Fatalf("usage mismatch: %+v", resp.Usage)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("dated snapshot not reported: %q", resp.Model)
	}
	if resp.StopReason != "end" {
		t.Fatalf("stop reason = %q, want end", resp.StopReason)
	}
}

func TestOpenAIProvider_MapsRateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit reached",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := openaiStub(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 64,
	})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_MapsServerErrorToOutage(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "server_error",
				"message": "Bad gateway",
			},
		})
	}

	p := openaiStub(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 64,
	})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini"}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("ModelID() = %q", p.ModelID())
	}
}

func TestOpenAIProvider_CompatibleEndpointViaBaseURL(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: "https://gateway.internal/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("ModelID() = %q, want gpt-4o", p.ModelID())
	}
}
