package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func anthropicStub(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-haiku-4-5-20251001",
	}
}

func TestAnthropicProvider_ParsesCompletion(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_batch",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"items":[{"prompt":"What is a deadlock?","difficulty":"medium"}]}`},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  210,
				"output_tokens": 64,
			},
		})
	}

	p := anthropicStub(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write exam questions.",
		Messages:  []Message{{Role: RoleUser, Content: "one operating-systems question"}},
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 210 || resp.Usage.OutputTokens != 64 {
		t.Fatalf("usage mismatch: %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("stop reason = %q, want end", resp.StopReason)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("model = %q", resp.Model)
	}
}

func TestAnthropicProvider_MapsRateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "Too many requests",
			},
		})
	}

	p := anthropicStub(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 64,
	})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_MapsServerErrorToOutage(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "overloaded_error",
				"message": "Overloaded",
			},
		})
	}

	p := anthropicStub(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 64,
	})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ModelID(t *testing.T) {
	p := &AnthropicProvider{model: "claude-haiku-4-5-20251001"}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("ModelID() = %q", p.ModelID())
	}
}

func TestResolveModel_AliasesAndPassThrough(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-haiku-4-5-20251001", "claude-haiku-4-5-20251001"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.alias, anthropicModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}
