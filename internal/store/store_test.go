package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndSummarize(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-batch", InputTokens: 100, OutputTokens: 50, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "evaluation", InputTokens: 200, OutputTokens: 80, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "evaluation", Success: false, ErrorMessage: "boom"},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "question-batch", InputTokens: 40, OutputTokens: 20, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	usage, err := repo.UsageByModel(ctx)
	if err != nil {
		t.Fatalf("UsageByModel: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d models, want 2", len(usage))
	}

	top := usage[0]
	if top.Model != "gpt-4o-mini" {
		t.Errorf("top model = %q, want gpt-4o-mini", top.Model)
	}
	if top.Requests != 3 || top.Failures != 1 {
		t.Errorf("requests/failures = %d/%d, want 3/1", top.Requests, top.Failures)
	}
	if top.InputTokens != 300 || top.OutputTokens != 130 {
		t.Errorf("tokens = %d/%d, want 300/130", top.InputTokens, top.OutputTokens)
	}
}

func TestRecentAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-batch",
			InputTokens: 10 * (i + 1), Success: true,
			RequestBody: "req", ResponseBody: "resp",
		})
		if err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	recent, err := repo.RecentLLMRequests(ctx, 2)
	if err != nil {
		t.Fatalf("RecentLLMRequests: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d events, want 2", len(recent))
	}
	if recent[0].ID <= recent[1].ID {
		t.Error("events not newest first")
	}
	if recent[0].InputTokens != 30 {
		t.Errorf("newest event tokens = %d, want 30", recent[0].InputTokens)
	}

	e, err := repo.GetLLMRequest(ctx, recent[1].ID)
	if err != nil {
		t.Fatalf("GetLLMRequest: %v", err)
	}
	if e == nil || e.RequestBody != "req" || e.ResponseBody != "resp" {
		t.Errorf("event = %+v", e)
	}

	missing, err := repo.GetLLMRequest(ctx, 9999)
	if err != nil {
		t.Fatalf("GetLLMRequest(missing): %v", err)
	}
	if missing != nil {
		t.Error("missing event should be nil")
	}
}

func TestUsageByPurpose(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "m", Purpose: "question-batch", InputTokens: 100, OutputTokens: 40, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "m", Purpose: "question-batch", InputTokens: 100, OutputTokens: 60, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "m", Purpose: "evaluation", InputTokens: 50, OutputTokens: 20, LatencyMs: 200, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	usage, err := repo.UsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("UsageByPurpose: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d purposes, want 2", len(usage))
	}
	top := usage[0]
	if top.Purpose != "question-batch" || top.Requests != 2 {
		t.Errorf("top purpose = %+v", top)
	}
	if top.InputTokens != 200 || top.OutputTokens != 100 || top.AvgLatencyMs != 200 {
		t.Errorf("aggregates = %+v", top)
	}
}

func TestUsageByModel_Empty(t *testing.T) {
	s := newTestStore(t)
	usage, err := s.EventRepo().UsageByModel(context.Background())
	if err != nil {
		t.Fatalf("UsageByModel: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("got %d rows, want 0", len(usage))
	}
}
