package store

import (
	"context"
	"time"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored event row.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// ModelUsage aggregates request counts and token totals for one model.
type ModelUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// PurposeUsage aggregates request counts and token totals for one
// request purpose (question-batch, evaluation, ...).
type PurposeUsage struct {
	Purpose      string
	Requests     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to telemetry events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns the newest events, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// GetLLMRequest returns one event by ID, nil if absent.
	GetLLMRequest(ctx context.Context, id int) (*LLMRequestEvent, error)

	// UsageByModel returns aggregate usage grouped by model, most
	// requested first.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)

	// UsageByPurpose returns aggregate usage grouped by purpose, most
	// requested first.
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}
