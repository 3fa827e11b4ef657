package question

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prepvox/prepvox/internal/llm"
)

func batchJSON(items ...map[string]any) json.RawMessage {
	raw, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		panic(err)
	}
	return raw
}

func mcqItem(prompt, answer string) map[string]any {
	return map[string]any{
		"prompt":         prompt,
		"options":        []string{answer, "B", "C", "D"},
		"correct_answer": answer,
		"difficulty":     "medium",
	}
}

func TestGenerateBatch_ReturnsRequestedCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(
			mcqItem("Q one?", "A1"),
			mcqItem("Q two?", "A2"),
			mcqItem("Q three?", "A3"),
		),
	})
	gen := NewLLMGenerator(mock, DefaultConfig())

	req := BatchRequest{Branch: "cs", Difficulty: DifficultyMedium, Modality: ModalityMCQ, Count: 2}
	got, err := gen.GenerateBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2 (surplus trimmed)", len(got))
	}
	if got[0].Prompt != "Q one?" || got[1].Prompt != "Q two?" {
		t.Error("batch order not preserved")
	}
	for _, q := range got {
		if q.ID == "" {
			t.Error("question missing ID")
		}
		if q.Modality != ModalityMCQ {
			t.Errorf("modality = %q, want mcq", q.Modality)
		}
	}
}

func TestGenerateBatch_ShortBatchFails(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(mcqItem("only one?", "A")),
	})
	gen := NewLLMGenerator(mock, DefaultConfig())

	req := BatchRequest{Branch: "cs", Difficulty: DifficultyEasy, Modality: ModalityMCQ, Count: 3}
	_, err := gen.GenerateBatch(context.Background(), req)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerateBatch_ProviderErrorWrapped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := NewLLMGenerator(mock, DefaultConfig())

	req := BatchRequest{Branch: "cs", Difficulty: DifficultyEasy, Modality: ModalityText, Count: 1}
	_, err := gen.GenerateBatch(context.Background(), req)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerateBatch_ValidatorRejection(t *testing.T) {
	bad := mcqItem("bad key?", "A")
	bad["correct_answer"] = "not an option"
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(bad)})
	gen := NewLLMGenerator(mock, DefaultConfig())

	req := BatchRequest{Branch: "cs", Difficulty: DifficultyHard, Modality: ModalityMCQ, Count: 1}
	_, err := gen.GenerateBatch(context.Background(), req)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
}
