package question

import "github.com/prepvox/prepvox/internal/llm"

// BatchSchema defines the JSON schema for LLM question-batch responses.
var BatchSchema = &llm.Schema{
	Name:        "practice-question-batch",
	Description: "A batch of exam practice questions for one subject, difficulty, and answer modality",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question text shown to the candidate. For dictation: the sentence to be read aloud and transcribed back.",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 answer choices for mcq. Empty array for every other modality.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "The answer key. For mcq: the exact text of the correct option. For dictation: the expected transcription. Empty for open-ended modalities.",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"easy", "medium", "hard"},
							"description": "Difficulty bucket of this question",
						},
					},
					"required":             []any{"prompt", "options", "correct_answer", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"items"},
		"additionalProperties": false,
	},
}
