package question

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects the whole batch.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerKeyValidator{},
		},
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}
