package question

// Modality is the answer-capture mode of a question.
type Modality string

const (
	// ModalityMCQ means the candidate picks one of the listed options.
	ModalityMCQ Modality = "mcq"

	// ModalityText means the candidate types a free-form answer.
	ModalityText Modality = "text"

	// ModalityDictation means the candidate hears a sentence and types
	// (or dictates) it back; scored by normalized text match.
	ModalityDictation Modality = "dictation"

	// ModalityVoiceReading means the candidate reads the prompt aloud;
	// captured by continuous transcription.
	ModalityVoiceReading Modality = "voice_reading"

	// ModalityVoiceSpeaking means the candidate answers an open prompt
	// aloud; captured by continuous transcription.
	ModalityVoiceSpeaking Modality = "voice_speaking"
)

// Voice reports whether answers for this modality come from the
// transcription engine rather than the keyboard.
func (m Modality) Voice() bool {
	return m == ModalityVoiceReading || m == ModalityVoiceSpeaking
}

// Deterministic reports whether this modality has a local scoring rule.
// The rest defer to the remote evaluator.
func (m Modality) Deterministic() bool {
	return m == ModalityMCQ || m == ModalityDictation
}

// Difficulty buckets a question's difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one practice question. Immutable once fetched.
type Question struct {
	// ID identifies the question within its batch.
	ID string

	// Modality selects how the answer is captured and scored.
	Modality Modality

	// Prompt is the question text shown (or read aloud, for dictation)
	// to the candidate.
	Prompt string

	// Options holds the answer choices for mcq, in display order.
	// Empty for every other modality.
	Options []string

	// CorrectAnswer is the answer key. For mcq it matches one of
	// Options exactly. For dictation it is the expected transcription;
	// when empty, scoring falls back to the Prompt text itself. Empty
	// for open-ended modalities, which are scored remotely.
	CorrectAnswer string

	// Difficulty is the generator's difficulty bucket.
	Difficulty Difficulty
}

// BatchRequest describes one request to the question generator.
type BatchRequest struct {
	// Branch is the subject area, e.g. "computer-science", "aptitude".
	Branch string `validate:"required"`

	// Topic optionally narrows the branch, e.g. "operating systems".
	Topic string

	// Difficulty selects the difficulty bucket for the whole batch.
	Difficulty Difficulty `validate:"required,oneof=easy medium hard"`

	// Modality selects the answer-capture mode for the whole batch.
	Modality Modality `validate:"required,oneof=mcq text dictation voice_reading voice_speaking"`

	// Count is the number of questions requested. The entitlement gate
	// clamps it before the request is issued.
	Count int `validate:"required,min=1,max=50"`
}
