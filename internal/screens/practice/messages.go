package practice

import (
	"time"

	"github.com/prepvox/prepvox/internal/scoring"
)

// navigatedMsg is sent when a question switch (with any recording
// capture) has completed.
type navigatedMsg struct {
	err error
}

// recordingStoppedMsg carries the finalized transcription text.
type recordingStoppedMsg struct {
	text string
	err  error
}

// submittedMsg is sent when scoring has completed.
type submittedMsg struct {
	report *scoring.Report
	err    error
}

// faultMsg carries a fatal speech-capture error from the engine.
type faultMsg struct {
	err error
}

// speakDoneMsg is sent when a dictation prompt playback finishes.
type speakDoneMsg struct {
	err error
}

// transcriptTickMsg refreshes the live transcript display while a
// recording is active.
type transcriptTickMsg time.Time
