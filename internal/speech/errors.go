package speech

import "errors"

// Errors surfaced by the Recognizer primitive and the Engine.
//
// ErrNoSpeech and a self-caused ErrAborted are absorbed inside the
// engine and never reach callers. Everything else propagates.
var (
	// ErrEngineUnavailable means the host has no continuous speech
	// recognition support. Callers should surface a fallback
	// instruction (type the answer instead).
	ErrEngineUnavailable = errors.New("speech recognition unavailable on this host")

	// ErrPermissionDenied means microphone access was refused.
	ErrPermissionDenied = errors.New("microphone permission denied")

	// ErrAudioCapture means the audio device failed mid-stream. Fatal:
	// the engine stops and notifies the caller.
	ErrAudioCapture = errors.New("audio capture failure")

	// ErrNoSpeech is the platform's no-speech-detected condition.
	// Non-fatal; the engine ignores it.
	ErrNoSpeech = errors.New("no speech detected")

	// ErrAborted is the platform's stream-aborted condition. Benign
	// when caused by our own stop, fatal otherwise.
	ErrAborted = errors.New("recognition aborted")

	// ErrStreamActive is returned by Recognizer.Start when a stream is
	// already live. The engine treats it as a benign no-op during
	// auto-restart and as a precondition violation everywhere else.
	ErrStreamActive = errors.New("recognition stream already active")

	// ErrNotListening is returned by Stop when no recording is active.
	ErrNotListening = errors.New("not listening")
)
