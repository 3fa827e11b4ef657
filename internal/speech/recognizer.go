package speech

import "context"

// ResultSegment is one recognized segment inside a result window.
// Final segments are stable; non-final segments are volatile hypotheses
// that later windows may revise or drop.
type ResultSegment struct {
	Text  string
	Final bool
}

// Handler receives events from a live recognition stream. The engine
// registers itself once per stream; handlers must be safe to call from
// the recognizer's own goroutine.
type Handler interface {
	// OnResult delivers the full result window accumulated since the
	// stream opened. Recognizers may re-emit overlapping windows; the
	// handler must treat each call as a complete replacement.
	OnResult(window []ResultSegment)

	// OnEnd fires exactly once when the stream closes, for any reason:
	// an explicit Stop, a silence timeout, or a platform fault.
	OnEnd()

	// OnError reports a stream error. The stream may or may not end
	// afterwards; a terminal error is followed by OnEnd.
	OnError(err error)
}

// Recognizer is the platform speech-to-text primitive: a continuous
// recognition stream with interim results enabled. Implementations are
// session-bounded: the stream can close on its own (silence timeout),
// and the engine layered on top provides the continuous-listening
// illusion by restarting it.
type Recognizer interface {
	// Start opens a new recognition stream delivering events to h.
	// Returns ErrStreamActive if a stream is already live,
	// ErrEngineUnavailable if continuous recognition is not supported
	// on this host, or ErrPermissionDenied if microphone access was
	// refused.
	Start(ctx context.Context, h Handler) error

	// Stop requests the live stream to close. The close is
	// asynchronous: OnEnd fires on the handler once the stream has
	// drained. Stopping an idle recognizer is a no-op.
	Stop() error
}
