package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the externally visible engine state.
type State int

const (
	// StateIdle means no recording is active.
	StateIdle State = iota

	// StateListening means a recording is active and segments are
	// being accumulated.
	StateListening

	// StateStopping means an explicit Stop is in flight and the engine
	// is waiting for the stream's end event to flush trailing interim
	// text.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// DefaultFinalizeTimeout bounds how long Stop waits for the stream's
// end event before finalizing with whatever text has arrived.
const DefaultFinalizeTimeout = 2 * time.Second

// Engine turns a session-bounded recognition stream into a single
// continuous recording that yields one committed text string.
//
// The engine owns all mutable recording state behind a mutex, and every
// recognizer callback reads through the engine instance rather than
// through values captured at registration time. That is what makes the
// stop-vs-auto-restart race decidable: Stop marks the intentional-stop
// flag under the lock before it touches the recognizer, so the
// asynchronous end callback always observes the flag and never restarts
// a recording the caller deliberately ended.
type Engine struct {
	rec             Recognizer
	log             *logrus.Entry
	finalizeTimeout time.Duration

	mu        sync.Mutex
	state     State
	ctx       context.Context // context of the current recording, for restarts
	carried   string          // committed text from earlier internal streams
	winFinal  string          // committed text recomputed from the current window
	interim   string          // last interim hypothesis, volatile
	stopWant  bool            // set synchronously inside Stop, before rec.Stop
	finalized chan string     // receives the finalized string on end-after-stop

	faults chan error
}

// Option configures an Engine.
type Option func(*Engine)

// WithFinalizeTimeout overrides DefaultFinalizeTimeout.
func WithFinalizeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.finalizeTimeout = d }
}

// NewEngine creates an Engine on top of the given recognizer.
func NewEngine(rec Recognizer, log *logrus.Entry, opts ...Option) *Engine {
	e := &Engine{
		rec:             rec,
		log:             log,
		finalizeTimeout: DefaultFinalizeTimeout,
		faults:          make(chan error, 4),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Faults delivers fatal mid-stream errors (audio capture failure,
// non-self-caused aborts). The engine has already stopped and cleared
// its buffer by the time a fault is delivered.
func (e *Engine) Faults() <-chan error {
	return e.faults
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Listening reports whether a recording is active or finalizing.
func (e *Engine) Listening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != StateIdle
}

// Committed returns the accumulated committed text of the active
// recording. Empty when idle.
func (e *Engine) Committed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return joinText(e.carried, e.winFinal)
}

// Interim returns the current volatile hypothesis. Never part of the
// durable buffer: it is promoted on Stop or discarded.
func (e *Engine) Interim() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interim
}

// Start begins a new recording. Any text from a previous recording is
// gone: the buffer starts empty. Returns ErrStreamActive when a
// recording is already active (starting is rejected, not queued),
// ErrEngineUnavailable or ErrPermissionDenied from the platform.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrStreamActive
	}
	e.carried = ""
	e.winFinal = ""
	e.interim = ""
	e.stopWant = false
	e.ctx = ctx
	// Listening must be set before the platform call: a recognizer may
	// deliver events (even an immediate end) from inside Start, and the
	// handlers ignore everything observed in the idle state.
	e.state = StateListening
	e.mu.Unlock()

	if err := e.rec.Start(ctx, e); err != nil {
		e.mu.Lock()
		e.state = StateIdle
		e.clearLocked()
		e.mu.Unlock()
		return err
	}

	e.log.Debug("recording started")
	return nil
}

// Stop ends the active recording and returns the finalized string: the
// committed text plus any trailing interim hypothesis, joined with a
// single space. The buffer is cleared before Stop returns.
//
// The intentional-stop flag is set under the lock before the platform
// stop call is issued, so the end event, whenever it arrives, can
// tell a user stop from an engine timeout and will not auto-restart.
// Stop blocks until the end event has flushed, bounded by the finalize
// timeout; on timeout it finalizes with the text received so far.
func (e *Engine) Stop(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.state != StateListening {
		e.mu.Unlock()
		return "", ErrNotListening
	}
	e.stopWant = true
	e.state = StateStopping
	done := make(chan string, 1)
	e.finalized = done
	e.mu.Unlock()

	if err := e.rec.Stop(); err != nil {
		// The stream is gone already; finalize with what we have.
		e.log.WithError(err).Debug("platform stop failed, finalizing directly")
		return e.finalizeNow(), nil
	}

	select {
	case text := <-done:
		e.log.WithField("chars", len(text)).Debug("recording stopped")
		return text, nil
	case <-time.After(e.finalizeTimeout):
		e.log.Warn("end event never arrived, finalizing on timeout")
		return e.finalizeNow(), nil
	case <-ctx.Done():
		return e.finalizeNow(), ctx.Err()
	}
}

// Abort force-stops any active recording and discards its buffer.
// Used when switching questions: partial speech for question N must
// never leak into question N+1. Aborting an idle engine is a no-op.
func (e *Engine) Abort() {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return
	}
	e.stopWant = true
	e.state = StateIdle
	e.clearLocked()
	e.finalized = nil
	e.mu.Unlock()

	if err := e.rec.Stop(); err != nil {
		e.log.WithError(err).Debug("platform stop during abort")
	}
	e.log.Debug("recording aborted, buffer discarded")
}

// OnResult implements Handler. The window is the complete result set
// for the current internal stream, so committed and interim text are
// recomputed from scratch on every call; re-emitted overlapping
// windows land on the same state instead of duplicating appends.
func (e *Engine) OnResult(window []ResultSegment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return // late event from a stream we already abandoned
	}

	var final, interim []string
	for _, seg := range window {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Final {
			final = append(final, text)
		} else {
			interim = append(interim, text)
		}
	}
	e.winFinal = strings.Join(final, " ")
	e.interim = strings.Join(interim, " ")
}

// OnEnd implements Handler. This is where the stop race resolves: the
// intentional-stop flag decides between finalizing for the caller and
// silently restarting the stream to keep listening.
func (e *Engine) OnEnd() {
	e.mu.Lock()

	if e.stopWant {
		text := e.finalizeLocked()
		ch := e.finalized
		e.finalized = nil
		e.state = StateIdle
		e.stopWant = false
		e.mu.Unlock()
		if ch != nil {
			ch <- text
		}
		return
	}

	if e.state != StateListening {
		e.mu.Unlock()
		return
	}

	// Engine-initiated end (silence timeout). Fold the window's final
	// text into the carried buffer, drop the dead stream's interim,
	// and restart so the caller keeps hearing a single recording.
	e.carried = joinText(e.carried, e.winFinal)
	e.winFinal = ""
	e.interim = ""
	ctx := e.ctx
	e.mu.Unlock()

	e.log.Debug("stream ended without stop, restarting")
	if err := e.rec.Start(ctx, e); err != nil {
		if errors.Is(err, ErrStreamActive) {
			return // a stream came back on its own, nothing to do
		}
		e.log.WithError(err).Error("auto-restart failed")
		e.failNow(err)
	}
}

// OnError implements Handler.
func (e *Engine) OnError(err error) {
	switch {
	case errors.Is(err, ErrNoSpeech):
		return // non-fatal, stay listening
	case errors.Is(err, ErrAborted):
		e.mu.Lock()
		selfCaused := e.stopWant
		e.mu.Unlock()
		if selfCaused {
			return
		}
		e.failNow(err)
	default:
		e.failNow(err)
	}
}

// failNow stops the recording, discards the buffer, and reports the
// fatal error to the fault channel.
func (e *Engine) failNow(err error) {
	e.mu.Lock()
	e.stopWant = true // suppress restart from the trailing end event
	e.state = StateIdle
	e.clearLocked()
	ch := e.finalized
	e.finalized = nil
	e.mu.Unlock()

	if ch != nil {
		ch <- "" // unblock a pending Stop
	}
	select {
	case e.faults <- err:
	default:
		e.log.WithError(err).Warn("fault channel full, dropping")
	}
}

// finalizeNow finalizes outside the end-event path (platform stop
// error, finalize timeout, caller context cancellation).
func (e *Engine) finalizeNow() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	text := e.finalizeLocked()
	e.finalized = nil
	e.state = StateIdle
	e.stopWant = false
	return text
}

// finalizeLocked promotes trailing interim text into the finalized
// string and clears the buffer. Callers hold e.mu.
func (e *Engine) finalizeLocked() string {
	text := joinText(joinText(e.carried, e.winFinal), e.interim)
	e.clearLocked()
	return text
}

func (e *Engine) clearLocked() {
	e.carried = ""
	e.winFinal = ""
	e.interim = ""
}

func joinText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
