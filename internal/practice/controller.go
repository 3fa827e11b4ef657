package practice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/scoring"
	"github.com/prepvox/prepvox/internal/speech"
)

// State is the session lifecycle state.
type State int

const (
	// StateConfiguring means no session is live; the user is picking
	// batch parameters.
	StateConfiguring State = iota

	// StateLoading means a batch request is in flight.
	StateLoading

	// StateInProgress means questions are loaded and being answered.
	StateInProgress

	// StateSubmitted means the session was scored. One-way: a new
	// Configure is required to practice again.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in-progress"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// DefaultLoadTimeout bounds how long a batch load may take before it is
// reported as ErrRequestTimeout.
const DefaultLoadTimeout = 45 * time.Second

// Controller drives one practice session at a time through its
// lifecycle: configure, load a batch, navigate and answer, submit,
// evaluate. It owns the session's questions and answers, consumes the
// transcription engine's finalized text, and hands the scorer the
// final answer set.
//
// Remote calls run outside the lock; their results are applied only if
// the session token still matches, so a response arriving after the
// user exited or reconfigured is discarded rather than resurrecting a
// dead session.
type Controller struct {
	gen       question.Generator
	gate      *entitlement.Gate
	engine    *speech.Engine
	scorer    *scoring.Scorer
	evaluator scoring.Evaluator
	validate  *validator.Validate
	log       *logrus.Entry

	loadTimeout time.Duration

	mu        sync.Mutex
	state     State
	token     string
	tier      entitlement.Tier
	req       question.BatchRequest
	questions []question.Question
	current   int
	answers   *AnswerStore
	report    *scoring.Report
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLoadTimeout overrides DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.loadTimeout = d }
}

// NewController creates a Controller. The engine may be nil when no
// voice capture is available; voice operations then fail with
// speech.ErrEngineUnavailable.
func NewController(
	gen question.Generator,
	gate *entitlement.Gate,
	engine *speech.Engine,
	scorer *scoring.Scorer,
	evaluator scoring.Evaluator,
	log *logrus.Entry,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		gen:         gen,
		gate:        gate,
		engine:      engine,
		scorer:      scorer,
		evaluator:   evaluator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log,
		loadTimeout: DefaultLoadTimeout,
		state:       StateConfiguring,
		answers:     NewAnswerStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure validates the batch parameters, checks the caller's
// entitlement, and clamps the requested count to the tier's cap. On
// success the session gains its identity token and is ready for
// LoadBatch. Permitted from Configuring and from Submitted, where it
// begins a fresh session.
func (c *Controller) Configure(ctx context.Context, req question.BatchRequest) error {
	c.mu.Lock()
	if c.state != StateConfiguring && c.state != StateSubmitted {
		c.mu.Unlock()
		return fmt.Errorf("%w: configure in state %s", ErrInvalidTransition, c.state)
	}
	c.mu.Unlock()

	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid session parameters: %w", err)
	}

	tier, err := c.gate.CheckEntitlement(ctx)
	if err != nil {
		return err
	}

	clamped := c.gate.ClampCount(tier, req.Count)
	if clamped != req.Count {
		c.log.WithFields(logrus.Fields{
			"requested": req.Count,
			"clamped":   clamped,
			"tier":      tier,
		}).Info("question count clamped to tier cap")
		req.Count = clamped
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.req = req
	c.tier = tier
	c.token = uuid.New().String()
	c.log.WithFields(logrus.Fields{
		"session":    c.token,
		"modality":   req.Modality,
		"difficulty": req.Difficulty,
		"count":      req.Count,
	}).Info("session configured")
	return nil
}

// LoadBatch requests the configured number of questions from the
// generator. It blocks until the batch arrives or the load timeout
// fires, in which case ErrRequestTimeout is returned. On failure the
// session returns to Configuring so the user can retry; entitlement
// errors pass through unwrapped so the UI can raise the upgrade prompt
// instead of a retry button.
func (c *Controller) LoadBatch(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateConfiguring || c.token == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: load in state %s", ErrInvalidTransition, c.state)
	}
	c.state = StateLoading
	token := c.token
	req := c.req
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()
	items, err := c.gen.GenerateBatch(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != token || c.state != StateLoading {
		// The user exited or reconfigured while the request was in
		// flight. The late result must not revive the old session.
		c.log.WithField("session", token).Debug("discarding late batch result")
		return nil
	}

	if err != nil {
		c.state = StateConfiguring
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: batch load took over %s", ErrRequestTimeout, c.loadTimeout)
		}
		if entitlement.UpgradeRequired(err) {
			return err
		}
		return err
	}

	c.questions = items
	c.current = 0
	c.state = StateInProgress
	c.log.WithFields(logrus.Fields{
		"session":   token,
		"questions": len(items),
	}).Info("batch loaded")
	return nil
}

// Navigate moves the question pointer. An active recording for the
// current question is force-stopped first and its finalized text is
// captured as the answer, so navigating away never loses in-flight
// speech. Navigating to the already-current index is a no-op that does
// not disturb a live recording.
func (c *Controller) Navigate(ctx context.Context, target int) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return fmt.Errorf("%w: navigate in state %s", ErrInvalidTransition, c.state)
	}
	if target < 0 || target >= len(c.questions) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, target, len(c.questions))
	}
	if target == c.current {
		c.mu.Unlock()
		return nil
	}
	cur := c.current
	c.mu.Unlock()

	c.captureRecording(ctx, cur)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateInProgress {
		c.current = target
	}
	return nil
}

// Next advances to the following question, capturing any active
// recording. At the last question it is a no-op.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	target := c.current + 1
	last := len(c.questions) - 1
	c.mu.Unlock()
	if target > last {
		return nil
	}
	return c.Navigate(ctx, target)
}

// Prev moves to the preceding question, capturing any active
// recording. At the first question it is a no-op.
func (c *Controller) Prev(ctx context.Context) error {
	c.mu.Lock()
	target := c.current - 1
	c.mu.Unlock()
	if target < 0 {
		return nil
	}
	return c.Navigate(ctx, target)
}

// RecordAnswer stores an answer for the question at index. For voice
// modalities this must only be called with the finalized string from a
// stopped recording, never with interim text; StopRecording does that
// routing itself.
func (c *Controller) RecordAnswer(index int, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return fmt.Errorf("%w: answer in state %s", ErrInvalidTransition, c.state)
	}
	if index < 0 || index >= len(c.questions) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.questions))
	}
	return c.answers.Set(index, c.questions[index], value)
}

// StartRecording begins voice capture for the current question.
// Rejected for non-voice modalities and while another recording is
// live.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return fmt.Errorf("%w: record in state %s", ErrInvalidTransition, c.state)
	}
	q := c.questions[c.current]
	c.mu.Unlock()

	if c.engine == nil {
		return speech.ErrEngineUnavailable
	}
	if !q.Modality.Voice() {
		return fmt.Errorf("%w: modality %s does not record", ErrInvalidTransition, q.Modality)
	}
	return c.engine.Start(ctx)
}

// StopRecording ends the active recording, stores the finalized text
// as the current question's answer, and returns it.
func (c *Controller) StopRecording(ctx context.Context) (string, error) {
	if c.engine == nil {
		return "", speech.ErrEngineUnavailable
	}
	text, err := c.engine.Stop(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return text, nil
	}
	q := c.questions[c.current]
	if q.Modality.Voice() && text != "" {
		if serr := c.answers.Set(c.current, q, text); serr != nil {
			return text, serr
		}
	}
	return text, nil
}

// Submit scores the session and transitions to Submitted. Permitted
// from the last question, or from anywhere with force. Any active
// recording is captured first. Submitted is a one-way door: only a new
// Configure starts another session.
func (c *Controller) Submit(ctx context.Context, force bool) (*scoring.Report, error) {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: submit in state %s", ErrInvalidTransition, c.state)
	}
	if !force && c.current != len(c.questions)-1 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: submit from question %d of %d without force", ErrInvalidTransition, c.current+1, len(c.questions))
	}
	cur := c.current
	c.mu.Unlock()

	c.captureRecording(ctx, cur)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return nil, fmt.Errorf("%w: session ended during submit", ErrInvalidTransition)
	}
	report := c.scorer.Score(c.token, c.questions, c.answers.Snapshot())
	c.report = &report
	c.state = StateSubmitted
	c.log.WithFields(logrus.Fields{
		"session": c.token,
		"correct": report.Aggregate.CorrectCount,
		"total":   report.Aggregate.Total,
	}).Info("session submitted")
	return c.report, nil
}

// Evaluate sends the open-ended and voice answers to the remote
// evaluator and merges its scores into the report. A result that
// arrives after the session was reset or reconfigured is discarded;
// the returned report is then nil with a nil error.
func (c *Controller) Evaluate(ctx context.Context) (*scoring.Report, error) {
	c.mu.Lock()
	if c.state != StateSubmitted || c.report == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: evaluate in state %s", ErrInvalidTransition, c.state)
	}
	token := c.token
	items := c.scorer.DeferredItems(c.questions, c.answers.Snapshot())
	report := c.report
	c.mu.Unlock()

	if len(items) == 0 {
		return report, nil
	}

	result, err := c.evaluator.Evaluate(ctx, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != token || c.report == nil {
		c.log.WithField("session", token).Debug("discarding late evaluation result")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	merged := c.report.WithEvaluation(result)
	c.report = &merged
	return c.report, nil
}

// Exit discards the live session: the recording buffer, all answers,
// and the loaded questions. The controller returns to Configuring.
func (c *Controller) Exit() {
	if c.engine != nil {
		c.engine.Abort()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.log.Info("session exited")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the live session's identity token, empty when no
// session is configured.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Tier returns the entitlement tier captured at Configure time.
func (c *Controller) Tier() entitlement.Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier
}

// Current returns the active question and its index. The bool is false
// when no batch is loaded.
func (c *Controller) Current() (question.Question, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress && c.state != StateSubmitted {
		return question.Question{}, 0, false
	}
	if len(c.questions) == 0 {
		return question.Question{}, 0, false
	}
	return c.questions[c.current], c.current, true
}

// Questions returns the loaded question sequence.
func (c *Controller) Questions() []question.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions
}

// Answer returns the stored answer for index.
func (c *Controller) Answer(index int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Get(index)
}

// ClearAnswer removes the answer for index entirely.
func (c *Controller) ClearAnswer(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers.Clear(index)
}

// AnsweredCount returns how many questions have a non-blank answer.
func (c *Controller) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.AnsweredCount()
}

// UnansweredCount returns how many questions have no answer yet.
func (c *Controller) UnansweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.UnansweredCount(len(c.questions))
}

// Recording reports whether voice capture is live.
func (c *Controller) Recording() bool {
	return c.engine != nil && c.engine.Listening()
}

// Transcript returns the live recording's committed and interim text
// for display. Both empty when nothing is recording.
func (c *Controller) Transcript() (committed, interim string) {
	if c.engine == nil {
		return "", ""
	}
	return c.engine.Committed(), c.engine.Interim()
}

// Faults delivers fatal speech-capture errors. Nil when no engine is
// wired.
func (c *Controller) Faults() <-chan error {
	if c.engine == nil {
		return nil
	}
	return c.engine.Faults()
}

// Report returns the session report, nil before Submit.
func (c *Controller) Report() *scoring.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// captureRecording force-stops an active recording and stores its
// finalized text as the answer for the question at index. Blank
// finalized text leaves any existing answer alone.
func (c *Controller) captureRecording(ctx context.Context, index int) {
	if c.engine == nil || !c.engine.Listening() {
		return
	}
	text, err := c.engine.Stop(ctx)
	if err != nil {
		c.log.WithError(err).Warn("stopping recording during navigation")
		return
	}
	if text == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.questions) {
		return
	}
	q := c.questions[index]
	if !q.Modality.Voice() {
		return
	}
	if serr := c.answers.Set(index, q, text); serr != nil {
		c.log.WithError(serr).Warn("storing captured recording")
	}
}

// resetLocked clears all session state. Callers hold c.mu.
func (c *Controller) resetLocked() {
	c.state = StateConfiguring
	c.token = ""
	c.tier = ""
	c.req = question.BatchRequest{}
	c.questions = nil
	c.current = 0
	c.answers.Reset()
	c.report = nil
}
