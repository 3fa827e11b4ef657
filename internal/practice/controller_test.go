package practice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/scoring"
	"github.com/prepvox/prepvox/internal/speech"
)

// fakeStatus is a canned subscription-status source.
type fakeStatus struct {
	tier entitlement.Tier
	days *int
	err  error
}

func (f *fakeStatus) Status(_ context.Context) (entitlement.Status, error) {
	if f.err != nil {
		return entitlement.Status{}, f.err
	}
	return entitlement.Status{Tier: f.tier, DaysRemaining: f.days}, nil
}

// fakeGenerator returns req.Count questions of the requested modality,
// or a scripted error, optionally after a delay.
type fakeGenerator struct {
	mu    sync.Mutex
	err   error
	delay time.Duration
	calls []question.BatchRequest
}

func (g *fakeGenerator) GenerateBatch(ctx context.Context, req question.BatchRequest) ([]question.Question, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	delay, err := g.delay, g.err
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", question.ErrGenerationFailed, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}

	qs := make([]question.Question, req.Count)
	for i := range qs {
		qs[i] = question.Question{
			ID:            fmt.Sprintf("q%d", i),
			Modality:      req.Modality,
			Prompt:        fmt.Sprintf("prompt %d", i),
			Difficulty:    req.Difficulty,
			CorrectAnswer: "key",
		}
		if req.Modality == question.ModalityMCQ {
			qs[i].Options = []string{"key", "b", "c", "d"}
		}
	}
	return qs, nil
}

// fakeEvaluator scores every item 50 with canned feedback.
type fakeEvaluator struct {
	mu    sync.Mutex
	err   error
	calls int
	gate  chan struct{} // when set, Evaluate blocks until closed
}

func (f *fakeEvaluator) Evaluate(_ context.Context, items []scoring.EvalItem) (*scoring.EvalResult, error) {
	f.mu.Lock()
	f.calls++
	gate, err := f.gate, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	result := &scoring.EvalResult{Score: 50, Feedback: "overall"}
	for range items {
		result.PerItem = append(result.PerItem, scoring.ItemScore{Score: 50, Feedback: "per item"})
	}
	return result, nil
}

// fakeRecognizer delivers OnEnd synchronously from Stop.
type fakeRecognizer struct {
	mu      sync.Mutex
	handler speech.Handler
	active  bool
}

func (r *fakeRecognizer) Start(_ context.Context, h speech.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return speech.ErrStreamActive
	}
	r.handler = h
	r.active = true
	return nil
}

func (r *fakeRecognizer) Stop() error {
	r.mu.Lock()
	h := r.handler
	r.active = false
	r.mu.Unlock()
	if h != nil {
		h.OnEnd()
	}
	return nil
}

func (r *fakeRecognizer) emitFinal(text string) {
	r.mu.Lock()
	h := r.handler
	r.mu.Unlock()
	h.OnResult([]speech.ResultSegment{{Text: text, Final: true}})
}

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type testDeps struct {
	gen    *fakeGenerator
	status *fakeStatus
	eval   *fakeEvaluator
	rec    *fakeRecognizer
}

func newTestController(t *testing.T, tier entitlement.Tier, opts ...ControllerOption) (*Controller, *testDeps) {
	t.Helper()
	deps := &testDeps{
		gen:    &fakeGenerator{},
		status: &fakeStatus{tier: tier},
		eval:   &fakeEvaluator{},
		rec:    &fakeRecognizer{},
	}
	engine := speech.NewEngine(deps.rec, testLog())
	c := NewController(
		deps.gen,
		entitlement.NewGate(deps.status),
		engine,
		scoring.NewScorer(),
		deps.eval,
		testLog(),
		opts...,
	)
	return c, deps
}

func batchReq(modality question.Modality, count int) question.BatchRequest {
	return question.BatchRequest{
		Branch:     "computer-science",
		Difficulty: question.DifficultyMedium,
		Modality:   modality,
		Count:      count,
	}
}

func mustStart(t *testing.T, c *Controller, modality question.Modality, count int) {
	t.Helper()
	ctx := context.Background()
	if err := c.Configure(ctx, batchReq(modality, count)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := c.LoadBatch(ctx); err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if c.State() != StateInProgress {
		t.Fatalf("state = %s after load, want in-progress", c.State())
	}
}

func TestConfigure_ClampsToTierCap(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierFree)
	mustStart(t, c, question.ModalityMCQ, 10)

	if got := deps.gen.calls[0].Count; got != 2 {
		t.Errorf("generator asked for %d questions, want 2 (free cap)", got)
	}
	if got := len(c.Questions()); got != 2 {
		t.Errorf("loaded %d questions, want 2", got)
	}
}

func TestConfigure_RejectsInvalidParams(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	req := batchReq(question.ModalityMCQ, 5)
	req.Difficulty = "impossible"
	if err := c.Configure(context.Background(), req); err == nil {
		t.Fatal("Configure() accepted unknown difficulty")
	}
	if c.State() != StateConfiguring {
		t.Errorf("state = %s, want configuring", c.State())
	}
}

func TestConfigure_ExpiredSubscriptionBlocks(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPlus)
	days := -3
	deps.status.days = &days

	err := c.Configure(context.Background(), batchReq(question.ModalityMCQ, 5))
	if !errors.Is(err, entitlement.ErrEntitlementExpired) {
		t.Fatalf("Configure() error = %v, want ErrEntitlementExpired", err)
	}
	if !entitlement.UpgradeRequired(err) {
		t.Error("expiry not surfaced as an upgrade-required condition")
	}
	if Classify(err) != KindBlocking {
		t.Error("expiry classified retryable")
	}
}

func TestLoadBatch_EntitlementErrorPassesThrough(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierFree)
	if err := c.Configure(context.Background(), batchReq(question.ModalityMCQ, 2)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	deps.gen.err = fmt.Errorf("quota: %w", entitlement.ErrLimitReached)

	err := c.LoadBatch(context.Background())
	if !entitlement.UpgradeRequired(err) {
		t.Fatalf("LoadBatch() error = %v, want upgrade-required", err)
	}
	if c.State() != StateConfiguring {
		t.Errorf("state = %s after entitlement failure, want configuring (never in-progress)", c.State())
	}
}

func TestLoadBatch_FailureReturnsToConfiguringForRetry(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	ctx := context.Background()
	if err := c.Configure(ctx, batchReq(question.ModalityMCQ, 3)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	deps.gen.err = fmt.Errorf("%w: provider down", question.ErrGenerationFailed)
	err := c.LoadBatch(ctx)
	if !errors.Is(err, question.ErrGenerationFailed) {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if Classify(err) != KindRetryable {
		t.Error("generation failure classified blocking")
	}
	if c.State() != StateConfiguring {
		t.Fatalf("state = %s, want configuring", c.State())
	}

	// Manual retry succeeds without reconfiguring.
	deps.gen.err = nil
	if err := c.LoadBatch(ctx); err != nil {
		t.Fatalf("retry LoadBatch() error = %v", err)
	}
	if c.State() != StateInProgress {
		t.Errorf("state = %s after retry, want in-progress", c.State())
	}
}

func TestLoadBatch_Timeout(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro, WithLoadTimeout(30*time.Millisecond))
	deps.gen.delay = time.Second

	ctx := context.Background()
	if err := c.Configure(ctx, batchReq(question.ModalityMCQ, 3)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	err := c.LoadBatch(ctx)
	if !errors.Is(err, ErrRequestTimeout) {
		t.Fatalf("LoadBatch() error = %v, want ErrRequestTimeout", err)
	}
	if Classify(err) != KindRetryable {
		t.Error("timeout classified blocking")
	}
	if c.State() != StateConfiguring {
		t.Errorf("state = %s, want configuring", c.State())
	}
}

func TestLoadBatch_RequiresConfigure(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	err := c.LoadBatch(context.Background())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("LoadBatch() without Configure error = %v", err)
	}
}

func TestLoadBatch_LateResultAfterExitDiscarded(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro, WithLoadTimeout(time.Second))
	deps.gen.delay = 50 * time.Millisecond

	ctx := context.Background()
	if err := c.Configure(ctx, batchReq(question.ModalityMCQ, 3)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.LoadBatch(ctx) }()

	time.Sleep(10 * time.Millisecond)
	c.Exit()

	if err := <-done; err != nil {
		t.Fatalf("late LoadBatch() error = %v, want discarded nil", err)
	}
	if c.State() != StateConfiguring {
		t.Errorf("state = %s, want configuring", c.State())
	}
	if len(c.Questions()) != 0 {
		t.Error("late batch revived an exited session")
	}
}

func TestNavigate_CapturesActiveRecording(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityVoiceSpeaking, 3)

	ctx := context.Background()
	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	deps.rec.emitFinal("my answer to question one")

	if err := c.Navigate(ctx, 1); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	if got, _ := c.Answer(0); got != "my answer to question one" {
		t.Errorf("captured answer = %q", got)
	}
	_, idx, _ := c.Current()
	if idx != 1 {
		t.Errorf("current index = %d, want 1", idx)
	}

	// The next question starts with a fresh buffer.
	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() on question 2 error = %v", err)
	}
	deps.rec.emitFinal("second answer")
	text, err := c.StopRecording(ctx)
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	if text != "second answer" {
		t.Errorf("finalized = %q, cross-question leakage", text)
	}
}

func TestNavigate_ToCurrentIsNoOp(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityVoiceSpeaking, 2)

	ctx := context.Background()
	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	deps.rec.emitFinal("still talking")

	if err := c.Navigate(ctx, 0); err != nil {
		t.Fatalf("Navigate(current) error = %v", err)
	}
	if !deps.rec.active {
		t.Fatal("navigate to current index stopped the recording")
	}

	text, err := c.StopRecording(ctx)
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	if text != "still talking" {
		t.Errorf("finalized = %q", text)
	}
}

func TestNavigate_OutOfRange(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityMCQ, 2)

	for _, target := range []int{-1, 2, 99} {
		if err := c.Navigate(context.Background(), target); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Navigate(%d) error = %v, want ErrIndexOutOfRange", target, err)
		}
	}
}

func TestStartRecording_NonVoiceRejected(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityMCQ, 2)
	if err := c.StartRecording(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartRecording() on mcq error = %v", err)
	}
}

func TestStartRecording_RejectedWhileActive(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityVoiceSpeaking, 2)

	ctx := context.Background()
	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if err := c.StartRecording(ctx); !errors.Is(err, speech.ErrStreamActive) {
		t.Errorf("second StartRecording() error = %v, want ErrStreamActive", err)
	}
}

func TestSubmit_RequiresLastQuestionOrForce(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityMCQ, 3)
	ctx := context.Background()

	if _, err := c.Submit(ctx, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Submit() from question 1 error = %v, want ErrInvalidTransition", err)
	}

	report, err := c.Submit(ctx, true)
	if err != nil {
		t.Fatalf("Submit(force) error = %v", err)
	}
	if report == nil || c.State() != StateSubmitted {
		t.Fatal("forced submit did not transition to submitted")
	}
}

func TestSubmit_ScoresAndIsOneWay(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityMCQ, 3)
	ctx := context.Background()

	// Q1 correct, Q2 wrong, Q3 blank.
	if err := c.RecordAnswer(0, "key"); err != nil {
		t.Fatalf("RecordAnswer(0) error = %v", err)
	}
	if err := c.RecordAnswer(1, "b"); err != nil {
		t.Fatalf("RecordAnswer(1) error = %v", err)
	}
	if err := c.Navigate(ctx, 2); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	report, err := c.Submit(ctx, false)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	agg := report.Aggregate
	if agg.CorrectCount != 1 || agg.Total != 3 || agg.Percentage != 33 {
		t.Errorf("aggregate = %+v, want {1 3 33}", agg)
	}

	// One-way door.
	if err := c.RecordAnswer(0, "b"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RecordAnswer() after submit error = %v", err)
	}
	if _, err := c.Submit(ctx, true); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Submit() error = %v", err)
	}

	// A fresh Configure starts over.
	if err := c.Configure(ctx, batchReq(question.ModalityMCQ, 2)); err != nil {
		t.Fatalf("Configure() after submit error = %v", err)
	}
	if c.Report() != nil {
		t.Error("old report survived reconfigure")
	}
}

func TestSubmit_CapturesActiveRecording(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityVoiceSpeaking, 1)

	ctx := context.Background()
	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	deps.rec.emitFinal("spoken final answer")

	report, err := c.Submit(ctx, false)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if report.PerQuestion[0].UserAnswer != "spoken final answer" {
		t.Errorf("submitted answer = %q", report.PerQuestion[0].UserAnswer)
	}
}

func TestEvaluate_MergesDeferredScores(t *testing.T) {
	c, _ := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityText, 2)
	ctx := context.Background()

	c.RecordAnswer(0, "typed answer one")
	c.RecordAnswer(1, "typed answer two")
	if _, err := c.Submit(ctx, true); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	report, err := c.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !report.Evaluated || report.OverallFeedback != "overall" {
		t.Error("evaluation not merged into report")
	}
	if report.PerQuestion[0].Score == nil || *report.PerQuestion[0].Score != 50 {
		t.Error("per-question score missing after evaluation")
	}
}

func TestEvaluate_NothingDeferredSkipsEvaluator(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityMCQ, 2)
	ctx := context.Background()

	c.RecordAnswer(0, "key")
	if _, err := c.Submit(ctx, true); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := c.Evaluate(ctx); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if deps.eval.calls != 0 {
		t.Errorf("evaluator called %d times for an all-mcq session", deps.eval.calls)
	}
}

func TestEvaluate_LateResultAfterExitDiscarded(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityText, 1)
	ctx := context.Background()

	c.RecordAnswer(0, "some answer")
	if _, err := c.Submit(ctx, true); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	gate := make(chan struct{})
	deps.eval.gate = gate

	type result struct {
		report *scoring.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		r, err := c.Evaluate(ctx)
		done <- result{r, err}
	}()

	time.Sleep(10 * time.Millisecond)
	c.Exit()
	close(gate)

	got := <-done
	if got.err != nil || got.report != nil {
		t.Errorf("late Evaluate() = (%v, %v), want discarded (nil, nil)", got.report, got.err)
	}
	if c.Report() != nil {
		t.Error("late evaluation revived an exited session")
	}
}

func TestEvaluate_FailureIsRetryable(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityText, 1)
	ctx := context.Background()

	c.RecordAnswer(0, "some answer")
	if _, err := c.Submit(ctx, true); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	deps.eval.err = fmt.Errorf("%w: provider down", scoring.ErrEvaluationFailed)
	_, err := c.Evaluate(ctx)
	if !errors.Is(err, scoring.ErrEvaluationFailed) {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if Classify(err) != KindRetryable {
		t.Error("evaluation failure classified blocking")
	}

	// Retry with the evaluator healthy again.
	deps.eval.err = nil
	if _, err := c.Evaluate(ctx); err != nil {
		t.Fatalf("retry Evaluate() error = %v", err)
	}
}

func TestExit_DiscardsEverything(t *testing.T) {
	c, deps := newTestController(t, entitlement.TierPro)
	mustStart(t, c, question.ModalityVoiceSpeaking, 2)
	ctx := context.Background()

	if err := c.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	deps.rec.emitFinal("doomed text")
	c.RecordAnswer(0, "doomed answer")

	c.Exit()

	if c.State() != StateConfiguring {
		t.Errorf("state = %s, want configuring", c.State())
	}
	if c.Token() != "" {
		t.Error("token survived exit")
	}
	if _, ok := c.Answer(0); ok {
		t.Error("answers survived exit")
	}
	if len(c.Questions()) != 0 {
		t.Error("questions survived exit")
	}
}

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{question.ErrGenerationFailed, KindRetryable},
		{scoring.ErrEvaluationFailed, KindRetryable},
		{ErrRequestTimeout, KindRetryable},
		{entitlement.ErrEntitlementExpired, KindBlocking},
		{entitlement.ErrLimitReached, KindBlocking},
		{speech.ErrPermissionDenied, KindBlocking},
		{speech.ErrEngineUnavailable, KindBlocking},
		{errors.New("anything else"), KindRetryable},
		{fmt.Errorf("wrapped: %w", entitlement.ErrLimitReached), KindBlocking},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
