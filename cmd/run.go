package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prepvox/prepvox/internal/app"
	"github.com/prepvox/prepvox/internal/config"
	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/llm"
	"github.com/prepvox/prepvox/internal/logging"
	"github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/scoring"
	"github.com/prepvox/prepvox/internal/store"
	"github.com/prepvox/prepvox/internal/tts"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start the practice TUI (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads config, wires the services, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	// Telemetry store. The app still works without it; only request
	// auditing and the stats command go dark.
	var eventRepo store.EventRepo
	if dbPath, derr := resolveDBPath(cfg.DBPath); derr != nil {
		log.WithError(derr).Warn("telemetry database unavailable")
	} else if st, serr := store.Open(dbPath); serr != nil {
		log.WithError(serr).Warn("telemetry database unavailable")
	} else {
		defer func() { _ = st.Close() }()
		eventRepo = st.EventRepo()
	}

	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w\n\nSet PREPVOX_OPENAI_API_KEY, PREPVOX_ANTHROPIC_API_KEY, or PREPVOX_GEMINI_API_KEY", err)
	}

	client := entitlement.NewClient(cfg.SubscriptionURL, cfg.SubscriptionToken,
		logging.Component(log, "entitlement"))
	gate := entitlement.NewGate(client)

	speaker := pickSpeaker(cfg, log)

	// No terminal speech-recognition backend ships yet, so the engine
	// stays unwired and voice questions report the engine unavailable.
	ctrl := practice.NewController(
		question.NewLLMGenerator(provider, question.DefaultConfig()),
		gate,
		nil,
		scoring.NewScorer(),
		scoring.NewLLMEvaluator(provider),
		logging.Component(log, "practice"),
		practice.WithLoadTimeout(time.Duration(cfg.LoadTimeoutSeconds)*time.Second),
	)

	return app.Run(app.Options{
		Controller: ctrl,
		Speaker:    speaker,
		Status:     client,
		Gate:       gate,
		EventRepo:  eventRepo,
	})
}

// pickSpeaker returns the exec-backed speaker when its binary exists,
// otherwise the silent fallback that shows dictation prompts as text.
func pickSpeaker(cfg *config.Config, log *logrus.Logger) tts.Speaker {
	entry := logging.Component(log, "tts")
	sp := tts.NewExecSpeaker(cfg.TTSCommand, entry)
	if !sp.Available() {
		entry.Warn("no text-to-speech binary found; dictation prompts will be shown as text")
		return tts.Silent{}
	}
	return sp
}
