package cmd

import (
	"github.com/spf13/cobra"

	"github.com/prepvox/prepvox/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "prepvox",
	Short: "Voice-first exam practice in the terminal",
	Long:  "PrepVox is a terminal exam-prep client with spoken answers, dictation drills, and AI grading.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to the telemetry SQLite database (overrides PREPVOX_DB)")
	pf.String("subscription-url", "", "Base URL of the subscription-status API")
	pf.String("subscription-token", "", "Bearer token for the subscription-status API")
	pf.String("tts-command", "", "Text-to-speech binary for dictation prompts")
	pf.String("log-file", "", "Path to the JSON log file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.Int("load-timeout", 0, "Question batch load timeout in seconds")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db / PREPVOX_DB
// (via config), then the default XDG path.
func resolveDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
