package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prepvox/prepvox/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the telemetry database",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Println("Nothing to reset.")
			return nil
		}

		if !force {
			fmt.Printf("This deletes all recorded LLM usage at %s.\nRe-run with --force to confirm.\n", dbPath)
			return nil
		}

		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
		fmt.Println("Telemetry database deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Actually delete the database")
}
