package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepvox/prepvox/internal/config"
	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the subscription tier and remaining days",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		client := entitlement.NewClient(cfg.SubscriptionURL, cfg.SubscriptionToken, logging.Discard())
		gate := entitlement.NewGate(client)

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		status, err := client.Status(ctx)
		if err != nil {
			return fmt.Errorf("fetch subscription status: %w", err)
		}

		fmt.Printf("Tier:       %s\n", status.Tier)
		switch {
		case status.Expired():
			fmt.Println("Status:     EXPIRED")
		case status.DaysRemaining != nil:
			fmt.Printf("Remaining:  %d day(s)\n", *status.DaysRemaining)
		default:
			fmt.Println("Remaining:  no expiry")
		}
		fmt.Printf("Session cap: %d questions\n", gate.MaxQuestions(status.Tier))
		return nil
	},
}
