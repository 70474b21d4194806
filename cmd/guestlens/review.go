package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guestlens/guestlens/internal/cli"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive validation session",
		Long: `Open the terminal UI and work through the pending review queue.
Each review shows the guest comment with the machine's sentiment labels;
accept them, correct them, or skip to the next one.`,
		RunE: runReview,
	}

	cmd.Flags().String("status", string(model.StatusRandomSample), "queue to pull from (random_sample, recommended)")
	cmd.Flags().Int("batch", 20, "number of reviews to pull into the session")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetString("status")
	batch, _ := cmd.Flags().GetInt("batch")

	reviewStatus := model.ReviewStatus(status)
	switch reviewStatus {
	case model.StatusRandomSample, model.StatusRecommended:
	default:
		return fmt.Errorf("invalid status %q: review queues are random_sample and recommended", status)
	}

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupts.HandleInterrupts(cmd.Context())

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	err = tui.Run(ctx, tui.Config{
		Store:     store,
		Status:    reviewStatus,
		BatchSize: batch,
	})
	if interrupts.WasInterrupted() {
		return nil
	}
	return err
}
