package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guestlens/guestlens/internal/cli"
)

func metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show validation progress and accuracy",
		RunE:  runMetrics,
	}
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	overview, err := store.Metrics(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}

	fmt.Println(cli.FormatTitle("Validation Metrics"))
	fmt.Printf("  %-26s %d\n", "Total reviews:", overview.TotalReviews)
	fmt.Printf("  %-26s %d\n", "Pending random sample:", overview.TotalRandomSample)
	fmt.Printf("  %-26s %d\n", "Recommended for review:", overview.RecommendedReviews)
	fmt.Printf("  %-26s %d\n", "Completed today:", overview.CompletedToday)
	fmt.Printf("  %-26s %.1f%%\n", "Model accuracy:", overview.AverageAccuracy*100)
	fmt.Printf("  %-26s %.2f\n", "Corrections per review:", overview.CorrectionsPerReview)

	return nil
}
