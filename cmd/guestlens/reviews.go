package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guestlens/guestlens/internal/cli"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

func reviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List reviews in the local database",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews by queue status",
		RunE:  runReviewsList,
	}
	listCmd.Flags().String("status", string(model.StatusRandomSample), "status filter (random_sample, recommended, completed)")
	listCmd.Flags().Int("limit", 20, "maximum reviews to show")
	listCmd.Flags().Int("offset", 0, "number of reviews to skip")

	cmd.AddCommand(listCmd)
	return cmd
}

func runReviewsList(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reviews, err := store.ListReviews(ctx, service.ReviewFilter{
		Status: model.ReviewStatus(status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}

	if len(reviews) == 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("No %s reviews found", status)))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s reviews", status)))
	header := fmt.Sprintf("%-38s %-8s %-24s %s", "ID", "Overall", "Categories", "Comment")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, r := range reviews {
		categories := make([]string, 0, len(r.CategorySentiments))
		seen := make(map[string]bool)
		for _, e := range r.CategorySentiments {
			if !seen[e.Category] {
				seen[e.Category] = true
				categories = append(categories, e.Category)
			}
		}

		fmt.Printf("%-38s %-8d %-24s %s\n",
			r.ResponseID,
			r.OverallSentimentScore,
			strings.Join(categories, ","),
			truncate(r.QuestionResponse, 48))
	}

	return nil
}

// truncate counts runes so a multi-byte comment is never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
