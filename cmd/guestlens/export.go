package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/guestlens/guestlens/internal/cli"
	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/config"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export validated evaluations",
	}

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export evaluations to Google Sheets",
		Long: `Push every recorded evaluation to the configured Google Sheets
spreadsheet. Authentication uses either a service account key or OAuth2
credentials from the sheets.* config section.`,
		RunE: runExportSheets,
	}

	cmd.AddCommand(sheetsCmd)
	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Page through all evaluations.
	const pageSize = 500
	var evaluations []model.Evaluation
	for offset := 0; ; offset += pageSize {
		page, err := store.ListEvaluations(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list evaluations: %w", err)
		}
		evaluations = append(evaluations, page...)
		if len(page) < pageSize {
			break
		}
	}

	if len(evaluations) == 0 {
		fmt.Println(cli.FormatInfo("No evaluations to export"))
		return nil
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, evaluations); err != nil {
		return fmt.Errorf("%w: %v", common.ErrExportFailed, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d evaluations", len(evaluations))))
	return nil
}
