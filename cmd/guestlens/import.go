package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guestlens/guestlens/internal/cli"
	"github.com/guestlens/guestlens/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a labeling-pipeline export file",
		Long: `Load machine-labeled reviews from a pipeline export into the local
database. JSON and CSV exports are supported; the format is inferred from
the file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("format", "", "export format (json, csv); inferred from extension by default")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var result *importer.Result
	switch strings.ToLower(format) {
	case "json":
		result, err = importer.ImportJSON(ctx, store, path)
	case "csv":
		result, err = importer.ImportCSV(ctx, store, path)
	default:
		return fmt.Errorf("unsupported format %q (expected json or csv)", format)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Imported %d reviews from %d rows (%d skipped)",
		result.Reviews, result.Rows, result.Skipped)))

	return nil
}
