package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// Writer pushes validated evaluations to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets evaluation writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write exports the evaluations, replacing any previous export in the sheet.
func (w *Writer) Write(ctx context.Context, evaluations []model.Evaluation) error {
	w.logger.Info("starting evaluation export", "evaluations", len(evaluations))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := prepareExportData(evaluations)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("evaluation export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service using either a
// service account key or an OAuth2 refresh token.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Evaluations",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareExportData lays out a summary block followed by one detail row per
// (evaluation, sentiment entry) pair, matching the pipeline's flattened shape
// so the analytics team can join it back against the machine export.
func prepareExportData(evaluations []model.Evaluation) [][]any {
	byDecision := make(map[model.ValidationDecision]int)
	totalCorrections := 0
	for _, e := range evaluations {
		byDecision[e.Decision]++
		totalCorrections += e.CorrectionsMade
	}

	values := make([][]any, 0, 10+len(evaluations))
	values = append(values,
		[]any{"Guest Sentiment Evaluations", time.Now().Format("Jan 2, 2006")},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Evaluations", len(evaluations)},
		[]any{"Accepted", byDecision[model.DecisionAccept]},
		[]any{"Overridden", byDecision[model.DecisionOverride]},
		[]any{"Total Corrections", totalCorrections},
		[]any{},
		[]any{"Evaluation Details"},
		[]any{
			"Review ID",
			"Decision",
			"Corrections",
			"Irrelevant",
			"Profane",
			"Rewritten Comment",
			"Overall Label",
			"Overall Score",
			"Category",
			"Category Label",
			"Category Score",
			"Subcategory",
			"Subcategory Label",
			"Subcategory Score",
			"Validated At",
		})

	// Newest evaluations first.
	sorted := make([]model.Evaluation, len(evaluations))
	copy(sorted, evaluations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	for _, e := range sorted {
		base := []any{
			e.ReviewID,
			string(e.Decision),
			e.CorrectionsMade,
			e.Irrelevant,
			e.Profane,
			e.RewrittenComment,
			string(e.OverallSentimentLabel),
			e.OverallSentimentScore,
		}
		validatedAt := e.CreatedAt.Format("2006-01-02 15:04:05")

		if len(e.CategorySentiments) == 0 {
			row := append(append([]any{}, base...), "", "", "", "", "", "", validatedAt)
			values = append(values, row)
			continue
		}
		for _, entry := range e.CategorySentiments {
			row := append(append([]any{}, base...),
				entry.Category,
				string(entry.CategoryLabel),
				entry.CategoryScore,
				entry.Subcategory,
				string(entry.SubcategoryLabel),
				entry.SubcategoryScore,
				validatedAt,
			)
			values = append(values, row)
		}
	}

	return values
}

// writeData writes the data to the spreadsheet in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := i + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		valueRange := &sheets.ValueRange{Values: values[i:end]}
		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", end-i)
	}

	return nil
}
