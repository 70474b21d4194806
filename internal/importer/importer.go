// Package importer loads baseline reviews from labeling-pipeline export
// files (JSON or CSV) into the local store. Exports are flattened: one row
// per (category, subcategory) pair, repeated per review.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// flattenedRow mirrors one row of the pipeline export.
type flattenedRow struct {
	SurveyResponseID          string  `json:"survey_response_id"`
	QuestionLabel             string  `json:"question_label"`
	QuestionResponse          string  `json:"question_response"`
	ResponseRelevancy         string  `json:"response_relevancy"`
	IsProfanityRewrittenFlag  bool    `json:"is_profanity_rewritten_flag"`
	RewrittenQuestionResponse string  `json:"rewritten_question_response"`
	OverallSentimentLabel     string  `json:"overall_sentiment_label"`
	OverallSentimentScore     int     `json:"overall_sentiment_score"`
	CommentCategory           string  `json:"comment_category"`
	CategorySentimentLabel    string  `json:"category_sentiment_label"`
	CategorySentimentScore    float64 `json:"category_sentiment_score"`
	CommentSubcategory        string  `json:"comment_subcategory"`
	SubcategorySentimentLabel string  `json:"subcategory_sentiment_label"`
	SubcategorySentimentScore float64 `json:"subcategory_sentiment_score"`
	StoreKey                  string  `json:"store_key"`
	VisitDatetime             string  `json:"visit_datetime"`
}

// Result summarizes one import run.
type Result struct {
	Rows    int
	Reviews int
	Skipped int
}

// ImportJSON imports a JSON export file (array of flattened rows).
func ImportJSON(ctx context.Context, store service.ReviewStore, path string) (*Result, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows []flattenedRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return importRows(ctx, store, rows)
}

// ImportCSV imports a CSV export file. The first record must be a header
// using the export's column names.
func ImportCSV(ctx context.Context, store service.ReviewStore, path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var rows []flattenedRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, rowFromRecord(col, record))
	}

	return importRows(ctx, store, rows)
}

func rowFromRecord(col map[string]int, record []string) flattenedRow {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	getFloat := func(name string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(get(name)), 64)
		return v
	}
	getInt := func(name string) int {
		v, _ := strconv.Atoi(strings.TrimSpace(get(name)))
		return v
	}
	getBool := func(name string) bool {
		v, _ := strconv.ParseBool(strings.TrimSpace(get(name)))
		return v
	}

	return flattenedRow{
		SurveyResponseID:          get("survey_response_id"),
		QuestionLabel:             get("question_label"),
		QuestionResponse:          get("question_response"),
		ResponseRelevancy:         get("response_relevancy"),
		IsProfanityRewrittenFlag:  getBool("is_profanity_rewritten_flag"),
		RewrittenQuestionResponse: get("rewritten_question_response"),
		OverallSentimentLabel:     get("overall_sentiment_label"),
		OverallSentimentScore:     getInt("overall_sentiment_score"),
		CommentCategory:           get("comment_category"),
		CategorySentimentLabel:    get("category_sentiment_label"),
		CategorySentimentScore:    getFloat("category_sentiment_score"),
		CommentSubcategory:        get("comment_subcategory"),
		SubcategorySentimentLabel: get("subcategory_sentiment_label"),
		SubcategorySentimentScore: getFloat("subcategory_sentiment_score"),
		StoreKey:                  get("store_key"),
		VisitDatetime:             get("visit_datetime"),
	}
}

func importRows(ctx context.Context, store service.ReviewStore, rows []flattenedRow) (*Result, error) {
	if len(rows) == 0 {
		return &Result{}, nil
	}

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetDescription("Importing reviews"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// Group rows by response id, preserving first-seen order.
	grouped := make(map[string][]flattenedRow)
	var order []string
	skipped := 0
	for _, row := range rows {
		_ = bar.Add(1)

		if strings.TrimSpace(row.QuestionResponse) == "" {
			skipped++
			continue
		}
		id := row.SurveyResponseID
		if id == "" {
			// Some exports drop the hash key; generate a stable-enough one.
			id = uuid.NewString()
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], row)
	}

	reviews := make([]model.Review, 0, len(order))
	for _, id := range order {
		reviews = append(reviews, buildReview(id, grouped[id]))
	}

	if len(reviews) > 0 {
		if err := store.SaveReviews(ctx, reviews); err != nil {
			return nil, fmt.Errorf("failed to save imported reviews: %w", err)
		}
	}

	result := &Result{Rows: len(rows), Reviews: len(reviews), Skipped: skipped}
	slog.Info("import complete",
		"rows", result.Rows,
		"reviews", result.Reviews,
		"skipped", result.Skipped)
	return result, nil
}

// buildReview collapses the flattened rows of one survey response into a
// Review with its baseline sentiment collection.
func buildReview(id string, rows []flattenedRow) model.Review {
	first := rows[0]

	var entries []model.SentimentEntry
	flagged := false
	for _, row := range rows {
		if row.CommentCategory == "" || row.CommentSubcategory == "" {
			continue
		}
		entries = append(entries, model.SentimentEntry{
			Category:         row.CommentCategory,
			CategoryLabel:    labelOrNeutral(row.CategorySentimentLabel),
			CategoryScore:    row.CategorySentimentScore,
			Subcategory:      row.CommentSubcategory,
			SubcategoryLabel: labelOrNeutral(row.SubcategorySentimentLabel),
			SubcategoryScore: row.SubcategorySentimentScore,
		})
		// Extreme scores flag the review for priority human attention.
		if abs(row.CategorySentimentScore) > 0.5 || abs(row.SubcategorySentimentScore) > 0.5 {
			flagged = true
		}
	}

	status := model.StatusRandomSample
	if flagged {
		status = model.StatusRecommended
	}

	label := "COMMENT"
	if first.QuestionLabel != "" {
		label = first.QuestionLabel
	}

	var visit time.Time
	if first.VisitDatetime != "" {
		if t, err := time.Parse(time.RFC3339, first.VisitDatetime); err == nil {
			visit = t
		} else if t, err := time.Parse("2006-01-02 15:04:05", first.VisitDatetime); err == nil {
			visit = t
		}
	}

	return model.Review{
		ResponseID:            id,
		QuestionLabel:         label,
		QuestionResponse:      first.QuestionResponse,
		Status:                status,
		Irrelevant:            isIrrelevant(first.ResponseRelevancy),
		Profane:               first.IsProfanityRewrittenFlag,
		RewrittenComment:      first.RewrittenQuestionResponse,
		OverallSentimentScore: first.OverallSentimentScore,
		OverallSentimentLabel: model.SentimentLabel(first.OverallSentimentLabel),
		StoreID:               first.StoreKey,
		VisitTime:             visit,
		CategorySentiments:    entries,
	}
}

// isIrrelevant interprets the pipeline's relevancy text. Values look like
// "useful", "profane but useful", or "nonsense or irrelevant"; only the
// last family marks the review irrelevant.
func isIrrelevant(relevancy string) bool {
	r := strings.ToLower(relevancy)
	return strings.Contains(r, "irrelevant") || strings.Contains(r, "nonsense")
}

func labelOrNeutral(label string) model.SentimentLabel {
	if label == "" {
		return model.LabelNeutral
	}
	return model.SentimentLabel(label)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
