package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// SaveEvaluation persists the human ground truth for a review. One
// evaluation per review; re-submitting replaces the previous one.
func (s *SQLiteStorage) SaveEvaluation(ctx context.Context, eval *model.Evaluation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvaluation(eval); err != nil {
		return err
	}

	var sentimentsJSON []byte
	if eval.CategorySentiments != nil {
		var err error
		sentimentsJSON, err = json.Marshal(eval.CategorySentiments)
		if err != nil {
			return fmt.Errorf("failed to encode category sentiments: %w", err)
		}
	}

	query := `
		INSERT INTO evaluations (review_id, decision, corrections_made, irrelevant, profane,
			rewritten_comment, overall_sentiment_score, overall_sentiment_label, category_sentiments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(review_id) DO UPDATE SET
			decision = excluded.decision,
			corrections_made = excluded.corrections_made,
			irrelevant = excluded.irrelevant,
			profane = excluded.profane,
			rewritten_comment = excluded.rewritten_comment,
			overall_sentiment_score = excluded.overall_sentiment_score,
			overall_sentiment_label = excluded.overall_sentiment_label,
			category_sentiments = excluded.category_sentiments,
			created_at = CURRENT_TIMESTAMP`

	_, err := s.db.ExecContext(ctx, query,
		eval.ReviewID, string(eval.Decision), eval.CorrectionsMade, eval.Irrelevant, eval.Profane,
		eval.RewrittenComment, eval.OverallSentimentScore, string(eval.OverallSentimentLabel),
		nullableString(sentimentsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation for %s: %w", eval.ReviewID, err)
	}

	slog.Info("saved evaluation",
		"review_id", eval.ReviewID,
		"decision", eval.Decision,
		"corrections_made", eval.CorrectionsMade)
	return nil
}

// GetEvaluation returns the evaluation for a review, or common.ErrNotFound.
func (s *SQLiteStorage) GetEvaluation(ctx context.Context, reviewID string) (*model.Evaluation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(reviewID, "reviewID"); err != nil {
		return nil, err
	}

	query := `
		SELECT review_id, decision, corrections_made, irrelevant, profane,
			COALESCE(rewritten_comment, ''), COALESCE(overall_sentiment_score, 0),
			COALESCE(overall_sentiment_label, ''), category_sentiments, created_at
		FROM evaluations
		WHERE review_id = ?`

	eval, err := scanEvaluation(s.db.QueryRowContext(ctx, query, reviewID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("evaluation for %s: %w", reviewID, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// ListEvaluations returns evaluations newest first.
func (s *SQLiteStorage) ListEvaluations(ctx context.Context, limit, offset int) ([]model.Evaluation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT review_id, decision, corrections_made, irrelevant, profane,
			COALESCE(rewritten_comment, ''), COALESCE(overall_sentiment_score, 0),
			COALESCE(overall_sentiment_label, ''), category_sentiments, created_at
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var evals []model.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *eval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}

	return evals, nil
}

// Metrics aggregates dashboard counts. Average accuracy is the share of
// evaluations submitted without any scalar corrections.
func (s *SQLiteStorage) Metrics(ctx context.Context) (*service.MetricsOverview, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var m service.MetricsOverview

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM reviews r
				LEFT JOIN evaluations e ON e.review_id = r.response_id
				WHERE r.status = 'random_sample' AND e.review_id IS NULL),
			(SELECT COUNT(*) FROM reviews r
				LEFT JOIN evaluations e ON e.review_id = r.response_id
				WHERE r.status = 'recommended' AND e.review_id IS NULL),
			(SELECT COUNT(*) FROM evaluations WHERE date(created_at) = date('now')),
			(SELECT COALESCE(AVG(corrections_made), 0) FROM evaluations),
			(SELECT COALESCE(AVG(CASE WHEN corrections_made = 0 THEN 1.0 ELSE 0.0 END), 0)
				FROM evaluations)`).Scan(
		&m.TotalReviews, &m.TotalRandomSample, &m.RecommendedReviews,
		&m.CompletedToday, &m.CorrectionsPerReview, &m.AverageAccuracy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate metrics: %w", err)
	}

	return &m, nil
}

// scanner abstracts sql.Row and sql.Rows for evaluation scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row scanner) (*model.Evaluation, error) {
	var eval model.Evaluation
	var decision, label string
	var sentimentsJSON sql.NullString

	err := row.Scan(&eval.ReviewID, &decision, &eval.CorrectionsMade,
		&eval.Irrelevant, &eval.Profane, &eval.RewrittenComment,
		&eval.OverallSentimentScore, &label, &sentimentsJSON, &eval.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan evaluation: %w", err)
	}

	eval.Decision = model.ValidationDecision(decision)
	eval.OverallSentimentLabel = model.SentimentLabel(label)

	if sentimentsJSON.Valid && sentimentsJSON.String != "" {
		if err := json.Unmarshal([]byte(sentimentsJSON.String), &eval.CategorySentiments); err != nil {
			return nil, fmt.Errorf("failed to decode category sentiments: %w", err)
		}
	}

	return &eval, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
