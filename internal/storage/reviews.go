package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// SaveReviews inserts or replaces a batch of baseline reviews and their
// sentiment entries in a single transaction.
func (s *SQLiteStorage) SaveReviews(ctx context.Context, reviews []model.Review) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReviews(reviews); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	reviewStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (response_id, question_label, question_response, status,
			irrelevant, profane, rewritten_comment,
			overall_sentiment_score, overall_sentiment_label, store_id, visit_datetime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(response_id) DO UPDATE SET
			question_label = excluded.question_label,
			question_response = excluded.question_response,
			status = excluded.status,
			irrelevant = excluded.irrelevant,
			profane = excluded.profane,
			rewritten_comment = excluded.rewritten_comment,
			overall_sentiment_score = excluded.overall_sentiment_score,
			overall_sentiment_label = excluded.overall_sentiment_label,
			store_id = excluded.store_id,
			visit_datetime = excluded.visit_datetime`)
	if err != nil {
		return fmt.Errorf("failed to prepare review statement: %w", err)
	}
	defer func() { _ = reviewStmt.Close() }()

	sentimentStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO review_sentiments (response_id, category, category_sentiment_label,
			category_sentiment_score, subcategory, subcategory_sentiment_label, subcategory_sentiment_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sentiment statement: %w", err)
	}
	defer func() { _ = sentimentStmt.Close() }()

	for _, r := range reviews {
		if _, err := reviewStmt.ExecContext(ctx,
			r.ResponseID, r.QuestionLabel, r.QuestionResponse, string(r.Status),
			r.Irrelevant, r.Profane, r.RewrittenComment,
			r.OverallSentimentScore, string(r.OverallSentimentLabel), r.StoreID, r.VisitTime,
		); err != nil {
			return fmt.Errorf("failed to save review %s: %w", r.ResponseID, err)
		}

		// Replace the baseline entries wholesale on re-import.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM review_sentiments WHERE response_id = ?`, r.ResponseID); err != nil {
			return fmt.Errorf("failed to clear sentiments for %s: %w", r.ResponseID, err)
		}
		for _, e := range r.CategorySentiments {
			if _, err := sentimentStmt.ExecContext(ctx,
				r.ResponseID, e.Category, string(e.CategoryLabel), e.CategoryScore,
				e.Subcategory, string(e.SubcategoryLabel), e.SubcategoryScore,
			); err != nil {
				return fmt.Errorf("failed to save sentiment (%s, %s) for %s: %w",
					e.Category, e.Subcategory, r.ResponseID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reviews: %w", err)
	}

	slog.Debug("saved reviews", "count", len(reviews))
	return nil
}

// GetReview returns one review with its baseline sentiment collection.
// Returns common.ErrNotFound if the identifier is unknown.
func (s *SQLiteStorage) GetReview(ctx context.Context, id string) (*model.Review, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT response_id, question_label, question_response, status,
			irrelevant, profane, COALESCE(rewritten_comment, ''),
			COALESCE(overall_sentiment_score, 0), COALESCE(overall_sentiment_label, ''),
			COALESCE(store_id, ''), visit_datetime, created_at
		FROM reviews
		WHERE response_id = ?`

	var r model.Review
	var status, label string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ResponseID, &r.QuestionLabel, &r.QuestionResponse, &status,
		&r.Irrelevant, &r.Profane, &r.RewrittenComment,
		&r.OverallSentimentScore, &label, &r.StoreID, &r.VisitTime, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	r.Status = model.ReviewStatus(status)
	r.OverallSentimentLabel = model.SentimentLabel(label)

	sentiments, err := s.getSentiments(ctx, id)
	if err != nil {
		return nil, err
	}
	r.CategorySentiments = sentiments

	return &r, nil
}

func (s *SQLiteStorage) getSentiments(ctx context.Context, id string) ([]model.SentimentEntry, error) {
	query := `
		SELECT category, category_sentiment_label, category_sentiment_score,
			subcategory, subcategory_sentiment_label, subcategory_sentiment_score
		FROM review_sentiments
		WHERE response_id = ?
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.SentimentEntry
	for rows.Next() {
		var e model.SentimentEntry
		var catLabel, subLabel string
		if err := rows.Scan(&e.Category, &catLabel, &e.CategoryScore,
			&e.Subcategory, &subLabel, &e.SubcategoryScore); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment: %w", err)
		}
		e.CategoryLabel = model.SentimentLabel(catLabel)
		e.SubcategoryLabel = model.SentimentLabel(subLabel)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiments: %w", err)
	}

	return entries, nil
}

// ListReviews returns review summaries for the given status filter.
// Pending statuses (random_sample, recommended) exclude reviews that already
// have an evaluation; completed lists evaluated reviews newest first.
func (s *SQLiteStorage) ListReviews(ctx context.Context, filter service.ReviewFilter) ([]model.Review, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var query string
	var args []any
	switch filter.Status {
	case model.StatusCompleted:
		query = `
			SELECT r.response_id
			FROM reviews r
			JOIN evaluations e ON e.review_id = r.response_id
			ORDER BY e.created_at DESC
			LIMIT ? OFFSET ?`
		args = []any{limit, filter.Offset}
	case model.StatusRandomSample, model.StatusRecommended:
		query = `
			SELECT r.response_id
			FROM reviews r
			LEFT JOIN evaluations e ON e.review_id = r.response_id
			WHERE r.status = ? AND e.review_id IS NULL
			ORDER BY r.created_at, r.response_id
			LIMIT ? OFFSET ?`
		args = []any{string(filter.Status), limit, filter.Offset}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan review id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetReview(ctx, id)
		if err != nil {
			return nil, err
		}
		if filter.Status == model.StatusCompleted {
			r.Status = model.StatusCompleted
		}
		reviews = append(reviews, *r)
	}

	slog.Debug("listed reviews", "status", filter.Status, "count", len(reviews))
	return reviews, nil
}
