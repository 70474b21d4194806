// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/guestlens/guestlens/internal/model"
)

// ReviewFilter defines filtering options for review listing.
type ReviewFilter struct {
	Status model.ReviewStatus
	Limit  int
	Offset int
}

// ReviewStore defines the contract for the persistence layer.
type ReviewStore interface {
	// Review operations
	SaveReviews(ctx context.Context, reviews []model.Review) error
	GetReview(ctx context.Context, id string) (*model.Review, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]model.Review, error)

	// Evaluation operations
	SaveEvaluation(ctx context.Context, eval *model.Evaluation) error
	GetEvaluation(ctx context.Context, reviewID string) (*model.Evaluation, error)
	ListEvaluations(ctx context.Context, limit, offset int) ([]model.Evaluation, error)

	// Metrics
	Metrics(ctx context.Context) (*MetricsOverview, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// MetricsOverview contains aggregate counts for the dashboard.
type MetricsOverview struct {
	TotalRandomSample    int     `json:"total_random_sample"`
	CompletedToday       int     `json:"completed_today"`
	RecommendedReviews   int     `json:"recommended_reviews"`
	TotalReviews         int     `json:"total_reviews"`
	AverageAccuracy      float64 `json:"average_accuracy"`
	CorrectionsPerReview float64 `json:"corrections_per_review"`
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
