package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guestlens/guestlens/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrEmptySlice        = errors.New("slice cannot be empty")
	ErrInvalidReview     = errors.New("invalid review")
	ErrInvalidDecision   = errors.New("invalid validation decision")
	ErrInvalidStatus     = errors.New("invalid review status")
	ErrInvalidEvaluation = errors.New("invalid evaluation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReviews validates a slice of reviews before saving.
func validateReviews(reviews []model.Review) error {
	if reviews == nil {
		return fmt.Errorf("%w: reviews", ErrNilParameter)
	}
	if len(reviews) == 0 {
		return fmt.Errorf("%w: reviews", ErrEmptySlice)
	}

	for i, r := range reviews {
		if err := validateReview(&r); err != nil {
			return fmt.Errorf("review at index %d: %w", i, err)
		}
	}
	return nil
}

// validateReview validates a single review.
func validateReview(r *model.Review) error {
	if r == nil {
		return fmt.Errorf("%w: review", ErrNilParameter)
	}
	if r.ResponseID == "" {
		return fmt.Errorf("%w: missing response ID", ErrInvalidReview)
	}
	switch r.Status {
	case model.StatusRandomSample, model.StatusCompleted, model.StatusRecommended:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	for _, e := range r.CategorySentiments {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidReview, err)
		}
	}
	return nil
}

// validateEvaluation validates an evaluation before saving.
func validateEvaluation(eval *model.Evaluation) error {
	if eval == nil {
		return fmt.Errorf("%w: evaluation", ErrNilParameter)
	}
	if eval.ReviewID == "" {
		return fmt.Errorf("%w: missing review ID", ErrInvalidEvaluation)
	}
	switch eval.Decision {
	case model.DecisionAccept, model.DecisionOverride, model.DecisionSkip:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDecision, eval.Decision)
	}
	if eval.CorrectionsMade < 0 {
		return fmt.Errorf("%w: negative corrections count", ErrInvalidEvaluation)
	}
	return nil
}
