package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// loadReviews fetches the pending queue for the configured status.
func (m Model) loadReviews() tea.Cmd {
	return func() tea.Msg {
		reviews, err := m.store.ListReviews(context.Background(), service.ReviewFilter{
			Status: m.status,
			Limit:  m.batchSize,
		})
		if err != nil {
			return errorMsg{err: err}
		}
		return reviewsLoadedMsg{reviews: reviews}
	}
}

// saveEvaluation persists the verdict built from the current session.
func (m Model) saveEvaluation(review model.Review, payload model.ValidationPayload) tea.Cmd {
	return func() tea.Msg {
		if payload.Decision == model.DecisionSkip {
			return reviewSkippedMsg{reviewID: review.ResponseID}
		}

		eval := &model.Evaluation{
			ReviewID:        review.ResponseID,
			Decision:        payload.Decision,
			CorrectionsMade: payload.CorrectionsMade,
			CreatedAt:       time.Now().UTC(),
		}
		if payload.UpdatedLabels != nil {
			u := payload.UpdatedLabels
			eval.OverallSentimentScore = u.OverallSentimentScore
			eval.OverallSentimentLabel = u.OverallSentimentLabel
			eval.CategorySentiments = u.CategorySentiments
			eval.Irrelevant = u.Irrelevant
			eval.Profane = u.Profane
			eval.RewrittenComment = u.RewrittenComment
		} else {
			eval.OverallSentimentScore = review.OverallSentimentScore
			eval.OverallSentimentLabel = review.OverallSentimentLabel
			eval.CategorySentiments = review.CategorySentiments
			eval.Irrelevant = review.Irrelevant
			eval.Profane = review.Profane
			eval.RewrittenComment = review.RewrittenComment
		}

		if err := m.store.SaveEvaluation(context.Background(), eval); err != nil {
			return errorMsg{err: err}
		}
		return evaluationSavedMsg{reviewID: review.ResponseID}
	}
}
