package tui

import "github.com/guestlens/guestlens/internal/model"

// reviewsLoadedMsg carries the pending review queue from storage.
type reviewsLoadedMsg struct {
	reviews []model.Review
}

// evaluationSavedMsg signals that a verdict was persisted.
type evaluationSavedMsg struct {
	reviewID string
}

// reviewSkippedMsg signals that the reviewer passed on the current review.
type reviewSkippedMsg struct {
	reviewID string
}

// errorMsg wraps an error from a background command.
type errorMsg struct {
	err error
}
