package model

import "time"

// Evaluation is the persisted human ground truth for one review. Exactly one
// evaluation exists per review; re-submitting replaces it.
type Evaluation struct {
	CreatedAt             time.Time          `json:"created_at"`
	ReviewID              string             `json:"review_id"`
	Decision              ValidationDecision `json:"decision"`
	RewrittenComment      string             `json:"rewritten_comment,omitempty"`
	OverallSentimentLabel SentimentLabel     `json:"overall_sentiment_label,omitempty"`
	CategorySentiments    []SentimentEntry   `json:"category_sentiments,omitempty"`
	OverallSentimentScore int                `json:"overall_sentiment_score,omitempty"`
	CorrectionsMade       int                `json:"corrections_made"`
	Irrelevant            bool               `json:"irrelevant"`
	Profane               bool               `json:"profane"`
}
