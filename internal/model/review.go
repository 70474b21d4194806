package model

import "time"

// ReviewStatus indicates where a review sits in the validation workflow.
type ReviewStatus string

// Review status constants.
const (
	StatusRandomSample ReviewStatus = "random_sample"
	StatusCompleted    ReviewStatus = "completed"
	StatusRecommended  ReviewStatus = "recommended"
)

// ValidationDecision is the reviewer's verdict on a machine-labeled review.
type ValidationDecision string

// Validation decision constants.
const (
	DecisionAccept   ValidationDecision = "accept"
	DecisionOverride ValidationDecision = "override"
	DecisionSkip     ValidationDecision = "skip"
)

// Review is a guest comment with the machine-generated sentiment baseline.
// CategorySentiments is the baseline collection; it is immutable once the
// editing session starts.
type Review struct {
	VisitTime             time.Time        `json:"visit_datetime,omitempty"`
	CreatedAt             time.Time        `json:"created_at,omitempty"`
	ResponseID            string           `json:"response_id"`
	QuestionLabel         string           `json:"question_label"`
	QuestionResponse      string           `json:"question_response"`
	RewrittenComment      string           `json:"rewritten_comment,omitempty"`
	OverallSentimentLabel SentimentLabel   `json:"overall_sentiment_label,omitempty"`
	StoreID               string           `json:"store_id,omitempty"`
	Status                ReviewStatus     `json:"status"`
	CategorySentiments    []SentimentEntry `json:"category_sentiments,omitempty"`
	OverallSentimentScore int              `json:"overall_sentiment_score,omitempty"`
	Profane               bool             `json:"profane"`
	Irrelevant            bool             `json:"irrelevant"`
}

// UpdatedLabels carries the human-corrected labels inside an override
// payload. CategorySentiments is omitted entirely when the review was marked
// irrelevant; RewrittenComment is present only for profane reviews with a
// non-blank rewrite.
type UpdatedLabels struct {
	RewrittenComment      string           `json:"rewritten_comment,omitempty"`
	OverallSentimentLabel SentimentLabel   `json:"overall_sentiment_label"`
	CategorySentiments    []SentimentEntry `json:"category_sentiments,omitempty"`
	OverallSentimentScore int              `json:"overall_sentiment_score"`
	Irrelevant            bool             `json:"irrelevant"`
	Profane               bool             `json:"profane"`
}

// ValidationPayload is what gets persisted when the reviewer submits.
// Accept and skip carry no updated labels; only override does.
type ValidationPayload struct {
	UpdatedLabels   *UpdatedLabels     `json:"updated_labels,omitempty"`
	Decision        ValidationDecision `json:"decision"`
	CorrectionsMade int                `json:"corrections_made"`
}
