package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
	"github.com/guestlens/guestlens/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleListReviews serves GET /api/v1/reviews?status=&limit=&offset=.
// Status defaults to random_sample.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	filter := service.ReviewFilter{Status: model.StatusRandomSample}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = model.ReviewStatus(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	reviews, err := s.store.ListReviews(r.Context(), filter)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to list reviews", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	review, err := s.store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("review %s not found", id))
			return
		}
		slog.Error("failed to load review", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// handleValidate records the reviewer's verdict for a review. Accept snapshots
// the machine baseline as ground truth, override persists the corrected
// labels, and skip acknowledges without writing an evaluation.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload model.ValidationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := s.store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("review %s not found", id))
			return
		}
		slog.Error("failed to load review", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load review")
		return
	}

	switch payload.Decision {
	case model.DecisionSkip:
		writeJSON(w, http.StatusOK, map[string]string{"status": "skipped", "review_id": id})
		return
	case model.DecisionAccept, model.DecisionOverride:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown decision %q", payload.Decision))
		return
	}

	eval := evaluationFor(review, &payload)
	if err := s.store.SaveEvaluation(r.Context(), eval); err != nil {
		slog.Error("failed to save evaluation", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save evaluation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "validated", "review_id": id})
}

// evaluationFor builds the ground-truth record from a validation payload.
// Accept (or an override with no labels attached) snapshots the baseline.
func evaluationFor(review *model.Review, payload *model.ValidationPayload) *model.Evaluation {
	eval := &model.Evaluation{
		ReviewID:        review.ResponseID,
		Decision:        payload.Decision,
		CorrectionsMade: payload.CorrectionsMade,
		CreatedAt:       time.Now().UTC(),
	}

	if payload.Decision == model.DecisionOverride && payload.UpdatedLabels != nil {
		u := payload.UpdatedLabels
		eval.OverallSentimentScore = u.OverallSentimentScore
		eval.OverallSentimentLabel = u.OverallSentimentLabel
		eval.CategorySentiments = u.CategorySentiments
		eval.Irrelevant = u.Irrelevant
		eval.Profane = u.Profane
		eval.RewrittenComment = u.RewrittenComment
		return eval
	}

	eval.Decision = model.DecisionAccept
	eval.CorrectionsMade = 0
	eval.OverallSentimentScore = review.OverallSentimentScore
	eval.OverallSentimentLabel = review.OverallSentimentLabel
	eval.CategorySentiments = review.CategorySentiments
	eval.Irrelevant = review.Irrelevant
	eval.Profane = review.Profane
	eval.RewrittenComment = review.RewrittenComment
	return eval
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.store.Metrics(r.Context())
	if err != nil {
		slog.Error("failed to compute metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
