package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guestlens/guestlens/internal/common"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
	"github.com/guestlens/guestlens/internal/storage"
)

type fakeStore struct {
	reviews     map[string]*model.Review
	evaluations map[string]*model.Evaluation
	listErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reviews:     make(map[string]*model.Review),
		evaluations: make(map[string]*model.Evaluation),
	}
}

func (f *fakeStore) SaveReviews(_ context.Context, reviews []model.Review) error {
	for i := range reviews {
		r := reviews[i]
		f.reviews[r.ResponseID] = &r
	}
	return nil
}

func (f *fakeStore) GetReview(_ context.Context, id string) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, common.ErrNotFound)
	}
	return r, nil
}

func (f *fakeStore) ListReviews(_ context.Context, filter service.ReviewFilter) ([]model.Review, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	switch filter.Status {
	case model.StatusRandomSample, model.StatusRecommended, model.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidStatus, filter.Status)
	}
	var out []model.Review
	for _, r := range f.reviews {
		if r.Status == filter.Status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveEvaluation(_ context.Context, eval *model.Evaluation) error {
	f.evaluations[eval.ReviewID] = eval
	return nil
}

func (f *fakeStore) GetEvaluation(_ context.Context, id string) (*model.Evaluation, error) {
	e, ok := f.evaluations[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEvaluations(context.Context, int, int) ([]model.Evaluation, error) {
	return nil, nil
}

func (f *fakeStore) Metrics(context.Context) (*service.MetricsOverview, error) {
	return &service.MetricsOverview{
		TotalReviews:      5,
		TotalRandomSample: 3,
		AverageAccuracy:   0.5,
	}, nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Close() error                  { return nil }

func sampleReview() *model.Review {
	return &model.Review{
		ResponseID:            "sr-1",
		QuestionResponse:      "Great flavor, slow service.",
		Status:                model.StatusRandomSample,
		OverallSentimentScore: 3,
		OverallSentimentLabel: model.LabelNeutral,
		CategorySentiments: []model.SentimentEntry{
			{
				Category: "Food", CategoryLabel: model.LabelPositive, CategoryScore: 1.5,
				Subcategory: "Flavor", SubcategoryLabel: model.LabelPositive, SubcategoryScore: 0.6,
			},
		},
	}
}

func testRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/healthcheck", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestGetReview(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews/sr-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got model.Review
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ResponseID != "sr-1" || len(got.CategorySentiments) != 1 {
		t.Errorf("got %+v, want sr-1 with one sentiment entry", got)
	}
}

func TestGetReview_NotFound(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListReviews(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews?status=random_sample", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []model.Review
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("listed %d reviews, want 1", len(got))
	}
}

func TestListReviews_EmptyIsArray(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestListReviews_BadLimit(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListReviews_UnknownStatus(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews?status=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListReviews_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("disk I/O error")
	s := New(store)

	rec := testRequest(t, s, http.MethodGet, "/api/v1/reviews", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestValidate_Accept(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	payload := model.ValidationPayload{Decision: model.DecisionAccept}
	rec := testRequest(t, s, http.MethodPost, "/api/v1/reviews/sr-1/validate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	eval, ok := store.evaluations["sr-1"]
	if !ok {
		t.Fatal("accept should persist an evaluation")
	}
	if eval.Decision != model.DecisionAccept || eval.CorrectionsMade != 0 {
		t.Errorf("evaluation = %+v, want accept with 0 corrections", eval)
	}
	// Accept snapshots the machine baseline.
	if len(eval.CategorySentiments) != 1 || eval.CategorySentiments[0].CategoryScore != 1.5 {
		t.Errorf("sentiments = %+v, want baseline copy", eval.CategorySentiments)
	}
}

func TestValidate_Override(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	payload := model.ValidationPayload{
		Decision:        model.DecisionOverride,
		CorrectionsMade: 2,
		UpdatedLabels: &model.UpdatedLabels{
			OverallSentimentScore: 4,
			OverallSentimentLabel: model.LabelPositive,
			CategorySentiments: []model.SentimentEntry{
				{
					Category: "Food", CategoryLabel: model.LabelPositive, CategoryScore: 2.0,
					Subcategory: "Flavor", SubcategoryLabel: model.LabelPositive, SubcategoryScore: 0.9,
				},
			},
		},
	}
	rec := testRequest(t, s, http.MethodPost, "/api/v1/reviews/sr-1/validate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	eval := store.evaluations["sr-1"]
	if eval == nil {
		t.Fatal("override should persist an evaluation")
	}
	if eval.CorrectionsMade != 2 || eval.OverallSentimentScore != 4 {
		t.Errorf("evaluation = %+v, want corrected labels", eval)
	}
	if eval.CategorySentiments[0].CategoryScore != 2.0 {
		t.Errorf("category score = %v, want 2.0", eval.CategorySentiments[0].CategoryScore)
	}
}

func TestValidate_Skip(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	payload := model.ValidationPayload{Decision: model.DecisionSkip}
	rec := testRequest(t, s, http.MethodPost, "/api/v1/reviews/sr-1/validate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(store.evaluations) != 0 {
		t.Error("skip must not persist an evaluation")
	}
}

func TestValidate_UnknownDecision(t *testing.T) {
	store := newFakeStore()
	store.reviews["sr-1"] = sampleReview()
	s := New(store)

	rec := testRequest(t, s, http.MethodPost, "/api/v1/reviews/sr-1/validate",
		map[string]string{"decision": "maybe"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidate_MissingReview(t *testing.T) {
	s := New(newFakeStore())
	payload := model.ValidationPayload{Decision: model.DecisionAccept}
	rec := testRequest(t, s, http.MethodPost, "/api/v1/reviews/ghost/validate", payload)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMetricsOverview(t *testing.T) {
	s := New(newFakeStore())
	rec := testRequest(t, s, http.MethodGet, "/api/v1/metrics/overview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got service.MetricsOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.TotalReviews != 5 || got.AverageAccuracy != 0.5 {
		t.Errorf("metrics = %+v", got)
	}
}
