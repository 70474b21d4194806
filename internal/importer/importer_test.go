package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
)

// fakeStore records saved reviews without a database.
type fakeStore struct {
	saved []model.Review
}

func (f *fakeStore) SaveReviews(_ context.Context, reviews []model.Review) error {
	f.saved = append(f.saved, reviews...)
	return nil
}

func (f *fakeStore) GetReview(context.Context, string) (*model.Review, error) { return nil, nil }
func (f *fakeStore) ListReviews(context.Context, service.ReviewFilter) ([]model.Review, error) {
	return nil, nil
}
func (f *fakeStore) SaveEvaluation(context.Context, *model.Evaluation) error { return nil }
func (f *fakeStore) GetEvaluation(context.Context, string) (*model.Evaluation, error) {
	return nil, nil
}
func (f *fakeStore) ListEvaluations(context.Context, int, int) ([]model.Evaluation, error) {
	return nil, nil
}
func (f *fakeStore) Metrics(context.Context) (*service.MetricsOverview, error) { return nil, nil }
func (f *fakeStore) Migrate(context.Context) error                            { return nil }
func (f *fakeStore) Close() error                                             { return nil }

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

const exportJSON = `[
  {
    "survey_response_id": "sr-1",
    "question_label": "COMMENT",
    "question_response": "Food was amazing but pricey.",
    "response_relevancy": "useful",
    "is_profanity_rewritten_flag": false,
    "overall_sentiment_label": "Positive",
    "overall_sentiment_score": 4,
    "comment_category": "Food",
    "category_sentiment_label": "Positive",
    "category_sentiment_score": 2.0,
    "comment_subcategory": "Flavor",
    "subcategory_sentiment_label": "Positive",
    "subcategory_sentiment_score": 0.8,
    "store_key": "store-9"
  },
  {
    "survey_response_id": "sr-1",
    "question_response": "Food was amazing but pricey.",
    "response_relevancy": "useful",
    "comment_category": "Value",
    "category_sentiment_label": "Negative",
    "category_sentiment_score": -1.0,
    "comment_subcategory": "Price",
    "subcategory_sentiment_label": "Negative",
    "subcategory_sentiment_score": -0.4
  },
  {
    "survey_response_id": "sr-2",
    "question_response": "asdfgh",
    "response_relevancy": "nonsense or irrelevant",
    "comment_category": "",
    "comment_subcategory": ""
  }
]`

func TestImportJSON_GroupsRowsByResponse(t *testing.T) {
	store := &fakeStore{}
	path := writeTempFile(t, "export.json", exportJSON)

	result, err := ImportJSON(context.Background(), store, path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	if result.Rows != 3 || result.Reviews != 2 {
		t.Errorf("result = %+v, want 3 rows collapsed into 2 reviews", result)
	}
	if len(store.saved) != 2 {
		t.Fatalf("saved %d reviews, want 2", len(store.saved))
	}

	first := store.saved[0]
	if first.ResponseID != "sr-1" {
		t.Errorf("first review id = %q, want sr-1", first.ResponseID)
	}
	if len(first.CategorySentiments) != 2 {
		t.Fatalf("first review sentiment count = %d, want 2", len(first.CategorySentiments))
	}
	if first.CategorySentiments[1].Category != "Value" || first.CategorySentiments[1].SubcategoryScore != -0.4 {
		t.Errorf("second entry = %+v, want Value/Price -0.4", first.CategorySentiments[1])
	}
	// |2.0| > 0.5 flags the review as recommended.
	if first.Status != model.StatusRecommended {
		t.Errorf("first review status = %v, want recommended", first.Status)
	}

	second := store.saved[1]
	if !second.Irrelevant {
		t.Error("nonsense review should be marked irrelevant")
	}
	if len(second.CategorySentiments) != 0 {
		t.Errorf("irrelevant review carried %d sentiments, want 0", len(second.CategorySentiments))
	}
}

func TestImportJSON_GeneratesMissingIDs(t *testing.T) {
	store := &fakeStore{}
	path := writeTempFile(t, "export.json", `[
		{"question_response": "No id on this one.", "response_relevancy": "useful",
		 "comment_category": "General", "comment_subcategory": "General"}
	]`)

	if _, err := ImportJSON(context.Background(), store, path); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].ResponseID == "" {
		t.Errorf("review without export id should get a generated one, got %+v", store.saved)
	}
}

func TestImportJSON_SkipsEmptyComments(t *testing.T) {
	store := &fakeStore{}
	path := writeTempFile(t, "export.json", `[
		{"survey_response_id": "sr-1", "question_response": "   "}
	]`)

	result, err := ImportJSON(context.Background(), store, path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Skipped != 1 || result.Reviews != 0 {
		t.Errorf("result = %+v, want 1 skipped and 0 reviews", result)
	}
}

func TestImportCSV(t *testing.T) {
	store := &fakeStore{}
	csvContent := "survey_response_id,question_response,response_relevancy,is_profanity_rewritten_flag,rewritten_question_response,overall_sentiment_score,comment_category,category_sentiment_label,category_sentiment_score,comment_subcategory,subcategory_sentiment_label,subcategory_sentiment_score\n" +
		"sr-9,\"Rude staff, watch your mouth\",profane but useful,true,Unfriendly staff,2,Service,Negative,-0.4,Service Personnel,Negative,-0.3\n"
	path := writeTempFile(t, "export.csv", csvContent)

	result, err := ImportCSV(context.Background(), store, path)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.Reviews != 1 {
		t.Fatalf("result = %+v, want 1 review", result)
	}

	got := store.saved[0]
	if !got.Profane || got.RewrittenComment != "Unfriendly staff" {
		t.Errorf("profanity fields = %v/%q, want true/Unfriendly staff", got.Profane, got.RewrittenComment)
	}
	if got.OverallSentimentScore != 2 {
		t.Errorf("overall score = %d, want 2", got.OverallSentimentScore)
	}
	if got.Status != model.StatusRandomSample {
		t.Errorf("status = %v, want random_sample (no extreme scores)", got.Status)
	}
	if len(got.CategorySentiments) != 1 || got.CategorySentiments[0].CategoryScore != -0.4 {
		t.Errorf("sentiments = %+v", got.CategorySentiments)
	}
}

func TestImportJSON_BadFile(t *testing.T) {
	store := &fakeStore{}
	if _, err := ImportJSON(context.Background(), store, "/does/not/exist.json"); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeTempFile(t, "bad.json", "{not json")
	if _, err := ImportJSON(context.Background(), store, path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
