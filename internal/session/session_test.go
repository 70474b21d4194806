package session

import (
	"errors"
	"testing"

	"github.com/guestlens/guestlens/internal/catalog"
	"github.com/guestlens/guestlens/internal/model"
)

func baselineReview(entries ...model.SentimentEntry) model.Review {
	return model.Review{
		ResponseID:            "r-1",
		QuestionResponse:      "The food was great but we waited forever.",
		OverallSentimentScore: 3,
		OverallSentimentLabel: model.LabelNeutral,
		CategorySentiments:    entries,
	}
}

func TestSelectCategory_InsertsPlaceholder(t *testing.T) {
	s := New(baselineReview())

	if err := s.SelectCategory("Service"); err != nil {
		t.Fatalf("SelectCategory(Service) error: %v", err)
	}

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after SelectCategory, got %d", len(entries))
	}
	got := entries[0]
	if got.Category != "Service" || got.Subcategory != "Service Personnel" {
		t.Errorf("placeholder entry = (%q, %q), want (Service, Service Personnel)", got.Category, got.Subcategory)
	}
	if got.CategoryScore != 0 || got.SubcategoryScore != 0 {
		t.Errorf("placeholder scores = (%v, %v), want (0, 0)", got.CategoryScore, got.SubcategoryScore)
	}
	if got.CategoryLabel != model.LabelNeutral || got.SubcategoryLabel != model.LabelNeutral {
		t.Errorf("placeholder labels = (%v, %v), want Neutral/Neutral", got.CategoryLabel, got.SubcategoryLabel)
	}
}

func TestSelectCategory_Idempotent(t *testing.T) {
	s := New(baselineReview())

	if err := s.SelectCategory("Food"); err != nil {
		t.Fatalf("first SelectCategory: %v", err)
	}
	if err := s.SelectCategory("Food"); err != nil {
		t.Fatalf("second SelectCategory: %v", err)
	}

	if got := len(s.Entries()); got != 1 {
		t.Errorf("expected 1 entry after double select, got %d", got)
	}
}

func TestSelectCategory_UnknownCategory(t *testing.T) {
	s := New(baselineReview())
	if err := s.SelectCategory("Parking"); !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Errorf("SelectCategory(Parking) error = %v, want ErrUnknownCategory", err)
	}
}

func TestSelectSubcategory_InheritsPendingScore(t *testing.T) {
	s := New(baselineReview())

	if err := s.SelectCategory("Food"); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	s.SetCategoryScore("Food", 2)

	if err := s.SelectSubcategory("Food", "Quality"); err != nil {
		t.Fatalf("SelectSubcategory: %v", err)
	}

	for _, e := range s.Entries() {
		if e.Category != "Food" {
			continue
		}
		if e.CategoryScore != 2 {
			t.Errorf("entry (%s, %s) category score = %v, want 2", e.Category, e.Subcategory, e.CategoryScore)
		}
		if e.CategoryLabel != model.LabelPositive {
			t.Errorf("entry (%s, %s) category label = %v, want Positive", e.Category, e.Subcategory, e.CategoryLabel)
		}
	}
}

func TestSelectSubcategory_Validation(t *testing.T) {
	s := New(baselineReview())

	if err := s.SelectSubcategory("Food", "Price"); !errors.Is(err, catalog.ErrInvalidSubcategory) {
		t.Errorf("SelectSubcategory(Food, Price) error = %v, want ErrInvalidSubcategory", err)
	}
	if err := s.SelectSubcategory("Parking", "Price"); !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Errorf("SelectSubcategory(Parking, Price) error = %v, want ErrUnknownCategory", err)
	}
}

func TestSelectSubcategory_NoDuplicatePairs(t *testing.T) {
	s := New(baselineReview(model.SentimentEntry{
		Category: "Value", Subcategory: "Price", CategoryScore: 1, SubcategoryScore: 0.5,
	}))

	if err := s.SelectSubcategory("Value", "Price"); err != nil {
		t.Fatalf("SelectSubcategory: %v", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
	// The existing entry must be untouched.
	if e := s.Entries()[0]; e.SubcategoryScore != 0.5 {
		t.Errorf("existing entry was modified: subcategory score = %v", e.SubcategoryScore)
	}
}

func TestSetCategoryScore_PropagatesToAllSiblings(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Value", Subcategory: "Loyalty/Offers", CategoryScore: 1.5},
		model.SentimentEntry{Category: "Value", Subcategory: "Price", CategoryScore: 1.5},
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 1},
	))

	s.SetCategoryScore("Value", -2)

	for _, e := range s.Entries() {
		switch e.Category {
		case "Value":
			if e.CategoryScore != -2 {
				t.Errorf("Value entry %q category score = %v, want -2", e.Subcategory, e.CategoryScore)
			}
			if e.CategoryLabel != model.LabelNegative {
				t.Errorf("Value entry %q category label = %v, want Negative", e.Subcategory, e.CategoryLabel)
			}
		case "Food":
			if e.CategoryScore != 1 {
				t.Errorf("Food entry category score = %v, want untouched 1", e.CategoryScore)
			}
		}
	}
}

func TestSetCategoryScore_Clamps(t *testing.T) {
	s := New(baselineReview(model.SentimentEntry{Category: "Food", Subcategory: "Flavor"}))

	s.SetCategoryScore("Food", 7.5)
	if got := s.Entries()[0].CategoryScore; got != 3 {
		t.Errorf("category score = %v, want clamped 3", got)
	}
	s.SetCategoryScore("Food", -99)
	if got := s.Entries()[0].CategoryScore; got != -3 {
		t.Errorf("category score = %v, want clamped -3", got)
	}
}

func TestSetSubcategoryScore_SingleEntryOnly(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 1, SubcategoryScore: 0.5},
		model.SentimentEntry{Category: "Food", Subcategory: "Quality", CategoryScore: 1, SubcategoryScore: 0.2},
	))

	s.SetSubcategoryScore("Food", "Flavor", -0.8)

	for _, e := range s.Entries() {
		switch e.Subcategory {
		case "Flavor":
			if e.SubcategoryScore != -0.8 {
				t.Errorf("Flavor subcategory score = %v, want -0.8", e.SubcategoryScore)
			}
			if e.SubcategoryLabel != model.LabelNegative {
				t.Errorf("Flavor subcategory label = %v, want Negative", e.SubcategoryLabel)
			}
			if e.CategoryScore != 1 {
				t.Errorf("Flavor category score = %v, want untouched 1", e.CategoryScore)
			}
		case "Quality":
			if e.SubcategoryScore != 0.2 {
				t.Errorf("Quality subcategory score = %v, want untouched 0.2", e.SubcategoryScore)
			}
		}
	}
}

func TestSetSubcategoryScore_Clamps(t *testing.T) {
	s := New(baselineReview(model.SentimentEntry{Category: "Food", Subcategory: "Flavor"}))

	s.SetSubcategoryScore("Food", "Flavor", 2.5)
	if got := s.Entries()[0].SubcategoryScore; got != 1 {
		t.Errorf("subcategory score = %v, want clamped 1", got)
	}
}

func TestDeselectSubcategory_AutoDeselectsEmptyCategory(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Value", Subcategory: "Loyalty/Offers", CategoryScore: 1.5},
		model.SentimentEntry{Category: "Value", Subcategory: "Price", CategoryScore: 1.5},
	))

	s.DeselectSubcategory("Value", "Price")
	if !s.CategorySelected("Value") {
		t.Fatal("Value should remain selected while Loyalty/Offers is active")
	}
	if got := s.CategoryScore("Value"); got != 1.5 {
		t.Errorf("pending score = %v, want preserved 1.5", got)
	}

	s.DeselectSubcategory("Value", "Loyalty/Offers")
	if s.CategorySelected("Value") {
		t.Error("Value should be deselected after its last subcategory is removed")
	}
	if got := s.CategoryScore("Value"); got != 0 {
		t.Errorf("pending score after full deselect = %v, want cleared", got)
	}
}

func TestDeselectCategory_RemovesAllEntries(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor"},
		model.SentimentEntry{Category: "Food", Subcategory: "Quality"},
		model.SentimentEntry{Category: "Value", Subcategory: "Price"},
	))

	s.DeselectCategory("Food")

	entries := s.Entries()
	if len(entries) != 1 || entries[0].Category != "Value" {
		t.Errorf("entries after DeselectCategory(Food) = %+v, want only Value", entries)
	}
}

func TestMarkIrrelevant_ClearsAndDoesNotRestore(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 2},
	))

	s.MarkIrrelevant(true)
	if got := len(s.Entries()); got != 0 {
		t.Fatalf("expected empty collection after MarkIrrelevant(true), got %d entries", got)
	}

	s.MarkIrrelevant(false)
	if got := len(s.Entries()); got != 0 {
		t.Errorf("un-marking irrelevant must not restore entries, got %d", got)
	}
	if got := s.CategoryScore("Food"); got != 0 {
		t.Errorf("pending score survived irrelevant wipe: %v", got)
	}
}

func TestMarkIrrelevant_AlreadyIrrelevantBaselineStillWipes(t *testing.T) {
	// Imports can flag a review irrelevant while still carrying sentiment
	// rows; the session starts with both, and re-marking must still wipe.
	review := baselineReview(
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 1.5},
	)
	review.Irrelevant = true
	s := New(review)

	s.MarkIrrelevant(true)
	if got := len(s.Entries()); got != 0 {
		t.Errorf("entries after MarkIrrelevant(true) = %d, want 0", got)
	}
	if got := s.CategoryScore("Food"); got != 0 {
		t.Errorf("pending score = %v, want cleared", got)
	}
	if !s.Irrelevant() {
		t.Error("irrelevant flag should stay set")
	}
}

func TestMarkProfane_SeedsFromBaselineRewrite(t *testing.T) {
	review := baselineReview()
	review.RewrittenComment = "cleaned text"
	review.Profane = false
	s := New(review)
	s.SetRewrittenComment("")

	s.MarkProfane(true)
	if got := s.RewrittenComment(); got != "cleaned text" {
		t.Errorf("rewritten comment = %q, want seeded %q", got, "cleaned text")
	}

	s.SetRewrittenComment("my own rewrite")
	s.MarkProfane(false)
	if got := s.RewrittenComment(); got != "" {
		t.Errorf("rewritten comment after MarkProfane(false) = %q, want cleared", got)
	}
}

func TestScalarCorrections(t *testing.T) {
	review := baselineReview()
	review.Profane = false
	review.RewrittenComment = ""

	s := New(review)
	if got := s.ScalarCorrections(); got != 0 {
		t.Fatalf("fresh session corrections = %d, want 0", got)
	}

	s.MarkIrrelevant(true)
	if got := s.ScalarCorrections(); got != 1 {
		t.Errorf("after irrelevant toggle corrections = %d, want 1", got)
	}

	s.MarkProfane(true)
	s.SetRewrittenComment("softened wording")
	if got := s.ScalarCorrections(); got != 3 {
		t.Errorf("after all three scalar edits corrections = %d, want 3", got)
	}

	// Toggling back to baseline values counts as no change.
	s.MarkIrrelevant(false)
	s.MarkProfane(false)
	if got := s.ScalarCorrections(); got != 0 {
		t.Errorf("after reverting corrections = %d, want 0", got)
	}
}

func TestSetEntryScores_FlatVariant(t *testing.T) {
	s := New(baselineReview(
		model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 1},
		model.SentimentEntry{Category: "Food", Subcategory: "Quality", CategoryScore: 1},
	))

	s.SetEntryScores(0, 2.5, -0.5)

	entries := s.Entries()
	if entries[0].CategoryScore != 2.5 || entries[0].SubcategoryScore != -0.5 {
		t.Errorf("entry 0 scores = (%v, %v), want (2.5, -0.5)", entries[0].CategoryScore, entries[0].SubcategoryScore)
	}
	// Flat setter bypasses propagation: the sibling keeps its old score.
	if entries[1].CategoryScore != 1 {
		t.Errorf("entry 1 category score = %v, want untouched 1", entries[1].CategoryScore)
	}

	// Out-of-range indexes are ignored.
	s.SetEntryScores(99, 1, 1)
	s.SetEntryScores(-1, 1, 1)
	if got := len(s.Entries()); got != 2 {
		t.Errorf("entry count changed after out-of-range setter: %d", got)
	}
}

func TestOverallScore(t *testing.T) {
	s := New(baselineReview())

	s.SetOverallScore(2)
	if s.OverallLabel() != model.LabelNegative {
		t.Errorf("label for score 2 = %v, want Negative", s.OverallLabel())
	}
	s.SetOverallScore(3)
	if s.OverallLabel() != model.LabelNeutral {
		t.Errorf("label for score 3 = %v, want Neutral", s.OverallLabel())
	}
	s.SetOverallScore(4)
	if s.OverallLabel() != model.LabelPositive {
		t.Errorf("label for score 4 = %v, want Positive", s.OverallLabel())
	}
	s.SetOverallScore(5.7)
	if s.OverallScore() != 5 {
		t.Errorf("score for raw 5.7 = %d, want rounded 5", s.OverallScore())
	}
}

func TestBuildPayload_AcceptAndSkip(t *testing.T) {
	for _, decision := range []model.ValidationDecision{model.DecisionAccept, model.DecisionSkip} {
		s := New(baselineReview(model.SentimentEntry{Category: "Food", Subcategory: "Flavor"}))
		payload := s.BuildPayload(decision)

		if payload.Decision != decision {
			t.Errorf("payload decision = %v, want %v", payload.Decision, decision)
		}
		if payload.UpdatedLabels != nil {
			t.Errorf("%v payload carries updated labels", decision)
		}
		if payload.CorrectionsMade != 0 {
			t.Errorf("%v payload corrections = %d, want 0", decision, payload.CorrectionsMade)
		}
		if !s.Submitted() {
			t.Errorf("session not marked submitted after %v", decision)
		}
	}
}

func TestBuildPayload_Override(t *testing.T) {
	review := baselineReview(model.SentimentEntry{Category: "Food", Subcategory: "Flavor", CategoryScore: 1, SubcategoryScore: 0.5})
	review.Profane = false
	s := New(review)

	s.SetCategoryScore("Food", 2)
	s.MarkProfane(true)
	s.SetRewrittenComment("  tidied up  ")
	s.SetOverallScore(4)

	payload := s.BuildPayload(model.DecisionOverride)

	if payload.UpdatedLabels == nil {
		t.Fatal("override payload missing updated labels")
	}
	labels := payload.UpdatedLabels
	if len(labels.CategorySentiments) != 1 || labels.CategorySentiments[0].CategoryScore != 2 {
		t.Errorf("payload sentiments = %+v, want single Food entry with score 2", labels.CategorySentiments)
	}
	if labels.RewrittenComment != "  tidied up  " {
		t.Errorf("payload rewritten comment = %q", labels.RewrittenComment)
	}
	if labels.OverallSentimentScore != 4 || labels.OverallSentimentLabel != model.LabelPositive {
		t.Errorf("payload overall = %d/%v, want 4/Positive", labels.OverallSentimentScore, labels.OverallSentimentLabel)
	}
	// Profane toggled + rewritten text changed = 2 scalar corrections.
	if payload.CorrectionsMade != 2 {
		t.Errorf("payload corrections = %d, want 2", payload.CorrectionsMade)
	}
}

func TestBuildPayload_OverrideIrrelevantOmitsSentiments(t *testing.T) {
	s := New(baselineReview(model.SentimentEntry{Category: "Food", Subcategory: "Flavor"}))
	s.MarkIrrelevant(true)

	payload := s.BuildPayload(model.DecisionOverride)
	if payload.UpdatedLabels == nil {
		t.Fatal("override payload missing updated labels")
	}
	if payload.UpdatedLabels.CategorySentiments != nil {
		t.Errorf("irrelevant override must omit category sentiments, got %+v", payload.UpdatedLabels.CategorySentiments)
	}
	if !payload.UpdatedLabels.Irrelevant {
		t.Error("irrelevant flag not set on payload")
	}
}

func TestBuildPayload_BlankRewriteOmitted(t *testing.T) {
	review := baselineReview()
	review.Profane = true
	review.RewrittenComment = "   "
	s := New(review)

	payload := s.BuildPayload(model.DecisionOverride)
	if payload.UpdatedLabels.RewrittenComment != "" {
		t.Errorf("blank rewrite should be omitted, got %q", payload.UpdatedLabels.RewrittenComment)
	}
}
