// Package session implements the in-memory editing session for one review:
// category/subcategory selection, score propagation, the irrelevant and
// profanity toggles, and assembly of the final validation payload.
//
// A session is single-user and single-threaded. All operations are
// synchronous transforms of in-memory state; the only possible errors are
// catalog lookups outside the fixed taxonomy.
package session

import (
	"strings"

	"github.com/guestlens/guestlens/internal/catalog"
	"github.com/guestlens/guestlens/internal/model"
)

// Session holds the editable state for one review. The baseline is the
// machine output and never changes; Entries is the live collection.
type Session struct {
	// pending remembers the last category-level score per category so a
	// newly added subcategory entry inherits it. Kept outside the entry
	// collection on purpose: the value must survive while a category is
	// being reshaped and there is momentarily no entry to carry it.
	pending map[string]float64

	baseline model.Review
	entries  []model.SentimentEntry

	rewritten    string
	overallScore int

	irrelevant bool
	profane    bool
	submitted  bool
}

// New starts an editing session for a review. The current collection begins
// as a copy of the machine baseline.
func New(review model.Review) *Session {
	entries := make([]model.SentimentEntry, len(review.CategorySentiments))
	copy(entries, review.CategorySentiments)

	pending := make(map[string]float64)
	for _, e := range review.CategorySentiments {
		pending[e.Category] = e.CategoryScore
	}

	overall := review.OverallSentimentScore
	if overall == 0 {
		overall = 3
	}

	return &Session{
		baseline:     review,
		entries:      entries,
		pending:      pending,
		irrelevant:   review.Irrelevant,
		profane:      review.Profane,
		rewritten:    review.RewrittenComment,
		overallScore: model.RoundOverallScore(float64(overall)),
	}
}

// Baseline returns the immutable machine-generated review.
func (s *Session) Baseline() model.Review {
	return s.baseline
}

// Entries returns a copy of the current sentiment entry collection.
func (s *Session) Entries() []model.SentimentEntry {
	out := make([]model.SentimentEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SelectCategory marks a category as selected. If it already has at least
// one entry this is a no-op. Otherwise a single placeholder entry is
// inserted using the first catalog subcategory, scored zero and Neutral, so
// the category is immediately selected without forcing a subcategory pick.
func (s *Session) SelectCategory(category string) error {
	subs, err := catalog.SubcategoriesOf(category)
	if err != nil {
		return err
	}
	if s.CategorySelected(category) {
		return nil
	}

	s.entries = append(s.entries, model.SentimentEntry{
		Category:         category,
		Subcategory:      subs[0],
		CategoryLabel:    model.LabelNeutral,
		SubcategoryLabel: model.LabelNeutral,
	})
	s.pending[category] = 0
	return nil
}

// DeselectCategory removes every entry under the category and forgets its
// pending score. Irreversible within the session except by re-selecting.
func (s *Session) DeselectCategory(category string) {
	filtered := s.entries[:0]
	for _, e := range s.entries {
		if e.Category != category {
			filtered = append(filtered, e)
		}
	}
	s.entries = filtered
	delete(s.pending, category)
}

// SelectSubcategory adds the (category, subcategory) pair to the collection.
// The new entry inherits the category's pending score (zero if none). No-op
// if the pair is already present.
func (s *Session) SelectSubcategory(category, subcategory string) error {
	if !catalog.IsCategory(category) {
		return catalog.ErrUnknownCategory
	}
	if !catalog.Contains(category, subcategory) {
		return catalog.ErrInvalidSubcategory
	}
	if s.subcategorySelected(category, subcategory) {
		return nil
	}

	score := s.pending[category]
	s.entries = append(s.entries, model.SentimentEntry{
		Category:         category,
		Subcategory:      subcategory,
		CategoryScore:    score,
		CategoryLabel:    model.LabelForScore(score),
		SubcategoryLabel: model.LabelNeutral,
	})
	return nil
}

// DeselectSubcategory removes the matching entry if present. Removing the
// last entry under a category deselects the category entirely, pending
// score included; a category never lingers selected with zero entries.
func (s *Session) DeselectSubcategory(category, subcategory string) {
	filtered := s.entries[:0]
	for _, e := range s.entries {
		if e.Category == category && e.Subcategory == subcategory {
			continue
		}
		filtered = append(filtered, e)
	}
	s.entries = filtered

	if !s.CategorySelected(category) {
		delete(s.pending, category)
	}
}

// SetCategoryScore records the category-level score and broadcasts it to
// every selected subcategory entry under the category. The score is a
// shared value re-applied to all siblings on every change, so siblings can
// never disagree at rest. Out-of-range input clamps to [-3, 3].
func (s *Session) SetCategoryScore(category string, score float64) {
	score = model.ClampCategoryScore(score)
	s.pending[category] = score

	label := model.LabelForScore(score)
	for i := range s.entries {
		if s.entries[i].Category == category {
			s.entries[i].CategoryScore = score
			s.entries[i].CategoryLabel = label
		}
	}
}

// SetSubcategoryScore updates one entry's subcategory score, clamped to
// [-1, 1]. Siblings and the category score are untouched.
func (s *Session) SetSubcategoryScore(category, subcategory string, score float64) {
	score = model.ClampSubcategoryScore(score)
	for i := range s.entries {
		if s.entries[i].Category == category && s.entries[i].Subcategory == subcategory {
			s.entries[i].SubcategoryScore = score
			s.entries[i].SubcategoryLabel = model.LabelForScore(score)
			return
		}
	}
}

// SetEntryScores is the flat editing variant: it overwrites one entry's
// scores by collection index, bypassing propagation entirely. Out-of-range
// indexes are ignored.
func (s *Session) SetEntryScores(index int, categoryScore, subcategoryScore float64) {
	if index < 0 || index >= len(s.entries) {
		return
	}
	e := &s.entries[index]
	e.CategoryScore = model.ClampCategoryScore(categoryScore)
	e.CategoryLabel = model.LabelForScore(e.CategoryScore)
	e.SubcategoryScore = model.ClampSubcategoryScore(subcategoryScore)
	e.SubcategoryLabel = model.LabelForScore(e.SubcategoryScore)
}

// SetEntryLabels is the flat editing variant for labels: it overwrites one
// entry's labels by collection index without touching scores.
func (s *Session) SetEntryLabels(index int, categoryLabel, subcategoryLabel model.SentimentLabel) {
	if index < 0 || index >= len(s.entries) {
		return
	}
	s.entries[index].CategoryLabel = categoryLabel
	s.entries[index].SubcategoryLabel = subcategoryLabel
}

// CategorySelected reports whether the category has at least one entry.
func (s *Session) CategorySelected(category string) bool {
	for _, e := range s.entries {
		if e.Category == category {
			return true
		}
	}
	return false
}

// SelectedSubcategories returns the subcategories currently selected under
// a category, in insertion order.
func (s *Session) SelectedSubcategories(category string) []string {
	var subs []string
	for _, e := range s.entries {
		if e.Category == category {
			subs = append(subs, e.Subcategory)
		}
	}
	return subs
}

// CategoryScore returns the effective category-level score: the pending
// value if recorded, otherwise zero.
func (s *Session) CategoryScore(category string) float64 {
	return s.pending[category]
}

func (s *Session) subcategorySelected(category, subcategory string) bool {
	for _, e := range s.entries {
		if e.Category == category && e.Subcategory == subcategory {
			return true
		}
	}
	return false
}

// MarkIrrelevant sets the irrelevant flag. Marking a review irrelevant
// discards the entire current collection and all pending scores, even when
// the baseline already carried the flag; un-marking does not restore them.
func (s *Session) MarkIrrelevant(irrelevant bool) {
	if irrelevant {
		s.entries = nil
		s.pending = make(map[string]float64)
	}
	s.irrelevant = irrelevant
}

// Irrelevant reports the current irrelevant flag.
func (s *Session) Irrelevant() bool {
	return s.irrelevant
}

// MarkProfane sets the profanity flag. Turning it off clears the rewritten
// comment. Turning it on with no rewritten text seeds the field from the
// machine-generated rewrite on the baseline, when one exists.
func (s *Session) MarkProfane(profane bool) {
	if !profane {
		s.rewritten = ""
	} else if s.rewritten == "" && s.baseline.RewrittenComment != "" {
		s.rewritten = s.baseline.RewrittenComment
	}
	s.profane = profane
}

// Profane reports the current profanity flag.
func (s *Session) Profane() bool {
	return s.profane
}

// SetRewrittenComment replaces the rewritten comment text.
func (s *Session) SetRewrittenComment(text string) {
	s.rewritten = text
}

// RewrittenComment returns the current rewritten comment text.
func (s *Session) RewrittenComment() string {
	return s.rewritten
}

// SetOverallScore stores the review-level sentiment score. Raw input is
// rounded to the nearest integer and clamped to [1,5]; the label always
// follows the score and is never directly editable.
func (s *Session) SetOverallScore(raw float64) {
	s.overallScore = model.RoundOverallScore(raw)
}

// OverallScore returns the current overall sentiment score.
func (s *Session) OverallScore() int {
	return s.overallScore
}

// OverallLabel returns the label derived from the overall score.
func (s *Session) OverallLabel() model.SentimentLabel {
	return model.OverallLabelForScore(s.overallScore)
}

// ScalarCorrections counts the top-level scalar fields that differ from the
// baseline: the irrelevant flag, the profanity flag, and the rewritten
// comment text. Range 0..3. Entry-level changes are counted separately by
// the reconciliation report and are never folded into this number.
func (s *Session) ScalarCorrections() int {
	count := 0
	if s.irrelevant != s.baseline.Irrelevant {
		count++
	}
	if s.profane != s.baseline.Profane {
		count++
	}
	if s.rewritten != s.baseline.RewrittenComment {
		count++
	}
	return count
}

// Submitted reports whether BuildPayload has been called. The session is
// terminal after submission; callers tear it down and load the next review.
func (s *Session) Submitted() bool {
	return s.submitted
}

// BuildPayload assembles the validation payload for the given decision.
// Accept and skip carry no updated labels and zero corrections. Override
// snapshots the edited state: category sentiments are omitted entirely for
// irrelevant reviews, and the rewritten comment is included only when the
// review is profane and the text is non-blank after trimming.
func (s *Session) BuildPayload(decision model.ValidationDecision) model.ValidationPayload {
	s.submitted = true

	if decision != model.DecisionOverride {
		return model.ValidationPayload{Decision: decision}
	}

	labels := &model.UpdatedLabels{
		Irrelevant:            s.irrelevant,
		Profane:               s.profane,
		OverallSentimentScore: s.overallScore,
		OverallSentimentLabel: s.OverallLabel(),
	}
	if !s.irrelevant {
		labels.CategorySentiments = s.Entries()
	}
	if s.profane && strings.TrimSpace(s.rewritten) != "" {
		labels.RewrittenComment = s.rewritten
	}

	return model.ValidationPayload{
		Decision:        model.DecisionOverride,
		UpdatedLabels:   labels,
		CorrectionsMade: s.ScalarCorrections(),
	}
}
