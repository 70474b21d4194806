// Package reconcile computes what changed between the machine-generated
// baseline sentiment collection and the human-edited one. The report drives
// both the modified/new/removed annotations in the editor and the
// entry-level change count.
package reconcile

import (
	"math"

	"github.com/guestlens/guestlens/internal/catalog"
	"github.com/guestlens/guestlens/internal/model"
)

// scoreTolerance absorbs floating-point and UI rounding noise. Differences
// must be strictly greater than this to count as a modification.
const scoreTolerance = 0.1

// ChangeTag classifies a category or subcategory against the baseline.
type ChangeTag string

// Change tag constants.
const (
	Unchanged ChangeTag = "unchanged"
	Modified  ChangeTag = "modified"
	New       ChangeTag = "new"
	Removed   ChangeTag = "removed"
)

// ScorePair holds a before/after score for rendering "was X" annotations.
// For removed entries only Before is meaningful.
type ScorePair struct {
	Before float64
	After  float64
}

// SubcategoryChange is the classification of one (category, subcategory)
// pair. Score pairs are populated for Modified and Removed entries.
type SubcategoryChange struct {
	Subcategory      string
	Tag              ChangeTag
	CategoryScore    *ScorePair
	SubcategoryScore *ScorePair
}

// CategoryChange groups the subcategory classifications under one category
// with the category-level tag.
type CategoryChange struct {
	Category      string
	Tag           ChangeTag
	Subcategories []SubcategoryChange
}

// Report is the full reconciliation between baseline and current, keyed by
// category in catalog order. It is derived data: recompute it whenever
// either collection changes.
type Report struct {
	Categories []CategoryChange
}

// Category returns the change record for a category, if present.
func (r Report) Category(name string) (CategoryChange, bool) {
	for _, c := range r.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return CategoryChange{}, false
}

// EntryChanges counts subcategory entries classified Modified, New, or
// Removed. This is the per-entry change counter; it is tracked separately
// from the scalar-field counter and the two are never summed.
func (r Report) EntryChanges() int {
	count := 0
	for _, c := range r.Categories {
		for _, s := range c.Subcategories {
			if s.Tag != Unchanged {
				count++
			}
		}
	}
	return count
}

// Diff compares the baseline collection against the current one. Categories
// appear in catalog order; a category absent from both collections is
// omitted. Categories outside the catalog (possible only with hand-built
// data) are appended after the catalog ones in first-seen order.
func Diff(baseline, current []model.SentimentEntry) Report {
	baseGroups := groupByCategory(baseline)
	curGroups := groupByCategory(current)

	var report Report
	for _, category := range orderedCategories(baseline, current) {
		base := baseGroups[category]
		cur := curGroups[category]

		switch {
		case len(cur) == 0:
			// Whole category removed.
			change := CategoryChange{Category: category, Tag: Removed}
			for _, e := range base {
				change.Subcategories = append(change.Subcategories, removedChange(e))
			}
			report.Categories = append(report.Categories, change)

		case len(base) == 0:
			// Brand new category; every subcategory under it is new.
			change := CategoryChange{Category: category, Tag: New}
			for _, e := range cur {
				change.Subcategories = append(change.Subcategories, SubcategoryChange{
					Subcategory: e.Subcategory,
					Tag:         New,
				})
			}
			report.Categories = append(report.Categories, change)

		default:
			report.Categories = append(report.Categories, diffCategory(category, base, cur))
		}
	}
	return report
}

func diffCategory(category string, base, cur []model.SentimentEntry) CategoryChange {
	change := CategoryChange{Category: category, Tag: Unchanged}

	for _, e := range cur {
		prev, ok := findEntry(base, e.Subcategory)
		if !ok {
			change.Subcategories = append(change.Subcategories, SubcategoryChange{
				Subcategory: e.Subcategory,
				Tag:         New,
			})
			continue
		}

		if scoresDiffer(prev.CategoryScore, e.CategoryScore) ||
			scoresDiffer(prev.SubcategoryScore, e.SubcategoryScore) {
			change.Subcategories = append(change.Subcategories, SubcategoryChange{
				Subcategory:      e.Subcategory,
				Tag:              Modified,
				CategoryScore:    &ScorePair{Before: prev.CategoryScore, After: e.CategoryScore},
				SubcategoryScore: &ScorePair{Before: prev.SubcategoryScore, After: e.SubcategoryScore},
			})
			continue
		}

		change.Subcategories = append(change.Subcategories, SubcategoryChange{
			Subcategory: e.Subcategory,
			Tag:         Unchanged,
		})
	}

	for _, e := range base {
		if _, ok := findEntry(cur, e.Subcategory); !ok {
			change.Subcategories = append(change.Subcategories, removedChange(e))
		}
	}

	// The category itself is modified if any subcategory changed, or if the
	// broadcast category score moved. The first entry of each group carries
	// the group's score since propagation keeps siblings uniform.
	for _, s := range change.Subcategories {
		if s.Tag != Unchanged {
			change.Tag = Modified
			break
		}
	}
	if change.Tag == Unchanged && scoresDiffer(base[0].CategoryScore, cur[0].CategoryScore) {
		change.Tag = Modified
	}

	return change
}

func removedChange(e model.SentimentEntry) SubcategoryChange {
	return SubcategoryChange{
		Subcategory:      e.Subcategory,
		Tag:              Removed,
		CategoryScore:    &ScorePair{Before: e.CategoryScore},
		SubcategoryScore: &ScorePair{Before: e.SubcategoryScore},
	}
}

func scoresDiffer(before, after float64) bool {
	return math.Abs(before-after) > scoreTolerance
}

func findEntry(entries []model.SentimentEntry, subcategory string) (model.SentimentEntry, bool) {
	for _, e := range entries {
		if e.Subcategory == subcategory {
			return e, true
		}
	}
	return model.SentimentEntry{}, false
}

func groupByCategory(entries []model.SentimentEntry) map[string][]model.SentimentEntry {
	groups := make(map[string][]model.SentimentEntry)
	for _, e := range entries {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// orderedCategories yields every category present in either collection, in
// the catalog's canonical order, then any off-catalog stragglers.
func orderedCategories(baseline, current []model.SentimentEntry) []string {
	present := make(map[string]bool)
	for _, e := range baseline {
		present[e.Category] = true
	}
	for _, e := range current {
		present[e.Category] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, c := range catalog.AllCategories() {
		if present[c] {
			out = append(out, c)
			seen[c] = true
		}
	}
	for _, e := range append(append([]model.SentimentEntry{}, baseline...), current...) {
		if present[e.Category] && !seen[e.Category] {
			out = append(out, e.Category)
			seen[e.Category] = true
		}
	}
	return out
}
