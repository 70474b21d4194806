// Package catalog holds the fixed two-level taxonomy of review aspects.
// The taxonomy mirrors the upstream labeling pipeline and never changes at
// runtime; (category, subcategory) is the true key everywhere, never the
// subcategory alone.
package catalog

import (
	"errors"
	"fmt"
)

// Errors returned by catalog lookups. Both indicate a programmer or data
// error: the catalog is the single source of truth and callers must never
// ask about names outside it.
var (
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidSubcategory = errors.New("invalid subcategory")
)

// categoryOrder is the canonical display order for categories.
var categoryOrder = []string{
	"Atmosphere",
	"Food",
	"General",
	"Menu Feedback",
	"Other",
	"Service",
	"Value",
}

// subcategories maps each category to its allowed subcategories, in display
// order. Names come verbatim from the pipeline, trailing whitespace
// included.
var subcategories = map[string][]string{
	"Atmosphere":    {"Atmosphere"},
	"Food":          {"Flavor", "Food Preparation", "Quality", "Missing Items"},
	"General":       {"General"},
	"Menu Feedback": {"Menu Feedback"},
	"Other":         {"Other"},
	"Service": {
		"Service Personnel",
		"Slow Service- After seating delays",
		"Wait Time- Prior to seating ",
		"Missing Items",
	},
	"Value": {"Loyalty/Offers", "Price"},
}

// AllCategories returns every category in canonical order.
func AllCategories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// SubcategoriesOf returns the ordered subcategories for a category, or
// ErrUnknownCategory if the category is not in the taxonomy.
func SubcategoriesOf(category string) ([]string, error) {
	subs, ok := subcategories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out, nil
}

// Contains reports whether subcategory is valid under category. Unknown
// categories simply report false; use SubcategoriesOf when the caller needs
// to distinguish.
func Contains(category, subcategory string) bool {
	for _, s := range subcategories[category] {
		if s == subcategory {
			return true
		}
	}
	return false
}

// IsCategory reports whether the name is a known category.
func IsCategory(category string) bool {
	_, ok := subcategories[category]
	return ok
}
