package catalog

import (
	"errors"
	"testing"
)

func TestAllCategories_StableOrder(t *testing.T) {
	want := []string{"Atmosphere", "Food", "General", "Menu Feedback", "Other", "Service", "Value"}

	got := AllCategories()
	if len(got) != len(want) {
		t.Fatalf("AllCategories() returned %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllCategories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Mutating the returned slice must not affect the catalog.
	got[0] = "Mutated"
	if AllCategories()[0] != "Atmosphere" {
		t.Error("AllCategories() returned a slice aliasing internal state")
	}
}

func TestSubcategoriesOf(t *testing.T) {
	tests := []struct {
		name     string
		category string
		first    string
		count    int
		wantErr  bool
	}{
		{name: "food", category: "Food", first: "Flavor", count: 4},
		{name: "service", category: "Service", first: "Service Personnel", count: 4},
		{name: "value", category: "Value", first: "Loyalty/Offers", count: 2},
		{name: "single subcategory", category: "Atmosphere", first: "Atmosphere", count: 1},
		{name: "unknown category", category: "Parking", wantErr: true},
		{name: "empty category", category: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := SubcategoriesOf(tt.category)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Fatalf("SubcategoriesOf(%q) error = %v, want ErrUnknownCategory", tt.category, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SubcategoriesOf(%q) unexpected error: %v", tt.category, err)
			}
			if len(subs) != tt.count {
				t.Errorf("SubcategoriesOf(%q) returned %d subcategories, want %d", tt.category, len(subs), tt.count)
			}
			if subs[0] != tt.first {
				t.Errorf("SubcategoriesOf(%q)[0] = %q, want %q", tt.category, subs[0], tt.first)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subcategory string
		want        bool
	}{
		{name: "valid pair", category: "Value", subcategory: "Price", want: true},
		{name: "shared name valid under food", category: "Food", subcategory: "Missing Items", want: true},
		{name: "shared name valid under service", category: "Service", subcategory: "Missing Items", want: true},
		{name: "wrong category", category: "Value", subcategory: "Flavor", want: false},
		{name: "unknown category", category: "Parking", subcategory: "Price", want: false},
		{name: "trailing space preserved", category: "Service", subcategory: "Wait Time- Prior to seating ", want: true},
		{name: "trailing space required", category: "Service", subcategory: "Wait Time- Prior to seating", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.category, tt.subcategory); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.category, tt.subcategory, got, tt.want)
			}
		})
	}
}

func TestIsCategory(t *testing.T) {
	if !IsCategory("Menu Feedback") {
		t.Error("IsCategory(\"Menu Feedback\") = false, want true")
	}
	if IsCategory("menu feedback") {
		t.Error("IsCategory is case sensitive; lowercase should not match")
	}
}
