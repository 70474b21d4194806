// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"math"
)

// SentimentLabel is the three-way sentiment classification used for both
// category and subcategory ratings.
type SentimentLabel string

// Sentiment label constants.
const (
	LabelPositive SentimentLabel = "Positive"
	LabelNeutral  SentimentLabel = "Neutral"
	LabelNegative SentimentLabel = "Negative"
)

// Score bounds. Category scores share one scale per category; subcategory
// scores use a narrower scale.
const (
	CategoryScoreMin    = -3.0
	CategoryScoreMax    = 3.0
	SubcategoryScoreMin = -1.0
	SubcategoryScoreMax = 1.0

	OverallScoreMin = 1
	OverallScoreMax = 5
)

// SentimentEntry is one active (category, subcategory) rating pair. The pair
// is the key; a collection never holds two entries for the same pair.
type SentimentEntry struct {
	Category         string         `json:"category"`
	CategoryLabel    SentimentLabel `json:"category_sentiment_label"`
	CategoryScore    float64        `json:"category_sentiment_score"`
	Subcategory      string         `json:"subcategory"`
	SubcategoryLabel SentimentLabel `json:"subcategory_sentiment_label"`
	SubcategoryScore float64        `json:"subcategory_sentiment_score"`
}

// Validate checks that the entry's scores are within their domain ranges.
func (e SentimentEntry) Validate() error {
	if e.Category == "" {
		return fmt.Errorf("category is required")
	}
	if e.Subcategory == "" {
		return fmt.Errorf("subcategory is required")
	}
	if e.CategoryScore < CategoryScoreMin || e.CategoryScore > CategoryScoreMax {
		return fmt.Errorf("category score must be between %.1f and %.1f, got %.2f",
			CategoryScoreMin, CategoryScoreMax, e.CategoryScore)
	}
	if e.SubcategoryScore < SubcategoryScoreMin || e.SubcategoryScore > SubcategoryScoreMax {
		return fmt.Errorf("subcategory score must be between %.1f and %.1f, got %.2f",
			SubcategoryScoreMin, SubcategoryScoreMax, e.SubcategoryScore)
	}
	return nil
}

// LabelForScore derives the sentiment label for a category or subcategory
// score. Zero is Neutral.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0:
		return LabelPositive
	case score < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// OverallLabelForScore derives the review-level label from an integer score
// in [1,5]: 1-2 Negative, 3 Neutral, 4-5 Positive.
func OverallLabelForScore(score int) SentimentLabel {
	switch {
	case score <= 2:
		return LabelNegative
	case score == 3:
		return LabelNeutral
	default:
		return LabelPositive
	}
}

// RoundOverallScore rounds a raw score to the nearest integer and clamps it
// to [1,5]. UI inputs arrive as floats; the stored score is always integral.
func RoundOverallScore(raw float64) int {
	score := int(math.Round(raw))
	if score < OverallScoreMin {
		return OverallScoreMin
	}
	if score > OverallScoreMax {
		return OverallScoreMax
	}
	return score
}

// ClampCategoryScore clamps a category score to [-3, 3].
func ClampCategoryScore(score float64) float64 {
	return clamp(score, CategoryScoreMin, CategoryScoreMax)
}

// ClampSubcategoryScore clamps a subcategory score to [-1, 1].
func ClampSubcategoryScore(score float64) float64 {
	return clamp(score, SubcategoryScoreMin, SubcategoryScoreMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
