package domain

import "strings"

// Quote is an immutable entry of the quote corpus.
type Quote struct {
	// ID is unique within the corpus.
	ID string

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category is the theme the quote is filed under.
	Category Category
}

// Category is the closed set of quote themes.
type Category string

// Quote categories, in display order.
const (
	CategoryResilience Category = "Resilience"
	CategorySuccess    Category = "Success"
	CategoryDiscipline Category = "Discipline"
	CategoryLeadership Category = "Leadership"
	CategoryHustle     Category = "Hustle"
	CategoryWisdom     Category = "Wisdom"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryResilience,
		CategorySuccess,
		CategoryDiscipline,
		CategoryLeadership,
		CategoryHustle,
		CategoryWisdom,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}

	return false
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, known := range AllCategories() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}

	return "", NewValidationError("category", "unknown category "+s)
}
