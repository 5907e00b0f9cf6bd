package domain

import "strings"

// FilterKind discriminates the Filter variants.
type FilterKind int

const (
	// FilterKindAll admits every quote.
	FilterKindAll FilterKind = iota

	// FilterKindFavorites admits the current user's favorites.
	FilterKindFavorites

	// FilterKindCategory admits quotes of a single category.
	FilterKindCategory
)

// Selector values that are not categories.
const (
	FilterValueAll       = "All"
	FilterValueFavorites = "Favorites"
)

// Filter is the category selector: All, Favorites, or ByCategory.
// The zero value is All.
type Filter struct {
	kind     FilterKind
	category Category
}

// FilterAll returns the filter that admits every quote.
func FilterAll() Filter {
	return Filter{kind: FilterKindAll}
}

// FilterFavorites returns the filter that admits the current user's favorites.
func FilterFavorites() Filter {
	return Filter{kind: FilterKindFavorites}
}

// FilterByCategory returns the filter for a single category.
func FilterByCategory(c Category) Filter {
	return Filter{kind: FilterKindCategory, category: c}
}

// Kind returns the variant of f.
func (f Filter) Kind() FilterKind {
	return f.kind
}

// Category returns the selected category and whether f is a category filter.
func (f Filter) Category() (Category, bool) {
	return f.category, f.kind == FilterKindCategory
}

// String returns the selector value for f.
func (f Filter) String() string {
	switch f.kind {
	case FilterKindFavorites:
		return FilterValueFavorites
	case FilterKindCategory:
		return string(f.category)
	default:
		return FilterValueAll
	}
}

// ParseFilter converts a selector value into a Filter.
// An empty value selects All.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "" || strings.EqualFold(s, FilterValueAll):
		return FilterAll(), nil
	case strings.EqualFold(s, FilterValueFavorites):
		return FilterFavorites(), nil
	}

	c, err := ParseCategory(s)
	if err != nil {
		return Filter{}, NewValidationError("filter", "unknown filter "+s)
	}

	return FilterByCategory(c), nil
}

// SelectorValues lists the UI selector values in display order.
func SelectorValues() []string {
	values := []string{FilterValueAll, FilterValueFavorites}
	for _, c := range AllCategories() {
		values = append(values, string(c))
	}

	return values
}
