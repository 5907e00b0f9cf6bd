package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		input    string
		wantKind FilterKind
		wantCat  Category
		wantErr  bool
	}{
		{input: "", wantKind: FilterKindAll},
		{input: "All", wantKind: FilterKindAll},
		{input: "favorites", wantKind: FilterKindFavorites},
		{input: "Wisdom", wantKind: FilterKindCategory, wantCat: CategoryWisdom},
		{input: "hustle", wantKind: FilterKindCategory, wantCat: CategoryHustle},
		{input: "Poetry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFilter(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, f.Kind())

			c, isCategory := f.Category()
			assert.Equal(t, tt.wantKind == FilterKindCategory, isCategory)
			assert.Equal(t, tt.wantCat, c)
		})
	}
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "All", Filter{}.String())
	assert.Equal(t, "Favorites", FilterFavorites().String())
	assert.Equal(t, "Leadership", FilterByCategory(CategoryLeadership).String())
}

func TestSelectorValues(t *testing.T) {
	assert.Equal(t, []string{
		"All", "Favorites",
		"Resilience", "Success", "Discipline", "Leadership", "Hustle", "Wisdom",
	}, SelectorValues())
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), c)
	}

	assert.False(t, Category("Poetry").Valid())
	assert.False(t, Category("").Valid())
}
