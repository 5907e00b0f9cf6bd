// Package corpus provides the fixed quote corpus shipped with the service.
package corpus

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/inspirehub/internal/domain"
)

//go:embed quotes.json
var embedded []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

type quoteRecord struct {
	ID       string `json:"id"       validate:"required"`
	Text     string `json:"text"     validate:"required"`
	Author   string `json:"author"   validate:"required"`
	Category string `json:"category" validate:"required"`
}

// Default returns the embedded corpus in its canonical order.
func Default() ([]domain.Quote, error) {
	return Parse(embedded)
}

// Parse decodes and validates a JSON array of quotes. Ids must be unique and
// every category must be known.
func Parse(raw []byte) ([]domain.Quote, error) {
	var records []quoteRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("corpus entry %d: %w", i, err)
		}

		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("corpus entry %d: duplicate id %q", i, rec.ID)
		}

		seen[rec.ID] = struct{}{}

		category := domain.Category(rec.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("corpus entry %d: unknown category %q", i, rec.Category)
		}

		quotes = append(quotes, domain.Quote{
			ID:       rec.ID,
			Text:     rec.Text,
			Author:   rec.Author,
			Category: category,
		})
	}

	return quotes, nil
}
