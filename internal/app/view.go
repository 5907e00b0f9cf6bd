package app

import (
	"strings"
	"time"

	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// QuoteOfTheDay picks the quote for the calendar date of day. Every call on
// the same date returns the same quote for a given corpus.
func QuoteOfTheDay(corpus []domain.Quote, day time.Time) (domain.Quote, error) {
	if len(corpus) == 0 {
		return domain.Quote{}, domain.ErrEmptyCorpus
	}

	y, m, d := day.Date()
	seed := y*1000 + int(m)*100 + d

	return corpus[seed%len(corpus)], nil
}

// FilterQuotes returns the quotes admitted by filter and matching term, in
// corpus order. The term matches a case-insensitive substring of the text or
// the author; an empty term matches everything. The Favorites filter admits
// nothing when user is nil.
func FilterQuotes(corpus []domain.Quote, filter domain.Filter, term string, user *domain.User) []domain.Quote {
	term = strings.ToLower(term)
	out := make([]domain.Quote, 0, len(corpus))

	for _, q := range corpus {
		if !admits(filter, q, user) {
			continue
		}

		if term != "" &&
			!strings.Contains(strings.ToLower(q.Text), term) &&
			!strings.Contains(strings.ToLower(q.Author), term) {
			continue
		}

		out = append(out, q)
	}

	return out
}

func admits(filter domain.Filter, q domain.Quote, user *domain.User) bool {
	switch filter.Kind() {
	case domain.FilterKindFavorites:
		return user != nil && user.HasFavorite(q.ID)
	case domain.FilterKindCategory:
		c, _ := filter.Category()
		return q.Category == c
	default:
		return true
	}
}
