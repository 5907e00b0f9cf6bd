package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// CatalogService serves the derived quote views for the current session.
type CatalogService struct {
	corpus  []domain.Quote
	session *Session
	now     Clock
	logger  *slog.Logger
}

// NewCatalogService creates a catalog over corpus. A nil clock means
// time.Now.
func NewCatalogService(corpus []domain.Quote, session *Session, now Clock, logger *slog.Logger) *CatalogService {
	if session == nil {
		panic("app: NewCatalogService requires a session")
	}

	if now == nil {
		now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		corpus:  corpus,
		session: session,
		now:     now,
		logger:  logger.With(slog.String("component", "app.CatalogService")),
	}
}

// Today returns the quote of the day for the clock's current date.
func (c *CatalogService) Today(ctx context.Context) (domain.Quote, error) {
	q, err := QuoteOfTheDay(c.corpus, c.now())
	if err != nil {
		c.logger.ErrorContext(ctx, "no quote of the day", slog.Any("error", err))
		return domain.Quote{}, err
	}

	return q, nil
}

// Search filters the corpus for the current session user.
func (c *CatalogService) Search(_ context.Context, filter domain.Filter, term string) []domain.Quote {
	var user *domain.User
	if u, ok := c.session.Current(); ok {
		user = &u
	}

	return FilterQuotes(c.corpus, filter, term, user)
}

// Categories returns the selector values in display order.
func (c *CatalogService) Categories() []string {
	return domain.SelectorValues()
}
