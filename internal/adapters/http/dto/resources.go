package dto

import "github.com/jsamuelsen/inspirehub/internal/domain"

// QuoteResponse is a corpus quote.
type QuoteResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// QuoteListRequest is the query of GET /api/v1/quotes.
type QuoteListRequest struct {
	Filter string `form:"filter"`
	Query  string `form:"q"      validate:"max=200"`

	PaginationRequest
}

// UserResponse is a user's personalization state.
type UserResponse struct {
	Username    string               `json:"username"`
	Favorites   []string             `json:"favorites"`
	Collections []CollectionResponse `json:"collections"`
}

// CollectionResponse is one named collection.
type CollectionResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	QuoteIDs []string `json:"quoteIds"`
}

// SessionResponse reports who, if anyone, is signed in.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// CredentialsRequest is the body of login and register.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
}

// CreateCollectionRequest is the body of POST /api/v1/collections.
type CreateCollectionRequest struct {
	Name    string `json:"name"    validate:"required,notblank,max=100"`
	QuoteID string `json:"quoteId" validate:"required"`
}

// CreateCollectionResponse returns the new collection and the updated user.
type CreateCollectionResponse struct {
	Collection CollectionResponse `json:"collection"`
	User       UserResponse       `json:"user"`
}

// AddToCollectionRequest is the body of POST /api/v1/collections/:id/quotes.
type AddToCollectionRequest struct {
	QuoteID string `json:"quoteId" validate:"required"`
}

// MotivationRequest is the body of POST /api/v1/motivation.
type MotivationRequest struct {
	Topic string `json:"topic" validate:"required,notblank,max=500"`
}

// MotivationResponse is a generated speech.
type MotivationResponse struct {
	Title  string `json:"title"`
	Speech string `json:"speech"`
}

// CategoriesResponse lists the selector values in display order.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// FromQuote maps a domain quote.
func FromQuote(q domain.Quote) QuoteResponse {
	return QuoteResponse{ID: q.ID, Text: q.Text, Author: q.Author, Category: string(q.Category)}
}

// FromQuotes maps a slice of quotes, never returning nil.
func FromQuotes(qs []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuote(q))
	}

	return out
}

// FromUser maps a domain user. Slices are never nil so clients see [].
func FromUser(u domain.User) UserResponse {
	return UserResponse{
		Username:    u.Username,
		Favorites:   append([]string{}, u.Favorites...),
		Collections: FromCollections(u.Collections),
	}
}

// FromCollection maps a collection.
func FromCollection(c domain.Collection) CollectionResponse {
	return CollectionResponse{ID: c.ID, Name: c.Name, QuoteIDs: append([]string{}, c.QuoteIDs...)}
}

// FromCollections maps collections, never returning nil.
func FromCollections(cs []domain.Collection) []CollectionResponse {
	out := make([]CollectionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCollection(c))
	}

	return out
}

// ToggleFavoriteResponse reports the quote's new state and the user.
type ToggleFavoriteResponse struct {
	QuoteID  string       `json:"quoteId"`
	Favorite bool         `json:"favorite"`
	User     UserResponse `json:"user"`
}

// MotivationStatusResponse reports whether a generation is in flight.
type MotivationStatusResponse struct {
	Loading bool `json:"loading"`
}
