package domain

import (
	"slices"
	"strings"
)

// User is a known visitor and their personalization state.
// Usernames are case-sensitive and never change after registration.
//
// User values are treated as immutable: the With* methods return a modified
// copy and leave the receiver untouched, so two holders of a User never share
// backing arrays.
type User struct {
	Username    string
	Favorites   []string
	Collections []Collection
}

// Collection is a user-named, ordered set of quote ids.
type Collection struct {
	ID       string
	Name     string
	QuoteIDs []string
}

// NewUser returns a user with no favorites and no collections.
func NewUser(username string) User {
	return User{
		Username:    username,
		Favorites:   []string{},
		Collections: []Collection{},
	}
}

// ValidateUsername rejects blank usernames.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewValidationError("username", "must not be blank")
	}

	return nil
}

// ValidateCollectionName rejects blank collection names.
func ValidateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "collection name must not be blank")
	}

	return nil
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	out := User{
		Username:    u.Username,
		Favorites:   cloneIDs(u.Favorites),
		Collections: make([]Collection, len(u.Collections)),
	}

	for i, c := range u.Collections {
		out.Collections[i] = c.Clone()
	}

	return out
}

// Equal reports whether u and other hold the same personalization state.
// Nil and empty id lists are equal.
func (u User) Equal(other User) bool {
	return u.Username == other.Username &&
		slices.Equal(u.Favorites, other.Favorites) &&
		slices.EqualFunc(u.Collections, other.Collections, func(a, b Collection) bool {
			return a.ID == b.ID && a.Name == b.Name && slices.Equal(a.QuoteIDs, b.QuoteIDs)
		})
}

// HasFavorite reports whether quoteID is among the favorites.
func (u User) HasFavorite(quoteID string) bool {
	return slices.Contains(u.Favorites, quoteID)
}

// WithFavoriteToggled removes quoteID from the favorites if present,
// otherwise appends it. Remaining favorites keep their order.
func (u User) WithFavoriteToggled(quoteID string) User {
	out := u.Clone()

	if i := slices.Index(out.Favorites, quoteID); i >= 0 {
		out.Favorites = slices.Delete(out.Favorites, i, i+1)
		return out
	}

	out.Favorites = append(out.Favorites, quoteID)

	return out
}

// FindCollection returns the collection with the given id.
func (u User) FindCollection(id string) (Collection, bool) {
	for _, c := range u.Collections {
		if c.ID == id {
			return c.Clone(), true
		}
	}

	return Collection{}, false
}

// WithCollection appends c to the collections.
func (u User) WithCollection(c Collection) User {
	out := u.Clone()
	out.Collections = append(out.Collections, c.Clone())

	return out
}

// WithQuoteInCollection adds quoteID to the collection with collectionID.
// A missing collection or an existing member leaves the copy unchanged.
func (u User) WithQuoteInCollection(collectionID, quoteID string) User {
	out := u.Clone()

	for i := range out.Collections {
		if out.Collections[i].ID != collectionID {
			continue
		}

		if !out.Collections[i].Contains(quoteID) {
			out.Collections[i].QuoteIDs = append(out.Collections[i].QuoteIDs, quoteID)
		}

		break
	}

	return out
}

// CheckInvariants reports the first structural rule u violates.
func (u User) CheckInvariants() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}

	if hasDuplicates(u.Favorites) {
		return NewValidationError("favorites", "duplicate quote id")
	}

	seen := make(map[string]struct{}, len(u.Collections))
	for _, c := range u.Collections {
		if _, dup := seen[c.ID]; dup {
			return NewValidationError("collections", "duplicate collection id "+c.ID)
		}

		seen[c.ID] = struct{}{}

		if hasDuplicates(c.QuoteIDs) {
			return NewValidationError("collections", "duplicate quote id in "+c.ID)
		}
	}

	return nil
}

// Contains reports whether quoteID is a member of c.
func (c Collection) Contains(quoteID string) bool {
	return slices.Contains(c.QuoteIDs, quoteID)
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	return Collection{
		ID:       c.ID,
		Name:     c.Name,
		QuoteIDs: cloneIDs(c.QuoteIDs),
	}
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	return out
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return true
		}

		seen[id] = struct{}{}
	}

	return false
}
