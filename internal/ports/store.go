// Package ports defines the contracts the application layer depends on.
// Adapters implement them; app services only ever see these interfaces.
//
// Conventions:
//   - context.Context is always the first parameter
//   - methods return domain types and domain errors, never driver types
//   - interfaces stay small so tests can fake them in a few lines
package ports

import (
	"context"

	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// KeyValueStore is a local, persistent byte store keyed by string.
//
// Get returns (nil, nil) when the key is absent. Implementations only ever
// touch the named key.
type KeyValueStore interface {
	// Get returns the stored bytes for key, or nil if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// UserListRepository persists the directory of all registered users.
// Load never fails: unreadable data is reported as an empty list.
type UserListRepository interface {
	LoadUsers(ctx context.Context) []domain.User
	SaveUsers(ctx context.Context, users []domain.User) error
}

// SessionRepository persists the single current session user.
// Load never fails: unreadable data is reported as no session.
type SessionRepository interface {
	LoadCurrent(ctx context.Context) (domain.User, bool)
	SaveCurrent(ctx context.Context, user domain.User) error
	ClearCurrent(ctx context.Context) error
}
