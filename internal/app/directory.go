package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// Directory is the set of all registered users, keyed by username.
// The persisted list is the source of truth; every call reads it afresh and
// hands out copies.
type Directory struct {
	repo   ports.UserListRepository
	logger *slog.Logger
}

// NewDirectory creates a directory over repo.
func NewDirectory(repo ports.UserListRepository, logger *slog.Logger) *Directory {
	if repo == nil {
		panic("app: NewDirectory requires a repository")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Directory{
		repo:   repo,
		logger: logger.With(slog.String("component", "app.Directory")),
	}
}

// FindByUsername returns the user with exactly this (case-sensitive) name.
func (d *Directory) FindByUsername(ctx context.Context, username string) (domain.User, bool) {
	for _, u := range d.repo.LoadUsers(ctx) {
		if u.Username == username {
			return u.Clone(), true
		}
	}

	return domain.User{}, false
}

// Register appends a new, empty user. A taken username fails with a
// conflict and leaves the persisted list untouched.
func (d *Directory) Register(ctx context.Context, username string) (domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return domain.User{}, err
	}

	users := d.repo.LoadUsers(ctx)
	for _, u := range users {
		if u.Username == username {
			return domain.User{}, domain.NewConflictError("user", fmt.Sprintf("username %q already exists", username))
		}
	}

	user := domain.NewUser(username)
	if err := d.repo.SaveUsers(ctx, append(users, user)); err != nil {
		return domain.User{}, fmt.Errorf("saving directory: %w", err)
	}

	logging.FromContextOr(ctx, d.logger).InfoContext(ctx, "user registered", slog.String("username", username))

	return user.Clone(), nil
}

// Upsert replaces the entry whose username matches user. When none matches
// nothing is written; entries are only ever created by Register.
func (d *Directory) Upsert(ctx context.Context, user domain.User) error {
	users := d.repo.LoadUsers(ctx)

	for i := range users {
		if users[i].Username != user.Username {
			continue
		}

		users[i] = user.Clone()
		if err := d.repo.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("saving directory: %w", err)
		}

		return nil
	}

	logging.FromContextOr(ctx, d.logger).DebugContext(ctx, "upsert skipped, user not in directory",
		slog.String("username", user.Username))

	return nil
}

// List returns every registered user in registration order.
func (d *Directory) List(ctx context.Context) []domain.User {
	users := d.repo.LoadUsers(ctx)

	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}

	return out
}
