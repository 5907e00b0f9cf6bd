package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// Well-known keys.
const (
	KeyCurrentUser = "current_user"
	KeyAllUsers    = "all_users"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// userRecord is the persisted shape of a domain.User.
type userRecord struct {
	Username    string             `json:"username"    validate:"required"`
	Favorites   []string           `json:"favorites"`
	Collections []collectionRecord `json:"collections" validate:"dive"`
}

type collectionRecord struct {
	ID       string   `json:"id"       validate:"required"`
	Name     string   `json:"name"     validate:"required"`
	QuoteIDs []string `json:"quoteIds"`
}

func recordFromUser(u domain.User) userRecord {
	rec := userRecord{
		Username:    u.Username,
		Favorites:   append([]string{}, u.Favorites...),
		Collections: make([]collectionRecord, 0, len(u.Collections)),
	}

	for _, c := range u.Collections {
		rec.Collections = append(rec.Collections, collectionRecord{
			ID:       c.ID,
			Name:     c.Name,
			QuoteIDs: append([]string{}, c.QuoteIDs...),
		})
	}

	return rec
}

// toUser converts a validated record, dropping duplicate favorites, duplicate
// members, and repeated collection ids so the result meets the domain rules.
func (r userRecord) toUser() domain.User {
	u := domain.NewUser(r.Username)
	u.Favorites = dedupe(r.Favorites)

	seen := make(map[string]struct{}, len(r.Collections))
	for _, c := range r.Collections {
		if _, dup := seen[c.ID]; dup {
			continue
		}

		seen[c.ID] = struct{}{}
		u.Collections = append(u.Collections, domain.Collection{
			ID:       c.ID,
			Name:     c.Name,
			QuoteIDs: dedupe(c.QuoteIDs),
		})
	}

	return u
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// checkRecord applies the struct tags, then the domain rules the tags cannot
// express, such as a whitespace-only username.
func checkRecord(rec userRecord) error {
	if err := validate.Struct(rec); err != nil {
		return err
	}

	if err := domain.ValidateUsername(rec.Username); err != nil {
		return err
	}

	for _, c := range rec.Collections {
		if err := domain.ValidateCollectionName(c.Name); err != nil {
			return err
		}
	}

	return nil
}

func sanitizeRecord(rec userRecord) (userRecord, error) {
	if err := checkRecord(rec); err != nil {
		return userRecord{}, err
	}

	return rec, nil
}

var (
	_ ports.UserListRepository = (*Users)(nil)
	_ ports.SessionRepository  = (*Users)(nil)
)

// Users persists the user directory and the session user as JSON documents.
// It implements ports.UserListRepository and ports.SessionRepository.
type Users struct {
	all     *Document[[]userRecord]
	current *Document[userRecord]
	logger  *slog.Logger
}

// NewUsers builds the repositories over a raw key-value store.
func NewUsers(kv ports.KeyValueStore, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "store.Users"))

	u := &Users{logger: logger}
	u.all = NewDocument(kv, KeyAllUsers, logger, WithSanitizer(u.sanitizeList))
	u.current = NewDocument(kv, KeyCurrentUser, logger, WithSanitizer(sanitizeRecord))

	return u
}

// sanitizeList drops invalid records and repeated usernames (first wins)
// instead of discarding the whole directory.
func (u *Users) sanitizeList(records []userRecord) ([]userRecord, error) {
	out := make([]userRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	var dropped []error

	for _, rec := range records {
		if err := checkRecord(rec); err != nil {
			dropped = append(dropped, err)
			continue
		}

		if _, dup := seen[rec.Username]; dup {
			dropped = append(dropped, errors.New("duplicate username "+rec.Username))
			continue
		}

		seen[rec.Username] = struct{}{}
		out = append(out, rec)
	}

	if len(dropped) > 0 {
		u.logger.Warn("dropped unreadable user records",
			slog.Int("dropped", len(dropped)),
			slog.Any("error", errors.Join(dropped...)),
		)
	}

	return out, nil
}

// LoadUsers returns every stored user in registration order.
func (u *Users) LoadUsers(ctx context.Context) []domain.User {
	records, ok := u.all.Read(ctx)
	if !ok {
		return []domain.User{}
	}

	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.toUser())
	}

	return users
}

// SaveUsers replaces the stored directory.
func (u *Users) SaveUsers(ctx context.Context, users []domain.User) error {
	records := make([]userRecord, 0, len(users))
	for _, user := range users {
		records = append(records, recordFromUser(user))
	}

	return u.all.Write(ctx, records)
}

// LoadCurrent returns the stored session user, if any.
func (u *Users) LoadCurrent(ctx context.Context) (domain.User, bool) {
	rec, ok := u.current.Read(ctx)
	if !ok {
		return domain.User{}, false
	}

	return rec.toUser(), true
}

// SaveCurrent stores user as the session user.
func (u *Users) SaveCurrent(ctx context.Context, user domain.User) error {
	return u.current.Write(ctx, recordFromUser(user))
}

// ClearCurrent removes the stored session user.
func (u *Users) ClearCurrent(ctx context.Context) error {
	return u.current.Remove(ctx)
}
