package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// Session tracks at most one current user for the process.
//
// The session holds its own copy of the user, separate from the directory's.
// All session and personalization operations are serialized through mu, so
// no caller ever observes a mutation half applied.
type Session struct {
	mu      sync.Mutex
	current *domain.User

	repo      ports.SessionRepository
	directory *Directory
	logger    *slog.Logger
}

// NewSession creates a session with no current user. Call Restore to load
// the persisted one.
func NewSession(repo ports.SessionRepository, directory *Directory, logger *slog.Logger) *Session {
	if repo == nil || directory == nil {
		panic("app: NewSession requires a repository and a directory")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		repo:      repo,
		directory: directory,
		logger:    logger.With(slog.String("component", "app.Session")),
	}
}

// Restore loads the persisted session user. A missing or malformed record
// leaves the session empty, as does a user the directory no longer holds;
// that orphaned record is also removed. The persisted copy is kept as is
// when the directory entry differs from it.
func (s *Session) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	user, ok := s.repo.LoadCurrent(ctx)
	if !ok {
		s.logger.DebugContext(ctx, "no session to restore")

		return
	}

	entry, ok := s.directory.FindByUsername(ctx, user.Username)
	if !ok {
		s.logger.WarnContext(ctx, "discarding session for unknown user", slog.String("username", user.Username))

		if err := s.repo.ClearCurrent(ctx); err != nil {
			s.logger.WarnContext(ctx, "clearing orphaned session", slog.Any("error", err))
		}

		return
	}

	if !entry.Equal(user) {
		s.logger.WarnContext(ctx, "session user differs from directory entry", slog.String("username", user.Username))
	}

	s.current = &user
	s.logger.InfoContext(ctx, "session restored", slog.String("username", user.Username))
}

// Login makes the directory user named username current.
func (s *Session) Login(ctx context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.directory.FindByUsername(ctx, username)
	if !ok {
		return domain.User{}, domain.NewNotFoundError("user", username)
	}

	if err := s.replaceLocked(ctx, user); err != nil {
		return domain.User{}, err
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "logged in", slog.String("username", username))

	return user.Clone(), nil
}

// Register creates a directory user and makes it current. On failure the
// session is left as it was.
func (s *Session) Register(ctx context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.directory.Register(ctx, username)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.replaceLocked(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user.Clone(), nil
}

// Logout clears the current user and the persisted session. Logging out
// without a session is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	username := s.current.Username
	s.current = nil

	if err := s.repo.ClearCurrent(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "logged out", slog.String("username", username))

	return nil
}

// Current returns a copy of the active user.
func (s *Session) Current() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentLocked()
}

// exclusive runs fn while holding the session lock.
func (s *Session) exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn()
}

func (s *Session) currentLocked() (domain.User, bool) {
	if s.current == nil {
		return domain.User{}, false
	}

	return s.current.Clone(), true
}

// replaceLocked sets user as current, then persists it.
func (s *Session) replaceLocked(ctx context.Context, user domain.User) error {
	u := user.Clone()
	s.current = &u

	if err := s.repo.SaveCurrent(ctx, u); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	return nil
}
