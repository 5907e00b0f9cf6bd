package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen/inspirehub/internal/app/txn"
	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
)

// maxIDAttempts bounds the collision retry loop of collection id generation.
const maxIDAttempts = 8

// PersonalizationService mutates the current user's favorites and
// collections.
//
// Each mutation writes the new user to the directory first and to the
// session second, as one step under the session lock. A storage failure in
// the middle is returned to the caller and not rolled back.
type PersonalizationService struct {
	session   *Session
	directory *Directory
	corpus    []domain.Quote
	exec      *Executor
	newID     func() string
	logger    *slog.Logger
}

// PersonalizationConfig holds the service dependencies.
type PersonalizationConfig struct {
	Session   *Session
	Directory *Directory
	Corpus    []domain.Quote
	Logger    *slog.Logger

	// NewID generates collection ids. Defaults to random UUIDs.
	NewID func() string

	// Observer, when set, receives every mutation outcome.
	Observer OperationObserver
}

// NewPersonalizationService creates the mutation engine.
func NewPersonalizationService(cfg PersonalizationConfig) *PersonalizationService {
	if cfg.Session == nil || cfg.Directory == nil {
		panic("app: NewPersonalizationService requires a session and a directory")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.PersonalizationService"))

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var opts []ExecutorOption
	if cfg.Observer != nil {
		opts = append(opts, WithObserver(cfg.Observer))
	}

	return &PersonalizationService{
		session:   cfg.Session,
		directory: cfg.Directory,
		corpus:    cfg.Corpus,
		exec:      NewExecutor(logger, opts...),
		newID:     newID,
		logger:    logger,
	}
}

// mutation is the performed value of a personalization operation.
type mutation struct {
	before domain.User
	after  domain.User
	output domain.Collection
}

// mutate runs a personalization operation through the executor under the
// session lock. apply computes the new user from the current one.
func (s *PersonalizationService) mutate(
	ctx context.Context,
	name string,
	validate func() error,
	apply func(current domain.User) (domain.User, domain.Collection, error),
) (domain.User, domain.Collection, error) {
	var (
		out  mutation
		user domain.User
	)

	err := s.session.exclusive(func() error {
		op := Operation[struct{}, mutation, mutation, mutation]{
			Name: name,
			Validate: func(context.Context, struct{}) error {
				current, ok := s.session.currentLocked()
				if !ok {
					return domain.NewUnauthenticatedError(name)
				}

				user = current
				if validate != nil {
					return validate()
				}

				return nil
			},
			Perform: func(context.Context, struct{}) (mutation, error) {
				after, coll, err := apply(user)
				if err != nil {
					return mutation{}, err
				}

				return mutation{before: user, after: after, output: coll}, nil
			},
			Verify: func(ctx context.Context, _ struct{}, m mutation) (mutation, error) {
				if m.after.Username != m.before.Username {
					return mutation{}, domain.NewValidationError("username", "cannot change")
				}

				// The directory upsert is a no-op for unknown users, which would
				// leave only the session copy changed.
				if _, ok := s.directory.FindByUsername(ctx, m.after.Username); !ok {
					return mutation{}, domain.NewNotFoundError("user", m.after.Username)
				}

				return m, m.after.CheckInvariants()
			},
			Archive: func(ctx context.Context, _ struct{}, m mutation) error {
				ws := txn.New()

				if err := ws.Stage(txn.NewAction("upsert directory entry", func(ctx context.Context) error {
					return s.directory.Upsert(ctx, m.after)
				})); err != nil {
					return err
				}

				if err := ws.Stage(txn.NewAction("persist session user", func(ctx context.Context) error {
					return s.session.replaceLocked(ctx, m.after)
				})); err != nil {
					return err
				}

				return ws.Commit(ctx)
			},
			Respond: func(_ context.Context, _ struct{}, m mutation) (mutation, error) {
				return m, nil
			},
		}

		var err error
		out, err = Execute(ctx, s.exec, op, struct{}{})

		return err
	})
	if err != nil {
		return domain.User{}, domain.Collection{}, err
	}

	return out.after.Clone(), out.output, nil
}

// ToggleFavorite removes quoteID from the favorites if present, otherwise
// appends it.
func (s *PersonalizationService) ToggleFavorite(ctx context.Context, quoteID string) (domain.User, error) {
	user, _, err := s.mutate(ctx, "toggle favorite", nil,
		func(current domain.User) (domain.User, domain.Collection, error) {
			return current.WithFavoriteToggled(quoteID), domain.Collection{}, nil
		})
	if err != nil {
		return domain.User{}, err
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "favorite toggled",
		slog.String("quote_id", quoteID),
		slog.Bool("favorite", user.HasFavorite(quoteID)),
	)

	return user, nil
}

// CreateCollection adds a collection named name holding initialQuoteID.
// Blank names are rejected and leave the collections unchanged.
func (s *PersonalizationService) CreateCollection(
	ctx context.Context,
	name, initialQuoteID string,
) (domain.User, domain.Collection, error) {
	user, coll, err := s.mutate(ctx, "create collection",
		func() error { return domain.ValidateCollectionName(name) },
		func(current domain.User) (domain.User, domain.Collection, error) {
			id, err := s.freshCollectionID(current)
			if err != nil {
				return domain.User{}, domain.Collection{}, err
			}

			coll := domain.Collection{ID: id, Name: name, QuoteIDs: []string{initialQuoteID}}

			return current.WithCollection(coll), coll, nil
		})
	if err != nil {
		return domain.User{}, domain.Collection{}, err
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "collection created",
		slog.String("collection_id", coll.ID))

	return user, coll, nil
}

// AddToCollection adds quoteID to the collection. An unknown collection or
// an existing member changes nothing, but the user is persisted either way.
func (s *PersonalizationService) AddToCollection(ctx context.Context, collectionID, quoteID string) (domain.User, error) {
	user, _, err := s.mutate(ctx, "add to collection", nil,
		func(current domain.User) (domain.User, domain.Collection, error) {
			return current.WithQuoteInCollection(collectionID, quoteID), domain.Collection{}, nil
		})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Favorites resolves the current user's favorites against the corpus in
// favorites order. Ids missing from the corpus are skipped.
func (s *PersonalizationService) Favorites(ctx context.Context) ([]domain.Quote, error) {
	user, ok := s.session.Current()
	if !ok {
		return nil, domain.NewUnauthenticatedError("list favorites")
	}

	byID := make(map[string]domain.Quote, len(s.corpus))
	for _, q := range s.corpus {
		byID[q.ID] = q
	}

	quotes := make([]domain.Quote, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if q, ok := byID[id]; ok {
			quotes = append(quotes, q)
		}
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "favorites resolved", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Collections returns the current user's collections.
func (s *PersonalizationService) Collections(context.Context) ([]domain.Collection, error) {
	user, ok := s.session.Current()
	if !ok {
		return nil, domain.NewUnauthenticatedError("list collections")
	}

	return user.Collections, nil
}

// freshCollectionID returns an id not used by any of user's collections.
func (s *PersonalizationService) freshCollectionID(user domain.User) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if _, taken := user.FindCollection(id); !taken && id != "" {
			return id, nil
		}
	}

	return "", domain.NewConflictError("collection", "could not generate a unique id")
}
