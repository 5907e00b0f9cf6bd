package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/inspirehub/internal/adapters/corpus"
	"github.com/jsamuelsen/inspirehub/internal/adapters/store"
	"github.com/jsamuelsen/inspirehub/internal/domain"
)

var errDiskFull = errors.New("disk full")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyKV wraps a memory store and fails writes to the keys in failSet.
type flakyKV struct {
	*store.Memory

	mu      sync.Mutex
	failSet map[string]bool
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Memory: store.NewMemory(), failSet: map[string]bool{}}
}

func (f *flakyKV) failWrites(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failSet[key] = fail
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet[key]
	f.mu.Unlock()

	if fail {
		return errDiskFull
	}

	return f.Memory.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failSet[key]
	f.mu.Unlock()

	if fail {
		return errDiskFull
	}

	return f.Memory.Delete(ctx, key)
}

type fixture struct {
	kv        *flakyKV
	repo      *store.Users
	directory *Directory
	session   *Session
	engine    *PersonalizationService
	quotes    []domain.Quote
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	quotes, err := corpus.Default()
	require.NoError(t, err)

	f := &fixture{kv: newFlakyKV(), quotes: quotes}
	f.reopen()

	return f
}

// reopen rebuilds every service over the same storage, as a restart would.
func (f *fixture) reopen() {
	logger := discardLogger()
	ids := 0

	f.repo = store.NewUsers(f.kv, logger)
	f.directory = NewDirectory(f.repo, logger)
	f.session = NewSession(f.repo, f.directory, logger)
	f.engine = NewPersonalizationService(PersonalizationConfig{
		Session:   f.session,
		Directory: f.directory,
		Corpus:    f.quotes,
		Logger:    logger,
		NewID: func() string {
			ids++
			return "c" + strconv.Itoa(ids)
		},
	})
}

func (f *fixture) signIn(t *testing.T, username string) {
	t.Helper()

	_, err := f.session.Register(context.Background(), username)
	require.NoError(t, err)
}

// requireConsistent asserts the session user equals the directory entry,
// both in memory and in storage.
func (f *fixture) requireConsistent(t *testing.T) domain.User {
	t.Helper()

	ctx := context.Background()

	current, ok := f.session.Current()
	require.True(t, ok)

	entry, ok := f.directory.FindByUsername(ctx, current.Username)
	require.True(t, ok)
	require.Equal(t, entry, current)

	persisted, ok := f.repo.LoadCurrent(ctx)
	require.True(t, ok)
	require.Equal(t, current, persisted)

	return current
}
