package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recording(log *[]string, name string, err error) Action {
	return NewAction(name, func(context.Context) error {
		*log = append(*log, name)
		return err
	})
}

func TestWriteSet_CommitRunsInOrder(t *testing.T) {
	var log []string
	ws := New()

	require.NoError(t, ws.Stage(recording(&log, "directory", nil)))
	require.NoError(t, ws.Stage(recording(&log, "session", nil)))

	require.NoError(t, ws.Commit(context.Background()))
	assert.Equal(t, []string{"directory", "session"}, log)
}

func TestWriteSet_StopsAtFirstFailureWithoutRollback(t *testing.T) {
	var log []string
	cause := errors.New("disk full")
	ws := New()

	require.NoError(t, ws.Stage(recording(&log, "directory", nil)))
	require.NoError(t, ws.Stage(recording(&log, "session", cause)))
	require.NoError(t, ws.Stage(recording(&log, "never", nil)))

	err := ws.Commit(context.Background())

	require.ErrorIs(t, err, cause)

	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, "session", commitErr.Failed)
	assert.Equal(t, []string{"directory"}, commitErr.Applied)
	assert.True(t, commitErr.Partial())
	assert.Equal(t, []string{"directory", "session"}, log)
	assert.Contains(t, err.Error(), `action "session" failed after [directory]`)
}

func TestWriteSet_FirstActionFailureIsNotPartial(t *testing.T) {
	var log []string
	ws := New()
	require.NoError(t, ws.Stage(recording(&log, "directory", errors.New("boom"))))

	err := ws.Commit(context.Background())

	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.False(t, commitErr.Partial())
	assert.Equal(t, `action "directory" failed: boom`, err.Error())
}

func TestWriteSet_SingleUse(t *testing.T) {
	var log []string
	ws := New()
	require.NoError(t, ws.Stage(recording(&log, "a", nil)))
	require.NoError(t, ws.Commit(context.Background()))

	require.ErrorIs(t, ws.Commit(context.Background()), ErrAlreadyCommitted)
	require.ErrorIs(t, ws.Stage(recording(&log, "b", nil)), ErrAlreadyCommitted)
	assert.Equal(t, []string{"a"}, log)
}

func TestWriteSet_CanceledContext(t *testing.T) {
	var log []string
	ws := New()
	require.NoError(t, ws.Stage(recording(&log, "a", nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ws.Commit(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log)
}

func TestWriteSet_ActionsReturnsCopy(t *testing.T) {
	ws := New()
	require.NoError(t, ws.Stage(NewAction("a", func(context.Context) error { return nil })))

	actions := ws.Actions()
	actions[0] = nil

	require.Len(t, ws.Actions(), 1)
	assert.Equal(t, "a", ws.Actions()[0].Description())
}
