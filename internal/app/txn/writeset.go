package txn

import (
	"context"
	"sync"
)

// Action is one staged write.
type Action interface {
	// Execute applies the write.
	Execute(ctx context.Context) error

	// Description names the write for logs and errors.
	Description() string
}

type funcAction struct {
	desc string
	fn   func(ctx context.Context) error
}

func (a funcAction) Execute(ctx context.Context) error { return a.fn(ctx) }
func (a funcAction) Description() string               { return a.desc }

// NewAction adapts a function into an Action.
func NewAction(description string, fn func(ctx context.Context) error) Action {
	return funcAction{desc: description, fn: fn}
}

// WriteSet collects actions and applies them in staging order.
type WriteSet struct {
	mu        sync.Mutex
	actions   []Action
	committed bool
}

// New returns an empty write set.
func New() *WriteSet {
	return &WriteSet{}
}

// Stage appends an action.
func (ws *WriteSet) Stage(action Action) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.committed {
		return ErrAlreadyCommitted
	}

	ws.actions = append(ws.actions, action)

	return nil
}

// Commit executes the staged actions in order and stops at the first error,
// which is returned as a *CommitError. The set is spent afterwards whether
// or not every action succeeded.
func (ws *WriteSet) Commit(ctx context.Context) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.committed {
		return ErrAlreadyCommitted
	}

	ws.committed = true

	applied := make([]string, 0, len(ws.actions))
	for _, action := range ws.actions {
		if err := ctx.Err(); err != nil {
			return &CommitError{Failed: action.Description(), Applied: applied, Cause: err}
		}

		if err := action.Execute(ctx); err != nil {
			return &CommitError{Failed: action.Description(), Applied: applied, Cause: err}
		}

		applied = append(applied, action.Description())
	}

	return nil
}

// Actions returns a copy of the staged actions.
func (ws *WriteSet) Actions() []Action {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	return append([]Action(nil), ws.actions...)
}
