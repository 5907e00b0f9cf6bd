package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsStagesInOrder(t *testing.T) {
	var trace []ExecutionStep

	op := Operation[int, int, int, string]{
		Name: "double",
		Validate: func(context.Context, int) error {
			trace = append(trace, StepValidate)
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			trace = append(trace, StepPerform)
			return in * 2, nil
		},
		Verify: func(_ context.Context, _ int, p int) (int, error) {
			trace = append(trace, StepVerify)
			return p + 1, nil
		},
		Archive: func(context.Context, int, int) error {
			trace = append(trace, StepArchive)
			return nil
		},
		Respond: func(_ context.Context, _ int, v int) (string, error) {
			trace = append(trace, StepRespond)
			if v != 7 {
				return "", errors.New("unexpected verified value")
			}

			return "seven", nil
		},
	}

	got, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 3)

	require.NoError(t, err)
	assert.Equal(t, "seven", got)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, trace)
}

func TestExecute_StopsAtFailingStage(t *testing.T) {
	cause := errors.New("nope")

	tests := []struct {
		name     string
		failAt   ExecutionStep
		archived bool
	}{
		{name: "validate", failAt: StepValidate},
		{name: "perform", failAt: StepPerform},
		{name: "verify", failAt: StepVerify},
		{name: "archive", failAt: StepArchive},
		{name: "respond", failAt: StepRespond, archived: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archived := false
			failOn := func(step ExecutionStep) error {
				if step == tt.failAt {
					return cause
				}

				return nil
			}

			op := Operation[struct{}, struct{}, struct{}, struct{}]{
				Name:     "probe",
				Validate: func(context.Context, struct{}) error { return failOn(StepValidate) },
				Perform: func(context.Context, struct{}) (struct{}, error) {
					return struct{}{}, failOn(StepPerform)
				},
				Verify: func(context.Context, struct{}, struct{}) (struct{}, error) {
					return struct{}{}, failOn(StepVerify)
				},
				Archive: func(context.Context, struct{}, struct{}) error {
					if err := failOn(StepArchive); err != nil {
						return err
					}

					archived = true

					return nil
				},
				Respond: func(context.Context, struct{}, struct{}) (struct{}, error) {
					return struct{}{}, failOn(StepRespond)
				},
			}

			_, err := Execute(context.Background(), NewExecutor(discardLogger()), op, struct{}{})

			require.ErrorIs(t, err, cause)

			step, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, tt.failAt, step)
			assert.Equal(t, tt.archived, archived)
			assert.Contains(t, err.Error(), "probe: "+string(tt.failAt)+" failed")
		})
	}
}

func TestExecute_NilStagesAreSkipped(t *testing.T) {
	op := Operation[string, string, string, string]{Name: "empty"}

	got, err := Execute(context.Background(), NewExecutor(nil), op, "in")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetExecutionStep_PlainError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))
	assert.False(t, ok)
}

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveOperation(operation, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, operation+":"+outcome)
}

func TestExecute_ReportsOutcomes(t *testing.T) {
	obs := &recordingObserver{}
	exec := NewExecutor(discardLogger(), WithObserver(obs))

	ok := Operation[int, int, int, int]{Name: "ok"}
	bad := Operation[int, int, int, int]{
		Name:   "bad",
		Verify: func(context.Context, int, int) (int, error) { return 0, errors.New("broken") },
	}

	_, err := Execute(context.Background(), exec, ok, 1)
	require.NoError(t, err)

	_, err = Execute(context.Background(), exec, bad, 1)
	require.Error(t, err)

	assert.Equal(t, []string{"ok:ok", "bad:verify"}, obs.outcomes)
}
