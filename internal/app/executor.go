package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
)

// Every personalization mutation runs Validate → Perform → Verify → Archive →
// Respond. Nothing is written until the new user value has been computed and
// checked, and the caller only sees success once Archive has persisted it.

// ExecutionStep names a stage of an operation.
type ExecutionStep string

// Operation stages.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the stage an operation failed in.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Step, e.Cause)
}

// Unwrap returns the cause so domain error checks see through the wrapper.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep extracts the failing step from err.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// OperationObserver receives the outcome of every executed operation: "ok"
// or the name of the failing step.
type OperationObserver interface {
	ObserveOperation(operation, outcome string, d time.Duration)
}

// OutcomeOK is the observed outcome of a successful operation.
const OutcomeOK = "ok"

// Executor runs operations with step-level logging.
type Executor struct {
	logger   *slog.Logger
	observer OperationObserver
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithObserver reports every operation outcome to o.
func WithObserver(o OperationObserver) ExecutorOption {
	return func(e *Executor) {
		e.observer = o
	}
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger, opts ...ExecutorOption) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	exec := &Executor{logger: logger}
	for _, opt := range opts {
		opt(exec)
	}

	return exec
}

func (exec *Executor) observe(operation, outcome string, start time.Time) {
	if exec.observer != nil {
		exec.observer.ObserveOperation(operation, outcome, time.Since(start))
	}
}

// Operation describes one mutation. Nil stages are skipped and leave their
// output at the zero value.
type Operation[I, P, V, O any] struct {
	Name     string
	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op against input.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) (O, error) {
		level := slog.LevelError
		if step == StepValidate {
			level = slog.LevelInfo
		}

		logger.Log(ctx, level, "operation step failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		exec.observe(op.Name, string(step), start)

		return zero, &ExecutionError{Operation: op.Name, Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	var performed P
	if op.Perform != nil {
		var err error
		if performed, err = op.Perform(ctx, input); err != nil {
			return fail(StepPerform, err)
		}
	}

	var verified V
	if op.Verify != nil {
		var err error
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			return fail(StepArchive, err)
		}
	}

	var result O
	if op.Respond != nil {
		var err error
		if result, err = op.Respond(ctx, input, verified); err != nil {
			return fail(StepRespond, err)
		}
	}

	exec.observe(op.Name, OutcomeOK, start)
	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}
