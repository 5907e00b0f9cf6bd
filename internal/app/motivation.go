package app

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// MotivationService asks the AI collaborator for speeches, one at a time.
// It never reads or writes personalization state.
type MotivationService struct {
	generator ports.MotivationGenerator
	flags     ports.FeatureFlags
	timeout   time.Duration
	loading   atomic.Bool
	logger    *slog.Logger
}

// NewMotivationService creates the service. A zero timeout leaves the
// caller's deadline in charge; nil flags enable the feature.
func NewMotivationService(
	generator ports.MotivationGenerator,
	flags ports.FeatureFlags,
	timeout time.Duration,
	logger *slog.Logger,
) *MotivationService {
	if generator == nil {
		panic("app: NewMotivationService requires a generator")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MotivationService{
		generator: generator,
		flags:     flags,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "app.MotivationService")),
	}
}

// Loading reports whether a generation is in flight.
func (s *MotivationService) Loading() bool {
	return s.loading.Load()
}

// Generate returns a speech about topic. A call made while another is in
// flight fails with a conflict instead of queueing.
func (s *MotivationService) Generate(ctx context.Context, topic string) (domain.Motivation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.Motivation{}, domain.NewValidationError("topic", "must not be blank")
	}

	if s.flags != nil && !s.flags.IsEnabled(ctx, ports.FlagMotivation, true) {
		return domain.Motivation{}, domain.NewUnavailableError("motivation", "feature disabled")
	}

	if !s.loading.CompareAndSwap(false, true) {
		return domain.Motivation{}, domain.NewConflictError("motivation", "generation already in progress")
	}
	defer s.loading.Store(false)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)

		defer cancel()
	}

	logger := logging.FromContextOr(ctx, s.logger)
	start := time.Now()

	m, err := s.generator.GenerateMotivation(ctx, topic)
	if err != nil {
		logger.ErrorContext(ctx, "motivation generation failed",
			slog.String("topic", topic),
			slog.Any("error", err),
		)

		if !domain.IsUnavailable(err) {
			return domain.Motivation{}, domain.NewUnavailableError("motivation", err.Error())
		}

		return domain.Motivation{}, err
	}

	logger.InfoContext(ctx, "motivation generated",
		slog.String("topic", topic),
		slog.Duration("duration", time.Since(start)),
	)

	return m, nil
}
