package ports

import (
	"context"

	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// MotivationGenerator produces a motivational speech for a topic.
// Implementations wrap a generative-AI provider and report every failure
// (transport, malformed payload, empty text) as domain.ErrUnavailable.
type MotivationGenerator interface {
	// GenerateMotivation returns a titled speech about topic.
	// The implementation should respect context deadlines and cancellation.
	GenerateMotivation(ctx context.Context, topic string) (domain.Motivation, error)
}
