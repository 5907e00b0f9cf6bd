package ports

import "context"

// Feature flag names checked by the application layer.
const (
	// FlagMotivation gates the AI motivational speech feature.
	FlagMotivation = "motivation"
)

// FeatureFlags evaluates boolean feature toggles.
// Unknown flags evaluate to defaultValue.
//
//	if !flags.IsEnabled(ctx, ports.FlagMotivation, true) {
//	    return domain.Motivation{}, domain.NewUnavailableError("motivation", "feature disabled")
//	}
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
