// Package flags provides feature toggles backed by configuration.
package flags

import (
	"context"
	"maps"
	"sync"
)

// Static evaluates flags from a fixed map, typically config.Features.
// Set allows runtime overrides and is safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewStatic copies values so later changes to the source map are not seen.
func NewStatic(values map[string]bool) *Static {
	s := &Static{flags: make(map[string]bool, len(values))}
	maps.Copy(s.flags, values)

	return s
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.flags[flag]; ok {
		return v
	}

	return defaultValue
}

// Set overrides a single flag.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[flag] = enabled
}

// Snapshot returns a copy of the explicitly configured flags.
func (s *Static) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.flags)
}
