//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/inspirehub/internal/adapters/clients"
	"github.com/jsamuelsen/inspirehub/internal/adapters/clients/acl"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/domain"
)

func newGeminiClient(t *testing.T, cfg *clients.Config) *acl.GeminiClient {
	t.Helper()

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return acl.NewGeminiClient(acl.GeminiConfig{Client: client, Model: "gemini-test", Logger: discardLogger()})
}

// TestGemini_FullFlow verifies the request shape and response translation
// through the real HTTP client.
func TestGemini_FullFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "integration-key", r.Header.Get(acl.GeminiAPIKeyHeader))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		raw, _ := json.Marshal(body)
		assert.Contains(t, string(raw), "learning to swim")
		assert.Contains(t, string(raw), "application/json")

		geminiReply(w, map[string]string{"title": "Into the Deep End", "speech": "Breathe and kick."})
	}))
	defer server.Close()

	gen := newGeminiClient(t, testClientConfig(server.URL))

	m, err := gen.GenerateMotivation(context.Background(), "learning to swim")

	require.NoError(t, err)
	assert.Equal(t, domain.Motivation{Title: "Into the Deep End", Speech: "Breathe and kick."}, m)
}

// TestGemini_RetriesTransientFailures verifies that with retries enabled
// a 503 followed by success yields the speech.
func TestGemini_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		geminiReply(w, map[string]string{"title": "Third Time", "speech": "Lucky."})
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.Retry.MaxAttempts = 3

	m, err := newGeminiClient(t, cfg).GenerateMotivation(context.Background(), "persistence")

	require.NoError(t, err)
	assert.Equal(t, "Third Time", m.Title)
	assert.Equal(t, int32(3), attempts.Load())
}

// TestGemini_SingleAttemptByDefault verifies a failure is not retried
// with the default of one attempt.
func TestGemini_SingleAttemptByDefault(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newGeminiClient(t, testClientConfig(server.URL)).GenerateMotivation(context.Background(), "focus")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Equal(t, int32(1), attempts.Load())
}

// TestGemini_CircuitBreaker verifies repeated failures open the circuit
// and later calls fail fast without reaching the server.
func TestGemini_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.Circuit.MaxFailures = 2
	cfg.Circuit.Timeout = time.Minute

	gen := newGeminiClient(t, cfg)
	ctx := context.Background()

	for range 2 {
		_, err := gen.GenerateMotivation(ctx, "focus")
		require.Error(t, err)
	}

	assert.Equal(t, clients.StateOpen, gen.CircuitState())

	_, err := gen.GenerateMotivation(ctx, "focus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(2), calls.Load(), "an open circuit never reaches the server")
}

// TestGemini_ThroughMotivationService verifies the service timeout cuts a
// slow collaborator short and reports it as unavailable.
func TestGemini_ThroughMotivationService(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	svc := app.NewMotivationService(newGeminiClient(t, testClientConfig(server.URL)), nil, 50*time.Millisecond, discardLogger())

	start := time.Now()
	_, err := svc.Generate(context.Background(), "patience")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, svc.Loading())
}

// TestGemini_MalformedPayload verifies a non-JSON model answer is
// reported as unavailable.
func TestGemini_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"not json"}]}}]}`))
	}))
	defer server.Close()

	_, err := newGeminiClient(t, testClientConfig(server.URL)).GenerateMotivation(context.Background(), "focus")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "malformed speech payload"), err.Error())
}
