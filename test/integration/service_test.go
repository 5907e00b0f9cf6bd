//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/inspirehub/internal/adapters/clients"
	"github.com/jsamuelsen/inspirehub/internal/adapters/clients/acl"
	"github.com/jsamuelsen/inspirehub/internal/adapters/corpus"
	httpadapter "github.com/jsamuelsen/inspirehub/internal/adapters/http"
	"github.com/jsamuelsen/inspirehub/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inspirehub/internal/adapters/store"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/platform/config"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClientConfig returns a fast-failing client config for baseURL.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: acl.GeminiServiceName,
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		AuthFunc: acl.GeminiAuth("integration-key"),
		Logger:   discardLogger(),
	}
}

// geminiReply writes a generateContent response whose text is the JSON
// encoding of payload.
func geminiReply(w http.ResponseWriter, payload any) {
	text, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": string(text)}},
			}},
		},
	})
}

// newFakeGemini answers every call carrying an API key with the same speech.
func newFakeGemini() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(acl.GeminiAPIKeyHeader) == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		geminiReply(w, map[string]string{
			"title":  "Rise and Build",
			"speech": "Every morning is a fresh start.",
		})
	}))
}

// service is the whole application mounted on an httptest server.
type service struct {
	server *httptest.Server
	gemini *httptest.Server
}

func (s *service) Close() {
	s.server.Close()
	s.gemini.Close()
}

// checkedStore is a key-value store that reports its health.
type checkedStore interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// startService wires the application the way cmd/service does, over kv
// and a fake Gemini.
func startService(kv checkedStore) (*service, error) {
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	ctx := context.Background()

	quotes, err := corpus.Default()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	users := store.NewUsers(kv, logger)
	directory := app.NewDirectory(users, logger)
	session := app.NewSession(users, directory, logger)
	session.Restore(ctx)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(kv); err != nil {
		return nil, err
	}

	gemini := newFakeGemini()

	client, err := clients.New(testClientConfig(gemini.URL))
	if err != nil {
		gemini.Close()
		return nil, err
	}

	generator := acl.NewGeminiClient(acl.GeminiConfig{Client: client, Model: "gemini-test", Logger: logger})

	personalization := app.NewPersonalizationService(app.PersonalizationConfig{
		Session:   session,
		Directory: directory,
		Corpus:    quotes,
		Logger:    logger,
	})
	motivation := app.NewMotivationService(generator, nil, 5*time.Second, logger)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:      logger,
		ServiceName: "inspirehub-integration",
		Timeout:     10 * time.Second,
		CurrentUser: func() (string, bool) {
			u, ok := session.Current()
			return u.Username, ok
		},
		Health:          handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), prometheus.NewRegistry()),
		Catalog:         handlers.NewCatalogHandler(app.NewCatalogService(quotes, session, nil, logger)),
		Session:         handlers.NewSessionHandler(session),
		Personalization: handlers.NewPersonalizationHandler(personalization),
		Motivation:      handlers.NewMotivationHandler(motivation),
	})

	return &service{server: httptest.NewServer(engine), gemini: gemini}, nil
}
