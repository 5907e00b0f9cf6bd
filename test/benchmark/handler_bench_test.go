package benchmark

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/inspirehub/internal/adapters/corpus"
	httpadapter "github.com/jsamuelsen/inspirehub/internal/adapters/http"
	"github.com/jsamuelsen/inspirehub/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inspirehub/internal/adapters/store"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r

	return c
}

func mustQuotes(b *testing.B) []domain.Quote {
	b.Helper()

	quotes, err := corpus.Default()
	if err != nil {
		b.Fatal(err)
	}

	return quotes
}

// setupHealthHandler creates a HealthHandler with the memory store registered.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(store.NewMemory())

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")

	return handlers.NewHealthHandler(registry, buildInfo, prometheus.NewRegistry())
}

// BenchmarkLivenessHandler measures the liveness probe, which should be
// nearly free.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.Liveness(createGinContext(w, req))
	}
}

// BenchmarkReadinessHandler measures readiness including the store check.
func BenchmarkReadinessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.Readiness(createGinContext(w, req))
	}
}

// BenchmarkQuoteOfTheDay measures the daily pick.
func BenchmarkQuoteOfTheDay(b *testing.B) {
	quotes := mustQuotes(b)
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = app.QuoteOfTheDay(quotes, day.AddDate(0, 0, i%365))
	}
}

// BenchmarkFilterQuotes measures search with a category filter and a term.
func BenchmarkFilterQuotes(b *testing.B) {
	quotes := mustQuotes(b)
	filter := domain.FilterByCategory(domain.CategorySuccess)

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = app.FilterQuotes(quotes, filter, "courage", nil)
	}
}

// BenchmarkToggleFavorite measures a full mutation: directory write,
// session write, both persisted to the memory store.
func BenchmarkToggleFavorite(b *testing.B) {
	quotes := mustQuotes(b)
	logger := discardLogger()
	ctx := context.Background()

	users := store.NewUsers(store.NewMemory(), logger)
	directory := app.NewDirectory(users, logger)
	session := app.NewSession(users, directory, logger)

	if _, err := session.Register(ctx, "bench"); err != nil {
		b.Fatal(err)
	}

	engine := app.NewPersonalizationService(app.PersonalizationConfig{
		Session:   session,
		Directory: directory,
		Corpus:    quotes,
		Logger:    logger,
	})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := engine.ToggleFavorite(ctx, strconv.Itoa(i%len(quotes)+1)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMiddlewareChain_Full measures GET /api/v1/quotes through the
// complete middleware chain.
func BenchmarkMiddlewareChain_Full(b *testing.B) {
	quotes := mustQuotes(b)
	logger := discardLogger()

	users := store.NewUsers(store.NewMemory(), logger)
	session := app.NewSession(users, app.NewDirectory(users, logger), logger)

	router := gin.New()
	httpadapter.SetupRouter(router, httpadapter.RouterConfig{
		Logger:      logger,
		ServiceName: "bench",
		Timeout:     time.Second,
		Catalog:     handlers.NewCatalogHandler(app.NewCatalogService(quotes, session, nil, logger)),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes?q=the", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}
