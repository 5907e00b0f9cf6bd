package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))

	p, err = New(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
}

func TestProvider_ShutdownReverseOrder(t *testing.T) {
	var order []string

	record := func(name string, err error) namedShutdown {
		return namedShutdown{name: name, fn: func(context.Context) error {
			order = append(order, name)
			return err
		}}
	}

	p := &Provider{shutdowns: []namedShutdown{
		record("tracer provider", nil),
		record("meter provider", errors.New("flush failed")),
	}}
	require.True(t, p.Enabled())

	err := p.Shutdown(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutting down meter provider: flush failed")
	assert.Equal(t, []string{"meter provider", "tracer provider"}, order)
	assert.False(t, p.Enabled(), "a second shutdown is a no-op")
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestOperationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewOperationMetrics(reg)
	require.NoError(t, err)

	m.ObserveOperation("toggle favorite", "ok", 2*time.Millisecond)
	m.ObserveOperation("toggle favorite", "archive", time.Millisecond)
	m.ObserveOperation("create collection", "ok", time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.total.WithLabelValues("toggle favorite", "archive")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.total.WithLabelValues("create collection", "ok")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	again, err := NewOperationMetrics(reg)
	require.NoError(t, err, "re-registering reuses collectors")
	again.ObserveOperation("toggle favorite", "ok", time.Millisecond)
	assert.InDelta(t, 2, testutil.ToFloat64(m.total.WithLabelValues("toggle favorite", "ok")), 0)
}

func TestMiddleware_ServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Middleware("inspirehub-test")...)
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
