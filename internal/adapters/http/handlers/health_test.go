package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/inspirehub/internal/mocks"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, "2024-01-15T10:00:00Z", bi.BuildTime)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func healthEngine(t *testing.T, checkers ...ports.HealthChecker) (*gin.Engine, *prometheus.Registry) {
	t.Helper()

	registry := ports.NewHealthRegistry()
	for _, c := range checkers {
		require.NoError(t, registry.Register(c))
	}

	metrics := prometheus.NewRegistry()

	engine := gin.New()
	NewHealthHandler(registry, NewBuildInfo("1.0.0", "abc123", "now"), metrics).Register(engine)

	return engine, metrics
}

func checker(t *testing.T, name string, err error) *mocks.MockHealthChecker {
	t.Helper()

	m := mocks.NewMockHealthChecker(t)
	m.EXPECT().Name().Return(name).Maybe()
	m.EXPECT().Check(mock.Anything).Return(err).Maybe()

	return m
}

func TestHealthHandler_Liveness(t *testing.T) {
	engine, _ := healthEngine(t)

	w := perform(engine, http.MethodGet, "/-/live", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp livenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		status   int
		body     string
	}{
		{"store healthy", nil, http.StatusOK, `"status":"healthy"`},
		{"store failing", errors.New("database is locked"), http.StatusServiceUnavailable, "database is locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := healthEngine(t, checker(t, "store", tt.checkErr))

			w := perform(engine, http.MethodGet, "/-/ready", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.Contains(t, w.Body.String(), `"store"`)
		})
	}
}

func TestHealthHandler_Readiness_NoCheckers(t *testing.T) {
	engine, _ := healthEngine(t)

	w := perform(engine, http.MethodGet, "/-/ready", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "checks")
}

func TestHealthHandler_Build(t *testing.T) {
	engine, _ := healthEngine(t)

	w := perform(engine, http.MethodGet, "/-/build", "")

	require.Equal(t, http.StatusOK, w.Code)

	var bi BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bi))
	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
}

func TestHealthHandler_Metrics(t *testing.T) {
	engine, metrics := healthEngine(t)

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "inspirehub_test_total", Help: "test"})
	metrics.MustRegister(counter)
	counter.Inc()

	w := perform(engine, http.MethodGet, "/-/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "inspirehub_test_total 1")
}
