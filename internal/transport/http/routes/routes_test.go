package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/infra/config"
	httproutes "github.com/ayatech/muslim-companion-api/internal/transport/http/routes"
)

func newTestRouter(deps httproutes.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.Config == nil {
		deps.Config = &config.AppConfig{App: config.AppSettings{Env: "test"}}
	}
	if deps.Logger == nil {
		deps.Logger, _ = zap.NewDevelopment()
	}
	return httproutes.Register(deps)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

type failingChecker struct{}

func (failingChecker) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	r := newTestRouter(httproutes.Dependencies{
		Database: failingChecker{},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestAdminRoutesRequireAuthentication(t *testing.T) {
	r := newTestRouter(httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/cache/stats", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	r := newTestRouter(httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
