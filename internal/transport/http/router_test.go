package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmint/internal/identity"
	"tourmint/internal/platform/health"
	"tourmint/pkg/requestcontext"
)

type whoAmI struct{}

func (whoAmI) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestcontext.Caller(r.Context()).String()))
	})
}

type opsPing struct{}

func (opsPing) RegisterOps(r chi.Router) {
	r.Get("/ops/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestRouter(t *testing.T) (http.Handler, *identity.Service) {
	t.Helper()
	tokens := identity.NewService("router-test-key", identity.DefaultIssuer, time.Minute)
	return NewRouter(Config{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens:        tokens,
		AdminAPIToken: "ops",
		Health:        health.New("test", nil),
		Public:        []RouteRegistrar{whoAmI{}},
		Ops:           []OpsRegistrar{opsPing{}},
	}), tokens
}

func TestRouterAuthentication(t *testing.T) {
	router, tokens := newTestRouter(t)
	token, err := tokens.IssueToken(context.Background(), "ST1MUSEUM")
	require.NoError(t, err)

	t.Run("bearer token sets caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ST1MUSEUM", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("caller token does not open ops routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ops/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token opens ops routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ops/ping", nil)
		req.Header.Set("X-Admin-Token", "ops")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouterOpenRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/health/live", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
