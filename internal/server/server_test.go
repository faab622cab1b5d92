package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/localmodel"
	"github.com/teamyoo/atomic-router/internal/router"
	"go.uber.org/zap"
)

// stubModel always answers with the same runtime envelope.
type stubModel struct {
	raw string
}

func (s *stubModel) Fresh(ctx context.Context) error { return nil }
func (s *stubModel) Reset(ctx context.Context) error { return nil }
func (s *stubModel) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts localmodel.Options) (string, error) {
	return s.raw, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	model := &stubModel{
		raw: `{"success": true, "function_calls": [{"name": "set_alarm", "arguments": {"hour": 6, "minute": 30}}], "total_time_ms": 40, "confidence": 0.9}`,
	}
	r := router.New(model, nil, router.Config{
		AcceptConfidence:    0.3,
		LocalTimeout:        5 * time.Second,
		CloudTimeout:        5 * time.Second,
		LocalMaxTokens:      256,
		LocalSystemTemplate: "system",
		CloudSystemTemplate: "system",
	}, zap.NewNop())

	return New(r, 0, zap.NewNop())
}

func TestHandleRoute(t *testing.T) {
	srv := testServer(t)

	t.Run("query shorthand with default tools", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route",
			strings.NewReader(`{"query": "Set an alarm for 6:30 am"}`))
		srv.server.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp RouteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.RequestID)
		assert.Equal(t, 1, resp.NumCalls)
		require.Len(t, resp.FunctionCalls, 1)
		assert.Equal(t, "set_alarm", resp.FunctionCalls[0].Name)
		assert.Equal(t, domain.SourceOnDevice, resp.Source)
		assert.Equal(t, 1.0, resp.Confidence)
		assert.GreaterOrEqual(t, resp.WallTimeMs, 0.0)
	})

	t.Run("explicit messages win over query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route",
			strings.NewReader(`{"query": "ignored", "messages": [{"role": "user", "content": "Set an alarm for 6:30 am"}]}`))
		srv.server.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp RouteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.NumCalls)
	})

	t.Run("request id header propagates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route",
			strings.NewReader(`{"query": "Set an alarm for 6:30 am"}`))
		req.Header.Set("X-Request-ID", "req-42")
		srv.server.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

		var resp RouteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "req-42", resp.RequestID)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(`{"query": "  "}`))
		srv.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(`{not json`))
		srv.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealthz(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
