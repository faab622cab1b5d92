package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamyoo/atomic-router/internal/config"
	"go.uber.org/zap"
)

func testWorker() *Worker {
	cfg := &config.Config{
		WorkerID:      "test-worker",
		StreamKey:     "route.requests",
		ConsumerGroup: "route-workers",
		ResultStream:  "route.results",
	}
	return NewWorker(cfg, nil, nil, zap.NewNop())
}

func TestParseRouteRequest(t *testing.T) {
	w := testWorker()

	t.Run("complete request", func(t *testing.T) {
		values := map[string]interface{}{
			"data": `{"request_id": "req-1", "messages": [{"role": "user", "content": "set an alarm for 7 am"}], "tools": [{"name": "set_alarm"}]}`,
		}

		req, err := w.parseRouteRequest(values)
		require.NoError(t, err)
		assert.Equal(t, "req-1", req.RequestID)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "set an alarm for 7 am", req.Messages[0].Content)
		require.Len(t, req.Tools, 1)
	})

	t.Run("missing request id gets one assigned", func(t *testing.T) {
		values := map[string]interface{}{
			"data": `{"messages": [{"role": "user", "content": "hi"}]}`,
		}

		req, err := w.parseRouteRequest(values)
		require.NoError(t, err)
		assert.NotEmpty(t, req.RequestID)
	})

	t.Run("missing data field", func(t *testing.T) {
		_, err := w.parseRouteRequest(map[string]interface{}{"other": "x"})
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := w.parseRouteRequest(map[string]interface{}{"data": "{not json"})
		assert.Error(t, err)
	})

	t.Run("no messages", func(t *testing.T) {
		_, err := w.parseRouteRequest(map[string]interface{}{"data": `{"request_id": "x"}`})
		assert.Error(t, err)
	})
}
