package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/teamyoo/atomic-router/internal/config"
	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/router"
	"go.uber.org/zap"
)

// Worker consumes routing requests from a Redis stream and publishes
// RouteResults.
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	router        *router.Router
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a worker bound to the configured streams.
func NewWorker(cfg *config.Config, redisClient *redis.Client, r *router.Router, logger *zap.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		router:        r,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start creates the consumer group and begins processing.
func (w *Worker) Start() error {
	w.logger.Info("starting router worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	go w.processWork()

	w.logger.Info("router worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker gracefully.
func (w *Worker) Stop() error {
	w.logger.Info("stopping router worker", zap.String("worker_id", w.id))

	w.cancel()

	// Give any in-flight route a moment to finish.
	time.Sleep(2 * time.Second)

	w.logger.Info("router worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist.
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP means the group already exists, which is fine.
		if err.Error() == "BUSYGROUP Consumer Group name already exists" {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork reads requests one at a time. Count stays at 1: the router
// owns a single shared model handle and cannot serve concurrent requests.
func (w *Worker) processWork() {
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					continue
				}
				w.logger.Error("failed to read from stream", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// RouteRequest is one unit of routing work.
type RouteRequest struct {
	RequestID string           `json:"request_id"`
	Messages  []domain.Message `json:"messages"`
	Tools     []domain.Tool    `json:"tools"`
}

// handleMessage routes a single request message.
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing routing request",
		zap.String("message_id", messageID),
	)

	request, err := w.parseRouteRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse route request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.publishError(messageID, err)
		w.acknowledgeMessage(messageID)
		return
	}

	result := w.router.Route(w.ctx, request.Messages, request.Tools)

	if err := w.publishResult(request, result); err != nil {
		w.logger.Error("failed to publish route result",
			zap.String("message_id", messageID),
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
	}

	w.acknowledgeMessage(messageID)
}

// parseRouteRequest parses a route request from a Redis message and assigns
// a request id when the producer supplied none.
func (w *Worker) parseRouteRequest(values map[string]interface{}) (*RouteRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request RouteRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route request: %w", err)
	}

	if len(request.Messages) == 0 {
		return nil, fmt.Errorf("route request has no messages")
	}
	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}
	return &request, nil
}

// publishResult publishes the RouteResult to the result stream.
func (w *Worker) publishResult(request *RouteRequest, result domain.RouteResult) error {
	payload := map[string]interface{}{
		"request_id":     request.RequestID,
		"function_calls": result.FunctionCalls,
		"total_time_ms":  result.TotalTimeMs,
		"source":         result.Source,
		"confidence":     result.Confidence,
		"timestamp":      time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal route result: %w", err)
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Info("published route result",
		zap.String("request_id", request.RequestID),
		zap.String("source", result.Source),
		zap.Int("calls", len(result.FunctionCalls)),
	)
	return nil
}

// publishError reports an unprocessable message on the error stream.
func (w *Worker) publishError(messageID string, cause error) {
	payload := map[string]interface{}{
		"message_id": messageID,
		"error":      cause.Error(),
		"timestamp":  time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error("failed to marshal error event", zap.Error(err))
		return
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream + ".errors",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		w.logger.Error("failed to publish error event", zap.Error(err))
	}
}

// acknowledgeMessage acknowledges a message from the stream.
func (w *Worker) acknowledgeMessage(messageID string) {
	err := w.redisClient.XAck(w.ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
