package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamsEventBus implements EventBus using Redis Streams. Each subscriber
// tails the stream on its own, so every subscriber in every process sees
// every message.
type StreamsEventBus struct {
	client       *redis.Client
	logger       *zap.Logger
	maxLen       int64
	blockTimeout time.Duration
}

// NewStreamsEventBus creates a new Redis Streams event bus. maxLen caps each
// stream approximately; zero keeps everything.
func NewStreamsEventBus(client *redis.Client, maxLen int64, logger *zap.Logger) *StreamsEventBus {
	return &StreamsEventBus{
		client:       client,
		logger:       logger,
		maxLen:       maxLen,
		blockTimeout: time.Second,
	}
}

// Publish appends a message to the topic stream
func (e *StreamsEventBus) Publish(ctx context.Context, topic string, msg ports.Message) error {
	streamKey := getStreamKey(topic)

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if e.maxLen > 0 {
		args.MaxLen = e.maxLen
		args.Approx = true
	}

	if _, err := e.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	e.logger.Debug("message published",
		zap.String("message_id", msg.ID),
		zap.String("event", msg.Event.String()),
		zap.String("session_id", msg.SessionID),
		zap.String("stream", streamKey))

	return nil
}

// Subscribe tails the topic stream from its current end until ctx is done
func (e *StreamsEventBus) Subscribe(ctx context.Context, topic string, handler ports.MessageHandler) error {
	streamKey := getStreamKey(topic)

	lastID := "0-0"
	latest, err := e.client.XRevRangeN(ctx, streamKey, "+", "-", 1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read stream tail: %w", err)
	}
	if len(latest) > 0 {
		lastID = latest[0].ID
	}

	e.logger.Info("subscribed to message stream",
		zap.String("stream", streamKey),
		zap.String("topic", topic),
		zap.String("from_id", lastID))

	go e.readStream(ctx, streamKey, lastID, handler)

	return nil
}

// readStream reads messages after lastID until ctx is cancelled
func (e *StreamsEventBus) readStream(ctx context.Context, streamKey, lastID string, handler ports.MessageHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := e.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{streamKey, lastID},
			Count:   10,
			Block:   e.blockTimeout,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			e.logger.Error("failed to read from stream",
				zap.String("stream", streamKey),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				e.processMessage(ctx, streamKey, message, handler)
			}
		}
	}
}

// processMessage decodes one stream entry and hands it to the handler
func (e *StreamsEventBus) processMessage(ctx context.Context, streamKey string, message redis.XMessage, handler ports.MessageHandler) {
	data, ok := message.Values["data"].(string)
	if !ok {
		e.logger.Error("invalid message format",
			zap.String("stream", streamKey),
			zap.String("entry_id", message.ID))
		return
	}

	var msg ports.Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		e.logger.Error("failed to unmarshal message",
			zap.String("stream", streamKey),
			zap.String("entry_id", message.ID),
			zap.Error(err))
		return
	}

	if err := handler(ctx, msg); err != nil {
		e.logger.Error("handler error",
			zap.String("stream", streamKey),
			zap.String("entry_id", message.ID),
			zap.Error(err))
	}
}

// Close is a no-op; the Redis client is owned by the caller
func (e *StreamsEventBus) Close() error {
	return nil
}

// getStreamKey returns the Redis stream key for a topic
func getStreamKey(topic string) string {
	return fmt.Sprintf("wdcsim:events:%s", topic)
}
