package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Handler func(ctx context.Context, event Event) error

// errMalformedMessage marks entries that can never be handled. They are
// acknowledged instead of being retried.
var errMalformedMessage = errors.New("malformed stream message")

type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	logger        zerolog.Logger
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	Logger        zerolog.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		logger: config.Logger.With().
			Str("stream", config.Stream).
			Str("group", config.Group).
			Str("consumer", config.Consumer).
			Logger(),
	}
}

// Start consumes the stream until ctx is cancelled. A new group starts at the
// beginning of the stream. Messages whose handler fails stay pending and are
// handed to the handler again on the next read.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	s.logger.Info().Msg("subscriber started")

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = 30 * time.Second

	for {
		if ctx.Err() != nil {
			s.logger.Info().Msg("subscriber stopping")
			return ctx.Err()
		}
		if err := s.readMessages(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			wait := retry.NextBackOff()
			s.logger.Error().Err(err).Dur("retry_in", wait).Msg("error reading messages")
			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}
			continue
		}
		retry.Reset()
	}
}

// readMessages first retries this consumer's pending messages, then waits
// for new ones.
func (s *Subscriber) readMessages(ctx context.Context) error {
	if err := s.readFrom(ctx, "0", -1); err != nil {
		return err
	}
	return s.readFrom(ctx, ">", s.blockDuration)
}

func (s *Subscriber) readFrom(ctx context.Context, id string, block time.Duration) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, id},
		Count:    s.batchSize,
		Block:    block,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			err := s.processMessage(ctx, message)
			if err != nil && !errors.Is(err, errMalformedMessage) {
				s.logger.Error().Err(err).Str("message_id", message.ID).Msg("failed to process message")
				continue
			}
			if err != nil {
				s.logger.Error().Err(err).Str("message_id", message.ID).Msg("dropping malformed message")
			}

			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				s.logger.Error().Err(err).Str("message_id", message.ID).Msg("failed to ack message")
			}
		}
	}

	return nil
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("%w: missing event field", errMalformedMessage)
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return s.handler(s.logger.WithContext(ctx), event)
}

// DecodeData re-decodes the loosely typed Data payload of an event into out.
func DecodeData(event Event, out any) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}
	return nil
}
