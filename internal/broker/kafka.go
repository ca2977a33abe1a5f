package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prediction-dashboard/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	contentTypeHeader = "content-type"
	contentTypeJSON   = "application/json"

	// handlerAttempts bounds retries of one message before it is committed anyway
	handlerAttempts = 3
	retryBackoff    = 500 * time.Millisecond
)

// Producer writes JSON events to a single topic
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer. Messages with the same key land on
// the same partition, so changes to one entity stay ordered.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			MaxAttempts:            3,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishEvent marshals event and writes it under key
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: contentTypeHeader, Value: []byte(contentTypeJSON)}},
		Time:    time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", p.writer.Topic, err)
	}

	util.GetLogger().Debug("Published event",
		zap.String("topic", p.writer.Topic),
		zap.String("key", key))
	return nil
}

// Close flushes pending writes
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads one topic as part of a consumer group
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new Kafka consumer.
// Each replica uses its own group so every replica sees every change.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       1,
			MaxBytes:       1 << 20,
			MaxWait:        time.Second,
			CommitInterval: time.Second,
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// Close leaves the group
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// MessageHandler is a function type for handling messages
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// StartConsuming blocks until ctx is done. A message whose handler keeps
// failing is logged and committed so it cannot stall the partition.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	logger := util.GetLogger().With(
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group", c.reader.Config().GroupID))
	logger.Info("Starting Kafka consumer")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Consumer context cancelled, stopping")
				return ctx.Err()
			}
			logger.Warn("Error fetching message", zap.Error(err))
			if !sleep(ctx, time.Second) {
				return ctx.Err()
			}
			continue
		}

		if err := handleWithRetry(ctx, handler, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			util.ChangeEventsTotal.WithLabelValues("consumed", "dropped").Inc()
			logger.Error("Giving up on message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn("Error committing message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func handleWithRetry(ctx context.Context, handler MessageHandler, msg kafka.Message) error {
	var err error
	for attempt := 1; attempt <= handlerAttempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt < handlerAttempts && !sleep(ctx, retryBackoff*time.Duration(attempt)) {
			return ctx.Err()
		}
	}
	return err
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
