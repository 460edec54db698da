// Package kafka publishes vendor alerts to a Kafka topic.
package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer sends one message to a topic.
type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// WriterProducer writes through a kafka-go Writer. The writer carries no topic
// of its own so one producer can serve every topic.
type WriterProducer struct {
	writer *kafka.Writer
}

func NewWriterProducer(brokers []string, writeTimeout time.Duration) *WriterProducer {
	return &WriterProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: writeTimeout,
		},
	}
}

func (p *WriterProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Key: key, Value: value})
}

func (p *WriterProducer) Close() error {
	return p.writer.Close()
}

// LogProducer writes messages to the log. It stands in when no brokers are
// configured.
type LogProducer struct {
	logger *slog.Logger
}

func NewLogProducer(logger *slog.Logger) *LogProducer {
	return &LogProducer{logger: logger.With("component", "LogProducer")}
}

func (p *LogProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "message", "topic", topic, "key", string(key), "value", string(value))
	return nil
}

func (p *LogProducer) Close() error {
	return nil
}
