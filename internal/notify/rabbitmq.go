package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultQueue receives summaries when no queue is configured.
const DefaultQueue = "orderetl.runs"

type publisher interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQ publishes summaries as persistent JSON messages on a durable
// queue through the default exchange.
type RabbitMQ struct {
	ch    publisher
	conn  io.Closer
	queue string
	log   *zap.Logger
}

// NewRabbitMQ dials url, opens a channel and declares queue.
func NewRabbitMQ(url, queue string, log *zap.Logger) (*RabbitMQ, error) {
	if url == "" {
		return nil, fmt.Errorf("notify: rabbitmq url is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	r, err := newRabbitMQ(ch, conn, queue, log)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return r, nil
}

func newRabbitMQ(ch publisher, conn io.Closer, queue string, log *zap.Logger) (*RabbitMQ, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitMQ{ch: ch, conn: conn, queue: queue, log: log}, nil
}

// Notify publishes s.
func (r *RabbitMQ) Notify(ctx context.Context, s Summary) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	err = r.ch.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    s.RunID,
		Timestamp:    time.Now().UTC(),
		Type:         "orderetl.run",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	r.log.Info("run summary published", zap.String("queue", r.queue), zap.String("run_id", s.RunID))
	return nil
}

// Close closes the channel and connection.
func (r *RabbitMQ) Close() error {
	err := r.ch.Close()
	if r.conn != nil {
		if cerr := r.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
