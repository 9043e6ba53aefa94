package messaging

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPPublisher publishes alert messages to durable RabbitMQ queues.
type AMQPPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *zap.Logger

	mu       sync.Mutex
	declared map[string]struct{}
}

// NewAMQPPublisher dials the broker and opens a channel.
func NewAMQPPublisher(url string, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		logger:   logger,
		declared: make(map[string]struct{}),
	}, nil
}

// PublishToQueue declares the durable queue on first use and publishes
// the payload to it via the default exchange.
func (p *AMQPPublisher) PublishToQueue(ctx context.Context, queue string, payload []byte) error {
	if err := p.ensureQueue(queue); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		})
}

func (p *AMQPPublisher) ensureQueue(queue string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.declared[queue]; ok {
		return nil
	}
	_, err := p.ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}
	p.declared[queue] = struct{}{}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	if p.logger != nil {
		p.logger.Info("amqp publisher closed")
	}
}
