// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can treat publishing as best effort.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/config"
	q "github.com/iliyamo/theater-statement/internal/queue"
)

// Publisher sends statement events to the configured queue.  Each call
// opens its own connection; statement traffic is low and this keeps the
// publisher free of reconnect state.
type Publisher struct {
	cfg config.AMQPConfig
}

// New returns a Publisher for cfg.
func New(cfg config.AMQPConfig) *Publisher { return &Publisher{cfg: cfg} }

// PublishStatementIssued publishes ev as a persistent JSON message.
func (p *Publisher) PublishStatementIssued(ctx context.Context, ev q.StatementIssuedEvent) error {
	logger := log.WithFields(log.Fields{"queue": p.cfg.Queue, "customer": ev.Customer})

	body, err := json.Marshal(ev)
	if err != nil {
		logger.WithError(err).Error("rabbitmq: marshal event failed")
		return err
	}

	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		logger.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		logger.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
