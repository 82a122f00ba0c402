// Package push hands device push messages to the delivery workers over
// RabbitMQ. Delivery itself happens outside this service.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange push messages are published to.
const DefaultExchange = "push_topic"

// Message is a push notification addressed to one user's devices.
type Message struct {
	UserID         string   `json:"user_id"`
	NotificationID string   `json:"notification_id"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Type           string   `json:"type"`
	JobID          string   `json:"job_id,omitempty"`
	Tokens         []string `json:"tokens"`
}

// RoutingKey returns the topic the message is published under.
func (m Message) RoutingKey() string {
	return "push." + m.Type
}

// Publisher publishes push messages to a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewPublisher declares the exchange and returns a Publisher.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, exchange: exchange}, nil
}

// Send publishes msg. A channel is opened per message so Send is safe for
// concurrent use.
func (p *Publisher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		p.exchange,
		msg.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish push message: %w", err)
	}

	log.Printf("[PUSH] published user=%s notification=%s key=%s", msg.UserID, msg.NotificationID, msg.RoutingKey())
	return nil
}
