package app

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"livestock/internal/config"
	"livestock/internal/push"
)

// NewPushPublisher connects to RabbitMQ and declares the push exchange.
// Returns nil values when no RabbitMQ URL is configured.
func NewPushPublisher(cfg config.RabbitMQConfig) (*push.Publisher, *amqp.Connection, error) {
	if cfg.URL == "" {
		return nil, nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	publisher, err := push.NewPublisher(conn, cfg.Exchange)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	log.Println("Connected to RabbitMQ")
	return publisher, conn, nil
}
