package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultTextQueue receives plain-text summaries when no queue is configured.
const DefaultTextQueue = "tradier_notifications"

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp.Channel used for publishing.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publish declares a durable queue and publishes a persistent JSON body to it
// through the default exchange.
func Publish(ctx context.Context, ch Channel, queueName string, body []byte) error {
	if ch == nil {
		return fmt.Errorf("rabbitmq channel cannot be nil")
	}
	if queueName == "" {
		return fmt.Errorf("queue name cannot be empty")
	}

	_, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare RabbitMQ queue '%s': %w", queueName, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",        // exchange (default)
		queueName, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to RabbitMQ queue '%s': %w", queueName, err)
	}
	return nil
}

// textMessage is the payload consumers of the text queue expect.
type textMessage struct {
	Message string `json:"message"`
}

// SendText publishes {"message": text} to queueName.
func SendText(ctx context.Context, ch Channel, queueName, text string) error {
	body, err := json.Marshal(textMessage{Message: text})
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON for RabbitMQ: %w", err)
	}
	return Publish(ctx, ch, queueName, body)
}
