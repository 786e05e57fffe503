package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const statusRoutingKey = "clips.status"

// Publisher emits run status events to a topic exchange. Optional wiring:
// a run without a broker configured publishes nothing.
type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{channel: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishStatus(ctx context.Context, msg []byte) error {
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		statusRoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}
