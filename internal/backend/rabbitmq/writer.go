package rabbitmq

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/backend"
	"github.com/NARUBROWN/pulse/pkg/boot"
	"github.com/rabbitmq/amqp091-go"
)

// Writer는 hand-off를 topic exchange로 발행하는 async 백엔드입니다.
type Writer struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	routingKey string
}

func NewRabbitMqWriter(opts boot.RabbitMqOptions) (*Writer, error) {
	if opts.Write == nil || opts.Write.Exchange == "" {
		return nil, errors.New("RabbitMQ Exchange가 설정되지 않았습니다")
	}

	conn, err := amqp091.Dial(opts.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		opts.Write.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Println("[RabbitMQ][Write] hand-off 발행기 초기화 완료")

	return &Writer{
		conn:       conn,
		channel:    ch,
		exchange:   opts.Write.Exchange,
		routingKey: opts.Write.RoutingKey,
	}, nil
}

func (w *Writer) Enqueue(ctx context.Context, handlerID string, event core.Event) error {
	payload, err := backend.Encode(handlerID, event)
	if err != nil {
		return err
	}

	routingKey := w.routingKey
	if routingKey == "" {
		routingKey = handlerID
	}

	return w.channel.PublishWithContext(
		ctx,
		w.exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        payload,
			Timestamp:   time.Now(),
			Type:        handlerID,
			Headers: amqp091.Table{
				"event": event.ID(),
			},
		},
	)
}

func (w *Writer) Close() error {
	if w.channel != nil {
		_ = w.channel.Close()
	}
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}
