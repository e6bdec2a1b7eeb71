package kafka

import (
	"context"
	"errors"
	"strings"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/backend"
	"github.com/NARUBROWN/pulse/internal/resolver"
	"github.com/NARUBROWN/pulse/pkg/boot"
	"github.com/segmentio/kafka-go"
)

// Writer는 hand-off를 Kafka 토픽으로 발행하는 async 백엔드입니다.
// 토픽은 TopicPrefix + 토픽 이름으로 치환된 이벤트 식별자로 결정됩니다.
type Writer struct {
	writer *kafka.Writer
	opts   boot.KafkaOptions
}

func NewKafkaWriter(opts boot.KafkaOptions) (*Writer, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("Kafka Brokers가 설정되지 않았습니다")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(opts.Brokers...),
		Balancer: &kafka.Hash{},
	}

	return &Writer{
		writer: writer,
		opts:   opts,
	}, nil
}

func (w *Writer) Enqueue(ctx context.Context, handlerID string, event core.Event) error {
	payload, err := backend.Encode(handlerID, event)
	if err != nil {
		return err
	}

	topic := topicFor(event.ID())
	if w.opts.Write != nil {
		topic = w.opts.Write.TopicPrefix + topic
	}

	return w.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(handlerID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "handler", Value: []byte(handlerID)},
			{Key: "event", Value: []byte(event.ID())},
		},
	})
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// topicFor는 이벤트 식별자를 Kafka 토픽 이름으로 바꿉니다.
// 토픽 이름은 [a-zA-Z0-9._-]만 허용하므로 네임스페이스 구분자를 마침표로 치환합니다.
// 원래 식별자는 메시지 헤더의 event 키에 그대로 남습니다.
func topicFor(eventID string) string {
	return strings.ReplaceAll(eventID, resolver.Separator, ".")
}
