package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventID = "event_id"
	headerReason  = "reason"
)

type ReleaseProducer struct {
	*producer.Producer
	topic string
}

func NewReleaseProducer(producer *producer.Producer, topic string) *ReleaseProducer {
	return &ReleaseProducer{producer, topic}
}

// releaseMessages keys every message by object key so that releases of one key stay ordered.
func releaseMessages(topic string, events []*entity.ReleaseEvent) []kafka.Message {
	msgs := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   []byte(event.ObjectKey),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: headerEventID, Value: []byte(event.ID.String())},
				{Key: headerReason, Value: []byte(event.Reason)},
			},
		})
	}

	return msgs
}

func (rp *ReleaseProducer) SendEvents(ctx context.Context, events []*entity.ReleaseEvent) error {
	msgs := releaseMessages(rp.topic, events)
	if len(msgs) == 0 {
		return nil
	}

	err := rp.Writer.WriteMessages(ctx, msgs...)
	if err != nil {
		return fmt.Errorf("ReleaseProducer - SendEvents - rp.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (rp *ReleaseProducer) Close() error {
	err := rp.Producer.Close()
	if err != nil {
		return fmt.Errorf("ReleaseProducer - Close: %w", err)
	}

	return nil
}
