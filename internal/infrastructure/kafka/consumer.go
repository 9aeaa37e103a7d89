package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/LocalStoreConnect/pkg/kafka/consumer"
	"github.com/segmentio/kafka-go"
)

type ReleaseConsumer struct {
	*consumer.Consumer
}

func NewReleaseConsumer(consumer *consumer.Consumer) *ReleaseConsumer {
	return &ReleaseConsumer{consumer}
}

func (rc *ReleaseConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := rc.Reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("ReleaseConsumer - ReadEvent - rc.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (rc *ReleaseConsumer) CommitEvent(ctx context.Context, msg kafka.Message) error {
	err := rc.Reader.CommitMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("ReleaseConsumer - CommitEvent - rc.Reader.CommitMessages: %w", err)
	}

	return nil
}

func (rc *ReleaseConsumer) Close() error {
	err := rc.Consumer.Close()
	if err != nil {
		return fmt.Errorf("ReleaseConsumer - Close: %w", err)
	}

	return nil
}
