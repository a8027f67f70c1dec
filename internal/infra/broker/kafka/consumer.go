package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed record. Returning an error leaves
// the offset unmarked so the record is redelivered.
type MessageHandler interface {
	Handle(ctx context.Context, topic string, key, value []byte) error
}

// Consumer runs a sarama consumer group over the given topics until the
// context is cancelled.
type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	log    *slog.Logger
}

func NewConsumer(brokers []string, groupID string, topics []string, log *slog.Logger) (*Consumer, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: new consumer group: %w", err)
	}
	return &Consumer{group: group, topics: topics, log: log}, nil
}

func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	defer c.group.Close()
	for {
		err := c.group.Consume(ctx, c.topics, &groupHandler{handler: handler, log: c.log})
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		if err != nil {
			c.log.Error("consumer group session failed", "err", err)
		}
	}
}

type groupHandler struct {
	handler MessageHandler
	log     *slog.Logger
}

func (groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.handler.Handle(session.Context(), message.Topic, message.Key, message.Value); err != nil {
			h.log.Error("message handling failed, leaving offset unmarked",
				"topic", message.Topic, "partition", message.Partition, "offset", message.Offset, "err", err)
			continue
		}
		session.MarkMessage(message, "")
	}
	return nil
}
