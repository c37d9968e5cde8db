// Package kafka consumes inbound push payloads addressed to this agent.
// It is the background half of the notification pipeline: it runs in its
// own consumer group independent of the interactive listener and keeps
// working while the rest of the agent is idle.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/notify"
)

// Consumer wraps a Sarama consumer group and dispatches push payloads to a
// handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler notify.HandleFunc
	logger  logx.Logger
}

// NewConsumer creates a push consumer. Missing broker settings disable the
// transport: a nil Consumer is returned and the agent runs without it.
func NewConsumer(brokers []string, groupID, topic string, h notify.HandleFunc, logger logx.Logger) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{group: group, topic: topic, handler: h, logger: logger}, nil
}

// Run consumes until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("push consume error", logx.Err(err))
			time.Sleep(time.Second)
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close shuts the consumer group down.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto PayloadDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("push payload: bad json", logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev, ok := ToEvent(dto)
		if !ok {
			h.c.logger.Warn("push payload: empty order id")
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			h.c.logger.Error("push payload handling failed, retrying",
				logx.String("order_id", ev.OrderID),
				logx.Err(err),
			)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
