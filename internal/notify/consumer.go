package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Consumer reads notification events from Kafka and dispatches them to
// the email collaborator. Delivery is at-least-once; duplicate emails for
// a redelivered event are acceptable.
type Consumer struct {
	reader *kafka.Reader
	sender EmailSender
}

func NewConsumer(brokers []string, groupID string, sender EmailSender) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    TopicNotifications,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		sender: sender,
	}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to read Kafka message", "topic", TopicNotifications, "error", err)
			continue
		}

		var event PaymentEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Error("failed to unmarshal payment event", "error", err)
			continue
		}

		switch event.EventType {
		case EventPaymentSuccessful:
			text := fmt.Sprintf("Your purchase has been successful. Session id N%s", event.SessionID)
			if err := c.sender.SendEmail(ctx, event.Email, "Payment successful", text); err != nil {
				slog.Error("failed to send payment email", "email", event.Email, "session_id", event.SessionID, "error", err)
				continue
			}
			slog.Info("payment notification delivered", "email", event.Email, "session_id", event.SessionID)
		default:
			slog.Warn("unknown notification event type", "event_type", event.EventType)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
