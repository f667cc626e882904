// Package notify carries purchase notifications out of the request path.
// Events are published to Kafka and consumed by a worker that hands them
// to the email collaborator.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/kafka"
)

const (
	TopicNotifications = "notifications"

	EventPaymentSuccessful = "payment.successful"
)

type PaymentEvent struct {
	EventType string `json:"event_type"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

// Notifier emits purchase lifecycle notifications. Fire-and-forget,
// at-least-once; failures are the caller's to log, not to retry.
type Notifier interface {
	PaymentSuccessful(ctx context.Context, email, sessionID string) error
}

type KafkaNotifier struct {
	producer kafka.KafkaProducer
}

func NewKafkaNotifier(producer kafka.KafkaProducer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) PaymentSuccessful(ctx context.Context, email, sessionID string) error {
	event := PaymentEvent{
		EventType: EventPaymentSuccessful,
		Email:     email,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}
	return n.producer.Send(ctx, TopicNotifications, sessionID, eventBytes)
}
