package notify

import (
	"context"
	"log/slog"
)

// EmailSender is the delivery collaborator. Actual delivery (SMTP,
// provider API) lives outside this service.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text string) error
}

// LogSender is the default sender used when no mail transport is
// configured. It only records the outgoing message.
type LogSender struct{}

func (LogSender) SendEmail(_ context.Context, to, subject, text string) error {
	slog.Info("email dispatched", "to", to, "subject", subject, "text", text)
	return nil
}
