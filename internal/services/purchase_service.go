package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/observability"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/payments"
	"github.com/mkirylau/vinylmarket/internal/models"
	"github.com/mkirylau/vinylmarket/internal/notify"
	"github.com/mkirylau/vinylmarket/internal/repository"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// centMultiplier converts catalog prices (major units) to the processor's
// minor currency unit.
const centMultiplier = 100

type PurchaseService interface {
	CreateCheckoutSession(ctx context.Context, requester *auth.Identity, recordID int64) (*payments.Session, error)
	HandleWebhook(ctx context.Context, event *payments.Event) error
	GetPurchase(ctx context.Context, purchaseID int64) (*models.Purchase, error)
}

type purchaseService struct {
	recordService RecordService
	purchaseRepo  repository.PurchaseRepository
	payClient     payments.Client
	notifier      notify.Notifier
}

func NewPurchaseService(
	recordService RecordService,
	purchaseRepo repository.PurchaseRepository,
	payClient payments.Client,
	notifier notify.Notifier,
) *purchaseService {
	return &purchaseService{
		recordService: recordService,
		purchaseRepo:  purchaseRepo,
		payClient:     payClient,
		notifier:      notifier,
	}
}

// CreateCheckoutSession opens a checkout session for one record and writes
// the pending purchase. There is no compensation if the local write fails
// after the session already exists at the processor; the reconciler will
// then skip the unknown session on webhook delivery.
func (s *purchaseService) CreateCheckoutSession(ctx context.Context, requester *auth.Identity, recordID int64) (*payments.Session, error) {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "CreateCheckoutSession")
	span.SetAttributes(
		attribute.Int64("user_id", requester.UserID),
		attribute.Int64("record_id", recordID),
	)
	defer span.End()

	slog.Info("creating purchase", "user_id", requester.UserID, "record_id", recordID)

	record, err := s.recordService.GetRecord(ctx, recordID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record lookup failed")
		return nil, err
	}

	unitAmount := int64(math.Round(record.Price * centMultiplier))
	session, err := s.payClient.CreateCheckoutSession(ctx, payments.CheckoutParams{
		UserID:     requester.UserID,
		Email:      requester.Email,
		RecordID:   record.ID,
		RecordName: record.Name,
		UnitAmount: unitAmount,
	})
	if err != nil {
		observability.CheckoutSessions.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "session creation failed")
		return nil, pkgerrors.NewService("payment processor unavailable", err.Error())
	}
	observability.CheckoutSessions.WithLabelValues("success").Inc()

	purchase := &models.Purchase{
		UserID:    requester.UserID,
		RecordID:  recordID,
		SessionID: session.ID,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "purchase write failed")
		slog.Error("failed to persist purchase for created session", "session_id", session.ID, "error", err)
		return nil, err
	}

	slog.Info("purchase created", "purchase_id", purchase.ID, "session_id", session.ID)
	return session, nil
}

// HandleWebhook applies one verified processor event to the matching
// purchase. Transitions are plain status sets keyed by session id, so a
// redelivered event lands on the value it already wrote.
func (s *purchaseService) HandleWebhook(ctx context.Context, event *payments.Event) error {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "HandleWebhook")
	span.SetAttributes(attribute.String("event_type", event.Type))
	defer span.End()

	switch event.Type {
	case payments.EventCheckoutCompleted:
		slog.Info("updating purchase status", "session_id", event.SessionID, "status", models.PaymentPaid)
		if err := s.purchaseRepo.UpdateStatusBySessionID(ctx, event.SessionID, models.PaymentPaid); err != nil {
			observability.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "status update failed")
			return err
		}
		observability.WebhookEvents.WithLabelValues(event.Type, "applied").Inc()

		if err := s.notifier.PaymentSuccessful(ctx, event.CustomerEmail, event.SessionID); err != nil {
			// Notification is fire-and-forget; the purchase state is
			// already committed.
			slog.Error("failed to emit payment notification", "session_id", event.SessionID, "error", err)
		}
		slog.Info("purchase successful", "session_id", event.SessionID)

	case payments.EventCheckoutPaymentFailed, payments.EventCheckoutExpired:
		slog.Info("updating purchase status", "session_id", event.SessionID, "status", models.PaymentFailed)
		if err := s.purchaseRepo.UpdateStatusBySessionID(ctx, event.SessionID, models.PaymentFailed); err != nil {
			observability.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "status update failed")
			return err
		}
		observability.WebhookEvents.WithLabelValues(event.Type, "applied").Inc()
		slog.Info("purchase failed", "session_id", event.SessionID)

	default:
		// The processor sends many event types this service ignores.
		observability.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
	}

	return nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, purchaseID int64) (*models.Purchase, error) {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "GetPurchase")
	span.SetAttributes(attribute.Int64("purchase_id", purchaseID))
	defer span.End()

	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "purchase lookup failed")
		return nil, err
	}
	return purchase, nil
}
