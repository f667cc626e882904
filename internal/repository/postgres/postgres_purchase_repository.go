package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/observability"
	"github.com/mkirylau/vinylmarket/internal/models"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type PostgresPurchaseRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseRepository(db *sql.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

func (r *PostgresPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	var err error
	tracer := otel.Tracer("purchase-repository")
	ctx, span := tracer.Start(ctx, "CreatePurchase")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("CreatePurchase", status).Inc()
		observability.RepositoryDuration.WithLabelValues("CreatePurchase").Observe(time.Since(start).Seconds())
	}()

	if purchase == nil {
		err = pkgerrors.ErrNilPurchase
		slog.Error("failed to create purchase", "method", "Create", "error", err)
		return err
	}
	if purchase.SessionID == "" {
		err = fmt.Errorf("%w: session id is required", pkgerrors.ErrInvalidInput)
		slog.Error("failed to create purchase", "method", "Create", "error", err)
		return err
	}

	span.SetAttributes(
		attribute.Int64("user_id", purchase.UserID),
		attribute.Int64("record_id", purchase.RecordID),
		attribute.String("session_id", purchase.SessionID),
	)

	query := `INSERT INTO purchases (user_id, record_id, session_id, status) VALUES ($1, $2, $3, $4) RETURNING purchase_id`
	err = r.db.QueryRowContext(ctx, query,
		purchase.UserID,
		purchase.RecordID,
		purchase.SessionID,
		models.PaymentPending,
	).Scan(&purchase.ID)
	if err != nil {
		slog.Error("failed to create purchase", "method", "Create", "user_id", purchase.UserID, "record_id", purchase.RecordID, "session_id", purchase.SessionID, "error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	purchase.Status = models.PaymentPending
	slog.Info("purchase created", "method", "Create", "purchase_id", purchase.ID, "user_id", purchase.UserID, "record_id", purchase.RecordID, "session_id", purchase.SessionID)
	return nil
}

func (r *PostgresPurchaseRepository) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var err error
	tracer := otel.Tracer("purchase-repository")
	ctx, span := tracer.Start(ctx, "GetPurchaseByID")
	span.SetAttributes(attribute.Int64("purchase_id", id))
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("GetPurchaseByID", status).Inc()
		observability.RepositoryDuration.WithLabelValues("GetPurchaseByID").Observe(time.Since(start).Seconds())
	}()

	var purchase models.Purchase
	query := `SELECT purchase_id, user_id, record_id, session_id, status FROM purchases WHERE purchase_id = $1`
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.RecordID,
		&purchase.SessionID,
		&purchase.Status,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrPurchaseNotFound
		slog.Error("purchase not found", "method", "GetByID", "purchase_id", id)
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get purchase by id", "method", "GetByID", "purchase_id", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase by id: %w", err)
	}

	return &purchase, nil
}

// UpdateStatusBySessionID is an unconditional set keyed by session id.
// Replays of the same webhook event land on the same value, which is what
// makes redelivery safe. A session with no matching row is logged and
// swallowed.
func (r *PostgresPurchaseRepository) UpdateStatusBySessionID(ctx context.Context, sessionID string, status models.PaymentStatus) error {
	var err error
	tracer := otel.Tracer("purchase-repository")
	ctx, span := tracer.Start(ctx, "UpdatePurchaseStatus")
	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("status", string(status)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		st := "success"
		if err != nil {
			st = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("UpdatePurchaseStatus", st).Inc()
		observability.RepositoryDuration.WithLabelValues("UpdatePurchaseStatus").Observe(time.Since(start).Seconds())
	}()

	if status != models.PaymentPending && status != models.PaymentPaid && status != models.PaymentFailed {
		err = pkgerrors.ErrInvalidStatus
		slog.Error("invalid payment status", "method", "UpdateStatusBySessionID", "status", status, "error", err)
		return err
	}

	query := `UPDATE purchases SET status = $1 WHERE session_id = $2`
	res, execErr := r.db.ExecContext(ctx, query, status, sessionID)
	if execErr != nil {
		err = execErr
		slog.Error("failed to update purchase status", "method", "UpdateStatusBySessionID", "session_id", sessionID, "status", status, "error", err)
		return fmt.Errorf("failed to update purchase status: %w", err)
	}

	rows, raErr := res.RowsAffected()
	if raErr == nil && rows == 0 {
		slog.Warn("no purchase matches session, status update skipped", "method", "UpdateStatusBySessionID", "session_id", sessionID, "status", status)
		return nil
	}

	slog.Info("purchase status updated", "method", "UpdateStatusBySessionID", "session_id", sessionID, "status", status)
	return nil
}
