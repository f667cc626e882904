package repository

import (
	"context"

	"github.com/mkirylau/vinylmarket/internal/models"
)

type PurchaseRepository interface {
	// Create inserts a pending purchase and fills in the assigned id.
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id int64) (*models.Purchase, error)
	// UpdateStatusBySessionID sets the status of the purchase matching the
	// checkout session. Zero matching rows is not an error.
	UpdateStatusBySessionID(ctx context.Context, sessionID string, status models.PaymentStatus) error
}
