package repository

import (
	"context"

	"github.com/mkirylau/vinylmarket/internal/models"
)

type RecordRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Record, error)
}
