package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/mkirylau/vinylmarket/internal/models"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
)

type PostgresRecordRepository struct {
	db *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

func (r *PostgresRecordRepository) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	query := `SELECT record_id, discogs_id, name, author_name, description, price, created_at, updated_at FROM records WHERE record_id = $1`

	var record models.Record
	var discogsID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&discogsID,
		&record.Name,
		&record.AuthorName,
		&record.Description,
		&record.Price,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record by id: %w", err)
	}
	if discogsID.Valid {
		record.DiscogsID = &discogsID.Int64
	}
	return &record, nil
}
