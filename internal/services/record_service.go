package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stderrors "errors"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/redis"
	"github.com/mkirylau/vinylmarket/internal/models"
	"github.com/mkirylau/vinylmarket/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const recordCacheTTL = 24 * time.Hour

// RecordService is the catalog lookup collaborator of the purchase flow.
type RecordService interface {
	GetRecord(ctx context.Context, recordID int64) (*models.Record, error)
}

type recordService struct {
	recordRepo  repository.RecordRepository
	redisClient redis.RedisClient
}

func NewRecordService(recordRepo repository.RecordRepository, redisClient redis.RedisClient) *recordService {
	return &recordService{recordRepo: recordRepo, redisClient: redisClient}
}

// GetRecord reads through the Redis cache. Cache failures fall back to
// Postgres; only the database result is authoritative.
func (s *recordService) GetRecord(ctx context.Context, recordID int64) (*models.Record, error) {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "GetRecord")
	defer span.End()

	recordKey := fmt.Sprintf("record:%d", recordID)
	recordJSON, err := s.redisClient.Get(ctx, recordKey)
	if err == nil {
		var record models.Record
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			slog.Error("failed to unmarshal cached record", "record_id", recordID, "error", err)
		} else {
			return &record, nil
		}
	} else if !stderrors.Is(err, redis.ErrKeyNotFound) {
		slog.Error("failed to get record from Redis", "record_id", recordID, "error", err)
	}

	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record lookup failed")
		slog.Error("record not found", "record_id", recordID, "error", err)
		return nil, err
	}

	recordBytes, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to marshal record", "record_id", recordID, "error", err)
		return record, nil
	}
	if err := s.redisClient.Set(ctx, recordKey, string(recordBytes), recordCacheTTL); err != nil {
		slog.Error("failed to cache record", "record_id", recordID, "error", err)
	}

	return record, nil
}
