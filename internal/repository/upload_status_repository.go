package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// UploadStatusRepository stores transient upload batch progress. Missing
// batches surface as redis.Nil.
type UploadStatusRepository interface {
	Set(ctx context.Context, status *domain.UploadStatus, ttl time.Duration) error
	Get(ctx context.Context, uploadID string) (*domain.UploadStatus, error)
}

type uploadStatusRepository struct {
	client *redis.Client
}

// NewUploadStatusRepository returns a Redis-backed implementation. Batch
// records are JSON values with a TTL; they are progress state, not durable
// metadata.
func NewUploadStatusRepository(client *redis.Client) UploadStatusRepository {
	return &uploadStatusRepository{client: client}
}

func uploadStatusKey(uploadID string) string {
	return "upload_status:" + uploadID
}

func (r *uploadStatusRepository) Set(ctx context.Context, status *domain.UploadStatus, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, uploadStatusKey(status.UploadID), payload, ttl).Err()
}

func (r *uploadStatusRepository) Get(ctx context.Context, uploadID string) (*domain.UploadStatus, error) {
	if r.client == nil {
		return nil, redis.Nil
	}
	raw, err := r.client.Get(ctx, uploadStatusKey(uploadID)).Bytes()
	if err != nil {
		return nil, err
	}
	var status domain.UploadStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
