package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"summarization-hub/internal/models"
)

var ErrNotFound = errors.New("not found")

// RedisArtifactStore caches artifacts as JSON with a TTL.
type RedisArtifactStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisArtifactStore(client *redis.Client, ttl time.Duration) *RedisArtifactStore {
	return &RedisArtifactStore{client: client, ttl: ttl}
}

func artifactKey(id uuid.UUID) string {
	return "artifact:" + id.String()
}

func (s *RedisArtifactStore) Save(ctx context.Context, a *models.Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return s.client.Set(ctx, artifactKey(a.ID), data, s.ttl).Err()
}

func (s *RedisArtifactStore) Get(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	data, err := s.client.Get(ctx, artifactKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a models.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", id, err)
	}
	return &a, nil
}
