package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisSessionRepository struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisSessionRepository(client *redis.Client, logger *logrus.Logger) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		logger: logger,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("signup_session:%s", id)
}

// Save writes the session with a TTL matching its remaining lifetime. Form
// secrets are never written.
func (r *RedisSessionRepository) Save(ctx context.Context, session *models.SignupSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return models.ErrSessionNotFound
	}

	dataJSON, err := json.Marshal(session.Redacted())
	if err != nil {
		return fmt.Errorf("failed to marshal signup session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), dataJSON, ttl).Err(); err != nil {
		r.logger.WithError(err).Error("Failed to store signup session in Redis")
		return fmt.Errorf("failed to store signup session: %w", err)
	}

	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.SignupSession, error) {
	dataJSON, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to get signup session from Redis")
		return nil, fmt.Errorf("failed to get signup session: %w", err)
	}

	var session models.SignupSession
	if err := json.Unmarshal([]byte(dataJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signup session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
			r.logger.WithError(err).WithField("session_id", id).Warn("Failed to delete expired signup session")
		}
		return nil, models.ErrSessionNotFound
	}

	return &session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete signup session: %w", err)
	}
	return nil
}
