package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

const wizardKeyPrefix = "wizard:session:"

// WizardSessionRepository persists wizard sessions in Redis with a TTL, so an
// abandoned wizard expires on its own.
type WizardSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewWizardSessionRepository constructs the repository.
func NewWizardSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *WizardSessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardSessionRepository{client: client, ttl: ttl, logger: logger}
}

// Get loads a session by id; a missing or expired session maps to ErrNotFound.
func (r *WizardSessionRepository) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	raw, err := r.client.Get(ctx, wizardKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found or expired")
		}
		return nil, fmt.Errorf("redis get wizard session %s: %w", id, err)
	}

	var session models.WizardSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal wizard session %s: %w", id, err)
	}
	return &session, nil
}

// Save stores a session and refreshes its TTL.
func (r *WizardSessionRepository) Save(ctx context.Context, session *models.WizardSession) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal wizard session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, wizardKeyPrefix+session.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set wizard session %s: %w", session.ID, err)
	}
	return nil
}

// Delete removes a session.
func (r *WizardSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, wizardKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete wizard session %s: %w", id, err)
	}
	return nil
}
