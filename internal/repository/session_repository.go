package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

const sessionKeyPrefix = "checkout:session:"

// SessionRepository stores checkout sessions in Redis so clients can poll
// state transitions while the staged flow runs in the background.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

// Save upserts the session, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *models.CheckoutSession) error {
	if r.client == nil {
		return fmt.Errorf("session store unavailable")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}

// Find loads a session by id.
func (r *SessionRepository) Find(ctx context.Context, id string) (*models.CheckoutSession, error) {
	if r.client == nil {
		return nil, appErrors.ErrNotFound
	}
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "checkout session not found")
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	var session models.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}
	return &session, nil
}
