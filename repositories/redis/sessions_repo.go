package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"
	"time"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"github.com/redis/go-redis/v9"
)

// SessionsRepository stores in-flight conversation state under
// "session:{id}". A TTL of zero keeps sessions until they are deleted
// explicitly; a positive TTL makes idle-session expiry a store policy.
type SessionsRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionsRepository(client *redis.Client, ttl time.Duration) *SessionsRepository {
	return &SessionsRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create initialises a fresh session for a conversation.
func (r *SessionsRepository) Create(ctx context.Context, id, mobile string) (*models.Session, error) {
	sess := &models.Session{ID: id, Mobile: mobile}
	if err := r.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads the session, or a NotFound error when it is absent or has
// expired.
func (r *SessionsRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.SessionNotFoundErr(id)
		}
		return nil, err
	}

	var sess models.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Update overwrites the stored session. Last write wins; the gateway
// serialises turns per session. Fails when the session is absent.
func (r *SessionsRepository) Update(ctx context.Context, sess *models.Session) error {
	exists, err := r.client.Exists(ctx, sessionKey(sess.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return errors.SessionNotFoundErr(sess.ID)
	}
	return r.write(ctx, sess)
}

// Delete removes the session. Deleting an absent session is a no-op.
func (r *SessionsRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

func (r *SessionsRepository) write(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(sess.ID), data, r.ttl).Err()
}
