package memory

import (
	// Go Internal Packages
	"context"
	"sync"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"
)

// SessionsRepository is a map-backed session store with the same
// contract as the redis one. Used in tests and when no redis is
// configured.
type SessionsRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewSessionsRepository() *SessionsRepository {
	return &SessionsRepository{sessions: make(map[string]models.Session)}
}

func (r *SessionsRepository) Create(_ context.Context, id, mobile string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := models.Session{ID: id, Mobile: mobile}
	r.sessions[id] = sess
	return &sess, nil
}

func (r *SessionsRepository) Get(_ context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, errors.SessionNotFoundErr(id)
	}
	copied := sess
	return &copied, nil
}

func (r *SessionsRepository) Update(_ context.Context, sess *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sess.ID]; !ok {
		return errors.SessionNotFoundErr(sess.ID)
	}
	r.sessions[sess.ID] = *sess
	return nil
}

func (r *SessionsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
