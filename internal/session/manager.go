// Package session holds the server side of authentication: Redis-backed
// session records referenced by signed tokens. A session is created at
// sign-in, read by every protected route and destroyed at sign-out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

var (
	// ErrSessionNotFound is returned when no record backs the token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned for malformed or badly signed tokens.
	ErrInvalidToken = errors.New("invalid session token")
)

const keyPrefix = "session:"

// Manager creates, resolves and destroys sessions. Tokens are HS256 JWTs
// carrying only the session ID; all user data stays in the store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a session manager.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// TTL reports the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for the user and returns the signed token.
func (m *Manager) Create(ctx context.Context, user models.SessionUser) (string, *models.Session, error) {
	now := time.Now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := m.store.Set(ctx, keyPrefix+sess.ID, string(data), m.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	return token, sess, nil
}

// Resolve verifies the token and loads the backing session record.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	sid, err := m.sessionID(token)
	if err != nil {
		return nil, err
	}

	data, err := m.store.Get(ctx, keyPrefix+sid)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = m.store.Delete(ctx, keyPrefix+sid)
		return nil, ErrSessionNotFound
	}

	return &sess, nil
}

// Destroy removes the session referenced by the token. Destroying an unknown
// or expired session is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sid, err := m.sessionID(token)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, keyPrefix+sid)
}

func (m *Manager) sessionID(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
