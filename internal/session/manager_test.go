package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

type memoryStore struct {
	records map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]string{}}
}

func (s *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.records[key] = value
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.records[key]
	if !ok {
		return "", ErrSessionNotFound
	}
	return value, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.records, key)
	return nil
}

func TestManagerCreateAndResolve(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManager(store, "test-secret", time.Hour)

	user := models.SessionUser{ID: "7", Email: "ana@example.com", Role: "student", AccessToken: "upstream-token"}
	token, sess, err := mgr.Create(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sess.ID)

	resolved, err := mgr.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, resolved.ID)
	assert.Equal(t, "upstream-token", resolved.User.AccessToken)
	assert.Equal(t, "ana@example.com", resolved.User.Email)
}

func TestManagerResolveRejectsGarbageToken(t *testing.T) {
	mgr := NewManager(newMemoryStore(), "test-secret", time.Hour)

	_, err := mgr.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerResolveRejectsForeignSignature(t *testing.T) {
	store := newMemoryStore()
	token, _, err := NewManager(store, "secret-a", time.Hour).Create(context.Background(), models.SessionUser{ID: "1"})
	require.NoError(t, err)

	_, err = NewManager(store, "secret-b", time.Hour).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerResolveExpiredSession(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManager(store, "test-secret", time.Hour)
	token, sess, err := mgr.Create(context.Background(), models.SessionUser{ID: "1"})
	require.NoError(t, err)

	// Rewrite the stored record with an expiry in the past.
	expired := *sess
	expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, storeSession(store, &expired))

	_, err = mgr.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, exists := store.records[keyPrefix+sess.ID]
	assert.False(t, exists, "expired record should be purged")
}

func TestManagerDestroy(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManager(store, "test-secret", time.Hour)
	token, _, err := mgr.Create(context.Background(), models.SessionUser{ID: "1"})
	require.NoError(t, err)

	require.NoError(t, mgr.Destroy(context.Background(), token))
	_, err = mgr.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerDestroyInvalidToken(t *testing.T) {
	mgr := NewManager(newMemoryStore(), "test-secret", time.Hour)
	assert.ErrorIs(t, mgr.Destroy(context.Background(), "garbage"), ErrInvalidToken)
}

func storeSession(store Store, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return store.Set(context.Background(), keyPrefix+sess.ID, string(data), time.Hour)
}
