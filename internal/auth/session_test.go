package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessionStore struct {
	sessions map[string]int64
	loads    int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]int64)}
}

func (s *memorySessionStore) Save(_ context.Context, id string, userID int64, _ time.Duration) error {
	s.sessions[id] = userID
	return nil
}

func (s *memorySessionStore) Load(_ context.Context, id string, _ time.Duration) (int64, bool, error) {
	s.loads++
	userID, ok := s.sessions[id]
	return userID, ok, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewSessionManager(store, "test-secret", time.Minute)

	token, err := manager.Create(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, ok, err := manager.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestResolveTamperedToken(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewSessionManager(store, "test-secret", time.Minute)

	token, err := manager.Create(context.Background(), 42)
	require.NoError(t, err)

	// flip the signature segment; resolution reports absent, never an error
	_, ok, err := manager.Resolve(context.Background(), token+"x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.loads, "a token that fails signature checks must not reach the store")

	_, ok, err = manager.Resolve(context.Background(), "not-a-token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveForeignSecret(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewSessionManager(store, "test-secret", time.Minute)
	foreign := NewSessionManager(store, "other-secret", time.Minute)

	token, err := foreign.Create(context.Background(), 42)
	require.NoError(t, err)

	_, ok, err := manager.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, ok, "a token signed under a different secret must not resolve")
}

func TestDestroy(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewSessionManager(store, "test-secret", time.Minute)

	token, err := manager.Create(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(context.Background(), token))

	_, ok, err := manager.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, ok, "a destroyed session must not resolve")

	assert.NoError(t, manager.Destroy(context.Background(), "garbage"),
		"destroying an unparseable token is a no-op")
}

func TestTokenCarriesOpaqueSessionID(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewSessionManager(store, "test-secret", time.Minute)

	token, err := manager.Create(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, strings.Split(token, "."), 3, "token must be a compact JWT")
	require.Len(t, store.sessions, 1)
	for id := range store.sessions {
		assert.NotContains(t, token, id, "raw session id must not appear unencoded in the token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
