package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore persists session state keyed by session id. Load refreshes the
// TTL so sessions expire on inactivity, not wall-clock age.
type SessionStore interface {
	Save(ctx context.Context, id string, userID int64, ttl time.Duration) error
	Load(ctx context.Context, id string, ttl time.Duration) (int64, bool, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps a redis client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+id, strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, id string, ttl time.Duration) (int64, bool, error) {
	val, err := s.client.GetEx(ctx, sessionKeyPrefix+id, ttl).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// sessionClaims is the signed envelope around an opaque session id.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionManager issues and resolves signed session tokens. The token carries
// only a random session id; the authoritative user binding lives in the store.
type SessionManager struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
}

// NewSessionManager builds a manager.
func NewSessionManager(store SessionStore, secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{store: store, secret: []byte(secret), ttl: ttl}
}

// Create opens a session for the user and returns the signed token.
func (m *SessionManager) Create(ctx context.Context, userID int64) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, userID, m.ttl); err != nil {
		return "", err
	}

	claims := &sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Resolve maps a signed token back to the session's user id. A tampered or
// unknown token reports absent, not an error; store failures propagate.
func (m *SessionManager) Resolve(ctx context.Context, tokenStr string) (int64, bool, error) {
	sessionID, err := m.parse(tokenStr)
	if err != nil {
		return 0, false, nil
	}
	return m.store.Load(ctx, sessionID, m.ttl)
}

// Destroy removes the session referenced by the token.
func (m *SessionManager) Destroy(ctx context.Context, tokenStr string) error {
	sessionID, err := m.parse(tokenStr)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}

func (m *SessionManager) parse(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session claims")
	}
	return claims.SessionID, nil
}
