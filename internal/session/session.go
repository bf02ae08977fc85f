package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Session is the identity claim bound to an opaque session id. Profile data
// is never kept here.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists sessions
type Store interface {
	Create(ctx context.Context, userID uuid.UUID, role string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session in a hash that expires after the TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// Connect opens a client for cfg and pings it. The client is closed again
// when the ping fails.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "session",
	}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

// Create opens a new session for the user
func (s *RedisStore) Create(ctx context.Context, userID uuid.UUID, role string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	key := s.key(sess.ID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":    sess.UserID.String(),
		"role":       sess.Role,
		"created_at": sess.CreatedAt.Unix(),
	})
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// Get resolves a session id. Expired and unknown ids yield ErrSessionNotFound.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	key := s.key(sessionID)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, ErrSessionNotFound
	}

	sess := &Session{
		ID:     sessionID,
		UserID: userID,
		Role:   fields["role"],
	}

	var createdAt int64
	if _, err := fmt.Sscanf(fields["created_at"], "%d", &createdAt); err == nil {
		sess.CreatedAt = time.Unix(createdAt, 0)
	}

	if ttl, err := s.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		sess.ExpiresAt = time.Now().Add(ttl)
	}

	return sess, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
