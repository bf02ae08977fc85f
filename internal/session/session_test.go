package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	created, err := store.Create(ctx, userID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "admin", got.Role)
	assert.WithinDuration(t, created.ExpiresAt, got.ExpiresAt, 2*time.Second)
}

func TestRedisStore_SessionsExpire(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	created, err := store.Create(ctx, uuid.New(), "user")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	created, err := store.Create(ctx, uuid.New(), "user")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// unknown and empty ids are ignored
	assert.NoError(t, store.Delete(ctx, "does-not-exist"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestRedisStore_UnknownSession(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_SessionsAreIndependent(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	a, err := store.Create(ctx, uuid.New(), "user")
	require.NoError(t, err)
	b, err := store.Create(ctx, uuid.New(), "user")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, store.Delete(ctx, a.ID))
	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.UserID, got.UserID)
}

func TestConnect_UsesPasswordAndDB(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	ctx := context.Background()
	cfg := config.RedisConfig{Host: host, Port: port, Password: "s3cret", DB: 3}

	client, err := Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Set(ctx, "db-key", "v", 0).Err())
	assert.True(t, mr.DB(3).Exists("db-key"))
	assert.False(t, mr.Exists("db-key"))

	cfg.Password = "wrong"
	_, err = Connect(ctx, cfg)
	assert.Error(t, err)
}
