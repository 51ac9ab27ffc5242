package redisstore

import (
	"context"
	"testing"
	"time"

	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/session"
	"captioncraft/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func result(text string) caption.GenerationResult {
	return caption.ParseGenerated(text, time.Now())
}

func TestHistoryStore_AppendPrepends(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewHistoryStore(cache.NewRedisFromClient(client, nil), 0, nil)
	ctx := context.Background()
	pid := uuid.New()

	first := result("first #a")
	second := result("second #b")
	require.NoError(t, store.Append(ctx, pid, first))
	require.NoError(t, store.Append(ctx, pid, second))

	items, err := store.List(ctx, pid)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	latest, ok, err := store.MostRecent(ctx, pid)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
}

func TestHistoryStore_SurvivesRestart(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	pid := uuid.New()

	r := result("Fresh bread. #bakery #bakery")
	require.NoError(t, NewHistoryStore(cache.NewRedisFromClient(client, nil), 0, nil).Append(ctx, pid, r))

	reopened := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer reopened.Close()
	items, err := NewHistoryStore(cache.NewRedisFromClient(reopened, nil), 0, nil).List(ctx, pid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, r.ID, items[0].ID)
	assert.Equal(t, "Fresh bread.", items[0].Caption)
	assert.Equal(t, []string{"bakery", "bakery"}, items[0].Hashtags)
	assert.True(t, r.CreatedAt.Equal(items[0].CreatedAt))
}

func TestHistoryStore_EmptyAndIsolatedPerProfile(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewHistoryStore(cache.NewRedisFromClient(client, nil), 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, uuid.New(), result("x")))

	items, err := store.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, ok, err := store.MostRecent(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryStore_CorruptIsEmpty(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewHistoryStore(cache.NewRedisFromClient(client, nil), 0, nil)
	ctx := context.Background()
	pid := uuid.New()

	require.NoError(t, mr.Set(historyKey(pid), "[{broken"))

	items, err := store.List(ctx, pid)
	require.NoError(t, err)
	assert.Empty(t, items)

	r := result("recovered")
	require.NoError(t, store.Append(ctx, pid, r))
	items, err = store.List(ctx, pid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, r.ID, items[0].ID)
}

func TestHistoryStore_UnboundedByDefault(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewHistoryStore(cache.NewRedisFromClient(client, nil), 0, nil)
	ctx := context.Background()
	pid := uuid.New()

	for i := 0; i < 120; i++ {
		require.NoError(t, store.Append(ctx, pid, result("same caption #same")))
	}
	items, err := store.List(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, items, 120)
}

func TestHistoryStore_Cap(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewHistoryStore(cache.NewRedisFromClient(client, nil), 3, nil)
	ctx := context.Background()
	pid := uuid.New()

	var last caption.GenerationResult
	for i := 0; i < 5; i++ {
		last = result("c")
		require.NoError(t, store.Append(ctx, pid, last))
	}
	items, err := store.List(ctx, pid)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, last.ID, items[0].ID)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(cache.NewRedisFromClient(client, nil))
	ctx := context.Background()

	now := time.Now().UTC()
	sess := session.Session{ID: uuid.New(), ProfileID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Open(ctx, sess))
	assert.True(t, mr.TTL(sessionKey(sess.ID)) > 0)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ProfileID, got.ProfileID)

	require.NoError(t, store.Close(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewSessionStore(cache.NewRedisFromClient(client, nil))

	past := time.Now().Add(-time.Minute)
	err := store.Open(context.Background(), session.Session{ID: uuid.New(), ProfileID: uuid.New(), ExpiresAt: past})
	assert.Error(t, err)
}
