package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFromClient(client, nil), mr
}

func TestRedis_SetGetJSON(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, 0))

	var out map[string]int
	ok, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, out["a"])
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestRedis_GetJSON_Missing(t *testing.T) {
	r, _ := setupTestRedis(t)

	var out []string
	ok, err := r.GetJSON(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_GetJSON_Corrupt(t *testing.T) {
	r, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []string
	ok, err := r.GetJSON(context.Background(), "bad", &out)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrStorageCorrupt)
}

func TestRedis_SetJSON_WithTTL(t *testing.T) {
	r, mr := setupTestRedis(t)
	require.NoError(t, r.SetJSON(context.Background(), "k", "v", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestRedis_DeleteAndExists(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetJSON(ctx, "k", "v", 0))
	ok, err := r.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.Delete(ctx, "k"))
	ok, err = r.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_UpdateJSON_ConcurrentAppends(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	const writers = 5
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := r.UpdateJSON(ctx, "list", func(raw []byte) (any, error) {
				var cur []int
				if len(raw) > 0 {
					if err := json.Unmarshal(raw, &cur); err != nil {
						return nil, err
					}
				}
				return append(cur, n), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var out []int
	ok, err := r.GetJSON(ctx, "list", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, out, writers)
}
