package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

type fakeCache struct {
	lockOK  bool
	lockErr error
	exists  int64
	setErr  error

	setKey string
	setVal interface{}
}

func (f *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(f.lockOK, f.lockErr)
}

func (f *fakeCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(f.exists, nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.setKey, f.setVal = key, value
	return redis.NewStatusResult("OK", f.setErr)
}

func TestWarmupSnapshot_SeedsEmptyKey(t *testing.T) {
	cache := &fakeCache{lockOK: true}
	seeded, err := WarmupSnapshot(context.Background(), cache, zap.NewNop(),
		snapshot.StaticSource(`{"scanned": 1}`), "snap", "lock")

	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, "snap", cache.setKey)
	assert.Equal(t, []byte(`{"scanned": 1}`), cache.setVal)
}

func TestWarmupSnapshot_Skips(t *testing.T) {
	seed := snapshot.StaticSource(`{"scanned": 1}`)
	tests := map[string]*fakeCache{
		"lock held":   {lockOK: false},
		"lock error":  {lockErr: errors.New("timeout")},
		"key present": {lockOK: true, exists: 1},
	}
	for name, cache := range tests {
		t.Run(name, func(t *testing.T) {
			seeded, err := WarmupSnapshot(context.Background(), cache, zap.NewNop(), seed, "snap", "lock")
			require.NoError(t, err)
			assert.False(t, seeded)
			assert.Empty(t, cache.setKey)
		})
	}
}

func TestWarmupSnapshot_RejectsBadSeed(t *testing.T) {
	cache := &fakeCache{lockOK: true}
	_, err := WarmupSnapshot(context.Background(), cache, zap.NewNop(), snapshot.StaticSource(`[1]`), "snap", "lock")

	assert.ErrorIs(t, err, snapshot.ErrNotObject)
	assert.Empty(t, cache.setKey)
}

func TestWarmupSnapshot_NoSeed(t *testing.T) {
	seeded, err := WarmupSnapshot(context.Background(), &fakeCache{lockOK: true}, zap.NewNop(), snapshot.StaticSource(nil), "snap", "lock")
	require.NoError(t, err)
	assert.False(t, seeded)
}
