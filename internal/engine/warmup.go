package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

// SnapshotCache — часть redis.Cmdable, нужная прогреву
type SnapshotCache interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// WarmupSnapshot заливает сид-снапшот в Redis, если ключ пуст.
// Возвращает true, если запись состоялась.
func WarmupSnapshot(
	ctx context.Context,
	rdb SnapshotCache,
	logger *zap.Logger,
	seed snapshot.Source,
	redisKey string,
	lockKey string,
) (bool, error) {
	if seed == nil {
		return false, nil
	}

	// 1. Распределенная блокировка (SetNX), чтобы только один инстанс заливал сид
	ok, err := rdb.SetNX(ctx, lockKey, "processing", 30*time.Second).Result()
	if err != nil || !ok {
		return false, nil // Либо ошибка сети, либо другой уже греет кэш
	}

	// 2. Проверка наполненности Redis
	count, err := rdb.Exists(ctx, redisKey).Result()
	if err != nil {
		count = 0
		logger.Warn("could not check Redis key, proceeding with warm-up",
			zap.String("key", redisKey), zap.Error(err))
	}
	if count > 0 {
		return false, nil
	}

	// 3. Читаем сид и проверяем, что это объект
	blob, err := seed.Load(ctx)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("warmup: load seed: %w", err)
	}
	if _, err := snapshot.ApplyOverride(snapshot.Default(), blob); err != nil {
		return false, fmt.Errorf("warmup: seed rejected: %w", err)
	}

	// 4. Заливаем
	logger.Info("snapshot key is empty, performing warm-up from seed...",
		zap.String("key", redisKey), zap.Int("bytes", len(blob)))
	if err := rdb.Set(ctx, redisKey, blob, 0).Err(); err != nil {
		return false, fmt.Errorf("warmup: set %s: %w", redisKey, err)
	}
	return true, nil
}
