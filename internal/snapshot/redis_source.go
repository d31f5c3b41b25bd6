package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StringGetter — часть redis.Cmdable, нужная источнику
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource читает блоб из ключа Redis (туда его пишет PUT консоли)
type RedisSource struct {
	rdb StringGetter
	key string
}

func NewRedisSource(rdb StringGetter, key string) *RedisSource {
	return &RedisSource{rdb: rdb, key: key}
}

func (s *RedisSource) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis get %s: %w", s.key, err)
	}
	if len(data) == 0 {
		return nil, ErrNoSnapshot
	}
	return data, nil
}
