package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

// ErrReadOnly — ни Redis, ни Postgres не настроены, сохранять блоб некуда
var ErrReadOnly = errors.New("snapshot: no writable store configured")

// SnapshotStore — часть redis.Cmdable: ключ с блобом и канал сигналов
type SnapshotStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// SnapshotArchive — история блобов (postgres.SnapshotRepo)
type SnapshotArchive interface {
	Save(ctx context.Context, payload []byte, author string) (string, error)
}

type Reloader interface {
	Reload(ctx context.Context) error
}

// ReplaceResult — ответ на замену снапшота
type ReplaceResult struct {
	Version string        `json:"version,omitempty"` // ID записи в архиве
	Origin  domain.Origin `json:"origin"`
	Range   domain.Range  `json:"range"`
}

type SnapshotService struct {
	store   SnapshotStore   // nil — без Redis
	archive SnapshotArchive // nil — без Postgres
	state   Reloader
	key     string
	channel string
	logger  *zap.Logger
}

func NewSnapshotService(store SnapshotStore, archive SnapshotArchive, state Reloader, key, channel string, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		store:   store,
		archive: archive,
		state:   state,
		key:     key,
		channel: channel,
		logger:  logger.Named("snapshot-service"),
	}
}

// Replace сохраняет новый блоб переопределения и рассылает сигнал обновления.
// 1. Блоб должен быть JSON-объектом, иначе snapshot.ErrNotObject.
// 2. Архив (если есть) получает новую версию.
// 3. Redis (если есть) получает блоб и сигнал для остальных инстансов.
// 4. Локальное состояние перечитывается сразу, не дожидаясь сигнала.
func (s *SnapshotService) Replace(ctx context.Context, blob []byte, author string) (*ReplaceResult, error) {
	merged, err := snapshot.ApplyOverride(snapshot.Default(), blob)
	if err != nil {
		return nil, err
	}
	if s.store == nil && s.archive == nil {
		return nil, ErrReadOnly
	}

	res := &ReplaceResult{Origin: merged.Origin, Range: merged.Range}

	if s.archive != nil {
		id, err := s.archive.Save(ctx, blob, author)
		if err != nil {
			return nil, err
		}
		res.Version = id
	}

	if s.store != nil {
		if err := s.store.Set(ctx, s.key, blob, 0).Err(); err != nil {
			return nil, fmt.Errorf("redis: set %s: %w", s.key, err)
		}
		if err := s.store.Publish(ctx, s.channel, res.Version).Err(); err != nil {
			// Блоб уже сохранен, остальные инстансы подхватят его при переподключении
			s.logger.Warn("failed to publish snapshot update",
				zap.String("chan", s.channel), zap.Error(err))
		}
	}

	if s.state != nil {
		if err := s.state.Reload(ctx); err != nil {
			s.logger.Warn("local reload after replace failed", zap.Error(err))
		}
	}

	s.logger.Info("snapshot replaced",
		zap.String("author", author),
		zap.String("version", res.Version),
		zap.Int("bytes", len(blob)))
	return res, nil
}
