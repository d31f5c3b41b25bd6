package snapshot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// Loader читает блоб из источника и вливает его в базовый снапшот.
// Ошибки источника и битый блоб не фатальны: пишем в лог и отдаем base.
type Loader struct {
	src    Source
	logger *zap.Logger
}

func NewLoader(src Source, logger *zap.Logger) *Loader {
	return &Loader{src: src, logger: logger.Named("snapshot")}
}

// Load всегда возвращает пригодный снапшот. Ошибка только сообщает,
// почему переопределение не применилось (ErrNoSnapshot, ErrNotObject, сбой источника).
func (l *Loader) Load(ctx context.Context, base domain.MetricSnapshot) (domain.MetricSnapshot, error) {
	if l.src == nil {
		return base, ErrNoSnapshot
	}

	blob, err := l.src.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			l.logger.Debug("no override stored, using base snapshot")
		} else {
			l.logger.Warn("failed to load snapshot override", zap.Error(err))
		}
		return base, err
	}

	merged, err := ApplyOverride(base, blob)
	if err != nil {
		l.logger.Warn("ignoring malformed snapshot override", zap.Error(err), zap.Int("bytes", len(blob)))
		return base, err
	}

	l.logger.Info("snapshot override applied",
		zap.String("range", string(merged.Range)),
		zap.String("origin", string(merged.Origin)),
		zap.Int64("scanned", merged.Scanned))
	return merged, nil
}
