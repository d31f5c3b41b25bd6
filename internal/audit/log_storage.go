package audit

import (
	"context"

	"go.uber.org/zap"
)

// LogStorage пишет пачки событий в лог. Используется, когда база не настроена.
type LogStorage struct {
	logger *zap.Logger
}

func NewLogStorage(logger *zap.Logger) *LogStorage {
	return &LogStorage{logger: logger.Named("journal-log")}
}

func (s *LogStorage) WriteBatch(ctx context.Context, events []TrustEventRecord) error {
	for _, e := range events {
		s.logger.Info("trust event",
			zap.String("id", e.ID),
			zap.String("trace_id", e.TraceID),
			zap.String("type", string(e.Type)),
			zap.String("label", e.Label),
			zap.Int("confidence", e.Confidence),
			zap.String("source", e.Source),
			zap.Time("ts", e.Timestamp),
		)
	}
	return nil
}
