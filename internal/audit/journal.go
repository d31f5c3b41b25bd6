package audit

/*
Файл journal.go реализует журнал событий доверия: неблокирующий прием событий
из HTTP-обработчиков и пакетную запись в хранилище.

- Non-blocking: Record никогда не ждет хранилище, при переполнении буфера событие
  сбрасывается (Load Shedding) и учитывается в метрике.
- Batching: запись пачками по 100 событий или по таймеру 500 мс.
- Drain: Stop закрывает вход, воркер вычитывает остатки и делает финальный flush.
*/

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultBufferSize    = 10000
	defaultBatchSize     = 100
	defaultFlushInterval = 500 * time.Millisecond
)

// Storage определяет, куда физически будут сохраняться события
type Storage interface {
	// WriteBatch сохраняет пачку событий за один раз
	WriteBatch(ctx context.Context, events []TrustEventRecord) error
}

// Recorder — то, что нужно обработчикам
type Recorder interface {
	Record(event TrustEventRecord) bool
}

type Option func(*Journal)

// WithBufferSize задает емкость очереди
func WithBufferSize(n int) Option {
	return func(j *Journal) { j.bufferSize = n }
}

// WithBatch задает размер пачки и период принудительного сброса
func WithBatch(size int, interval time.Duration) Option {
	return func(j *Journal) {
		j.batchSize = size
		j.flushInterval = interval
	}
}

// WithMetrics подключает заполненность буфера и счетчик сброшенных событий
func WithMetrics(fill prometheus.Gauge, dropped prometheus.Counter) Option {
	return func(j *Journal) {
		j.fill = fill
		j.dropped = dropped
	}
}

type Journal struct {
	ch     chan TrustEventRecord // Буфер для асинхронности
	repo   Storage               // Postgres или лог
	logger *zap.Logger
	wg     sync.WaitGroup

	// closeMu защищает закрытие канала от параллельных Record
	closeMu sync.RWMutex
	closed  bool

	bufferSize    int
	batchSize     int
	flushInterval time.Duration
	fill          prometheus.Gauge
	dropped       prometheus.Counter
}

func NewJournal(repo Storage, logger *zap.Logger, opts ...Option) *Journal {
	j := &Journal{
		repo:          repo,
		logger:        logger.With(zap.String("mod", "journal")),
		bufferSize:    defaultBufferSize,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.ch = make(chan TrustEventRecord, j.bufferSize)
	return j
}

func (j *Journal) Start() {
	j.wg.Add(1)
	go j.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет
func (j *Journal) Stop() {
	j.closeMu.Lock()
	if j.closed {
		j.closeMu.Unlock()
		return
	}
	j.closed = true
	j.logger.Info("stopping journal: closing channel and flushing buffer...")
	close(j.ch) // Новые события больше не принимаются
	j.closeMu.Unlock()

	j.wg.Wait() // Ждем, пока воркер вычитает остатки и вызовет flush()
	j.logger.Info("journal stopped gracefully")
}

// Record ставит событие в очередь. false — событие сброшено.
func (j *Journal) Record(event TrustEventRecord) bool {
	// Убеждаемся, что таймстемп всегда проставлен
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	j.closeMu.RLock()
	defer j.closeMu.RUnlock()

	if j.closed {
		j.logger.Warn("trust event dropped: journal is stopping", zap.String("id", event.ID))
		j.drop()
		return false
	}

	// используем стратегию Load Shedding (сброс нагрузки)
	select {
	case j.ch <- event:
		j.observeFill()
		return true
	default:
		j.logger.Error("journal_buffer_overflow",
			zap.String("id", event.ID),
			zap.String("trace_id", event.TraceID),
		)
		j.drop()
		return false
	}
}

func (j *Journal) drop() {
	if j.dropped != nil {
		j.dropped.Inc()
	}
}

func (j *Journal) observeFill() {
	if j.fill != nil {
		j.fill.Set(float64(len(j.ch)))
	}
}

func (j *Journal) worker() {
	defer j.wg.Done()

	batch := make([]TrustEventRecord, 0, j.batchSize)
	ticker := time.NewTicker(j.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) > 0 {
			// Используем Background, так как основной контекст может быть уже закрыт
			if err := j.repo.WriteBatch(context.Background(), batch); err != nil {
				j.logger.Error("journal flush failed", zap.Error(err), zap.Int("events", len(batch)))
			}
			batch = batch[:0]
		}
		j.observeFill()
	}

	for {
		select {
		case event, ok := <-j.ch:
			if !ok {
				// Канал закрыт в Stop(): остатки уже вычитаны, делаем финальный сброс
				flush()
				j.logger.Info("journal worker finished")
				return
			}
			batch = append(batch, event)
			if len(batch) >= j.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
