package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

// State держит текущий снапшот (дефолт + переопределение) и отдает
// из него представления для любого окна.
type State struct {
	mu      sync.RWMutex
	current domain.MetricSnapshot

	loader  *snapshot.Loader
	metrics *Metrics
	logger  *zap.Logger
}

func NewState(loader *snapshot.Loader, metrics *Metrics, logger *zap.Logger) *State {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &State{
		current: snapshot.Default(),
		loader:  loader,
		metrics: metrics,
		logger:  logger.With(zap.String("mod", "state")),
	}
}

// Reload перечитывает источник и вливает блоб в дефолтный снапшот.
// 1. Ничего не сохранено — возвращаемся к дефолту.
// 2. Блоб битый — он игнорируется, остается прежний снапшот.
// 3. Источник недоступен — держим прежний снапшот и возвращаем ошибку.
func (s *State) Reload(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}

	next, err := s.loader.Load(ctx, snapshot.Default())
	switch {
	case err == nil:
		s.metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	case errors.Is(err, snapshot.ErrNoSnapshot):
		s.metrics.SnapshotReloads.WithLabelValues("empty").Inc()
	case errors.Is(err, snapshot.ErrNotObject):
		s.metrics.SnapshotReloads.WithLabelValues("invalid").Inc()
		return nil
	default:
		s.metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Current — копия текущего снапшота
func (s *State) Current() domain.MetricSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Snapshot — снапшот для окна r (см. snapshot.ForRange)
func (s *State) Snapshot(r domain.Range) domain.MetricSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.ForRange(s.current, r)
}

// View собирает представление окна и пишет метрики
func (s *State) View(r domain.Range) domain.DashboardView {
	start := time.Now()
	view := BuildView(s.Snapshot(r))

	s.metrics.ViewDuration.WithLabelValues(string(r)).Observe(time.Since(start).Seconds())
	s.metrics.ViewRequests.WithLabelValues(string(r)).Inc()
	s.metrics.TrustScore.Set(float64(view.KPI.TrustScore))
	return view
}

// RefreshEvents перемешивает ленту событий и оставляет не больше MaxEventRows.
// Результат сохраняется: следующее представление покажет ту же ленту.
func (s *State) RefreshEvents() []domain.EventRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := append([]domain.TrustEvent(nil), s.current.Events...)
	rand.Shuffle(len(events), func(i, j int) {
		events[i], events[j] = events[j], events[i]
	})
	if len(events) > MaxEventRows {
		events = events[:MaxEventRows]
	}
	s.current.Events = events
	return EventRows(events)
}
