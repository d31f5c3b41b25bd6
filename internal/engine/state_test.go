package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

type switchSource struct {
	mu   sync.Mutex
	data []byte
	err  error
}

func (s *switchSource) set(data string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data, s.err = []byte(data), err
}

func (s *switchSource) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.data) == 0 {
		return nil, snapshot.ErrNoSnapshot
	}
	return s.data, nil
}

func newTestState(src snapshot.Source, reg prometheus.Registerer) *State {
	logger := zap.NewNop()
	return NewState(snapshot.NewLoader(src, logger), NewMetrics(reg), logger)
}

func TestState_ReloadAppliesOverride(t *testing.T) {
	src := &switchSource{}
	src.set(`{"scanned": 100, "flagged": 100}`, nil)
	st := newTestState(src, nil)

	require.NoError(t, st.Reload(context.Background()))

	cur := st.Current()
	assert.Equal(t, int64(100), cur.Scanned)
	assert.Equal(t, domain.OriginOverride, cur.Origin)

	// Снапшот из переопределения не подменяет ряд при смене окна
	view := st.View(domain.Range7d)
	assert.Equal(t, 15, view.KPI.TrustScore)
	assert.Equal(t, "last 7 days", view.RangeLabel)
	assert.Equal(t, "00:00", view.Series.Points[0].Label)
}

func TestState_DefaultSnapshotFollowsRange(t *testing.T) {
	st := newTestState(&switchSource{}, nil)
	require.NoError(t, st.Reload(context.Background()))

	view := st.View(domain.Range30d)
	assert.Equal(t, []string{"W1", "W3", "W5", "W6", "W8", "W10"}, view.Series.AxisLabels)
	assert.Equal(t, domain.Range24h, st.Current().Range)
}

func TestState_ReloadFailureKeepsPrevious(t *testing.T) {
	src := &switchSource{}
	src.set(`{"scanned": 500}`, nil)
	st := newTestState(src, nil)
	require.NoError(t, st.Reload(context.Background()))

	boom := errors.New("redis down")
	src.set("", boom)
	assert.ErrorIs(t, st.Reload(context.Background()), boom)
	assert.Equal(t, int64(500), st.Current().Scanned)

	// Переопределение удалено — возвращаемся к дефолту
	src.set("", nil)
	require.NoError(t, st.Reload(context.Background()))
	assert.Equal(t, snapshot.Default(), st.Current())
}

func TestState_MalformedOverrideIsIgnored(t *testing.T) {
	src := &switchSource{}
	src.set(`["not", "an", "object"]`, nil)
	st := newTestState(src, nil)

	require.NoError(t, st.Reload(context.Background()))
	assert.Equal(t, domain.OriginDefault, st.Current().Origin)
}

func TestState_MalformedOverrideKeepsPrevious(t *testing.T) {
	src := &switchSource{}
	src.set(`{"scanned": 500}`, nil)
	st := newTestState(src, nil)
	require.NoError(t, st.Reload(context.Background()))

	src.set(`[1, 2, 3]`, nil)
	require.NoError(t, st.Reload(context.Background()))

	cur := st.Current()
	assert.Equal(t, int64(500), cur.Scanned)
	assert.Equal(t, domain.OriginOverride, cur.Origin)

	// Пустой источник по-прежнему возвращает к дефолту
	src.set("", nil)
	require.NoError(t, st.Reload(context.Background()))
	assert.Equal(t, domain.OriginDefault, st.Current().Origin)
}

func TestState_RefreshEvents(t *testing.T) {
	var events []string
	for i := 0; i < 8; i++ {
		events = append(events, fmt.Sprintf(`{"type":"blocked","label":"event %d"}`, i))
	}
	src := &switchSource{}
	src.set(fmt.Sprintf(`{"events": [%s]}`, strings.Join(events, ",")), nil)
	st := newTestState(src, nil)
	require.NoError(t, st.Reload(context.Background()))

	rows := st.RefreshEvents()
	require.Len(t, rows, MaxEventRows)

	seen := map[string]bool{}
	for _, r := range rows {
		assert.Regexp(t, `^event [0-7]$`, r.Label)
		assert.False(t, seen[r.Label], "duplicate %s", r.Label)
		seen[r.Label] = true
	}
	assert.Len(t, st.Current().Events, MaxEventRows)
}

func TestState_MetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	st := newTestState(&switchSource{}, reg)
	require.NoError(t, st.Reload(context.Background()))
	st.View(domain.Range24h)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 92.0, values["truverse_trust_score"])
	assert.Equal(t, 1.0, values["truverse_view_requests_total"])
	assert.Equal(t, 1.0, values["truverse_snapshot_reloads_total"])
}

func TestState_ConcurrentAccess(t *testing.T) {
	src := &switchSource{}
	src.set(`{"scanned": 10}`, nil)
	st := newTestState(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _ = st.Reload(context.Background()) }()
		go func() { defer wg.Done(); st.View(domain.Range7d) }()
		go func() { defer wg.Done(); st.RefreshEvents() }()
	}
	wg.Wait()
	assert.Equal(t, int64(10), st.Current().Scanned)
}
