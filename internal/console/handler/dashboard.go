package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xela07ax/truverse-dashboard/internal/chart"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
	"github.com/xela07ax/truverse-dashboard/internal/stats"
)

// DashboardService Описываем, что нам нужно от состояния дашборда
type DashboardService interface {
	Current() domain.MetricSnapshot
	View(r domain.Range) domain.DashboardView
	RefreshEvents() []domain.EventRow
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(s DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetView отдает представление окна ?range=. Без параметра — окно текущего снапшота.
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(rng))
}

// GetChart рендерит SVG одного из графиков: line, bar, donut
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "chart")
	if kind != "line" && kind != "bar" && kind != "donut" {
		http.Error(w, "unknown chart", http.StatusNotFound)
		return
	}
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	view := h.service.View(rng)
	var svg string
	switch kind {
	case "line":
		svg = chart.RenderLine(view.Charts.Line, r.URL.Query().Get("stroke"), r.URL.Query().Get("fill"))
	case "bar":
		svg = chart.RenderBar(view.Charts.Bar, r.URL.Query().Get("fill"))
	case "donut":
		svg = chart.RenderDonut(view.Charts.Donut, "Total", view.Breakdown.TotalCompact)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// RefreshEvents перемешивает ленту событий
func (h *DashboardHandler) RefreshEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.RefreshEvents())
}

// TrustScore — калькулятор индекса доверия по счетчикам из query
func (h *DashboardHandler) TrustScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var in stats.TrustInput
	fields := []struct {
		name string
		dst  *int64
	}{
		{"scanned", &in.Scanned},
		{"flagged", &in.Flagged},
		{"blocked", &in.Blocked},
		{"reported", &in.Reported},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			http.Error(w, "invalid "+f.name, http.StatusBadRequest)
			return
		}
		*f.dst = v
	}
	writeJSON(w, http.StatusOK, engine.Score(in))
}

func (h *DashboardHandler) parseRange(w http.ResponseWriter, r *http.Request) (domain.Range, bool) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return h.service.Current().Range, true
	}
	rng, err := domain.ParseRange(raw)
	if errors.Is(err, domain.ErrUnknownRange) {
		http.Error(w, "unknown range", http.StatusBadRequest)
		return "", false
	}
	return rng, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
