package domain

import "github.com/xela07ax/truverse-dashboard/internal/chart"

// DashboardView — всё, что страница дашборда показывает для одного окна
type DashboardView struct {
	Range      Range          `json:"range"`
	RangeLabel string         `json:"range_label"` // "last 24 hours"
	Origin     Origin         `json:"origin"`
	KPI        KPIBlock       `json:"kpi"`
	Breakdown  BreakdownBlock `json:"breakdown"`
	Series     SeriesBlock    `json:"series"`
	Charts     ChartsBlock    `json:"charts"`
	Events     []EventRow     `json:"events"`
	Sources    []SourceRow    `json:"sources"`
}

// KPIBlock — счетчики и доли верхней панели
type KPIBlock struct {
	Scanned      int64   `json:"scanned"`
	Verified     int64   `json:"verified"`
	Flagged      int64   `json:"flagged"`
	Blocked      int64   `json:"blocked"`
	Reported     int64   `json:"reported"`
	ScannedText  string  `json:"scanned_text"` // "12,431"
	VerifiedText string  `json:"verified_text"`
	FlaggedText  string  `json:"flagged_text"`
	BlockedText  string  `json:"blocked_text"`
	ReportedText string  `json:"reported_text"`
	FlaggedRate  float64 `json:"flagged_rate"` // Проценты от scanned
	BlockRate    float64 `json:"block_rate"`
	ReportRate   float64 `json:"report_rate"`
	TrustScore   int     `json:"trust_score"`
}

// BreakdownRow — полоса одной категории
type BreakdownRow struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Value   int64   `json:"value"`
	Percent float64 `json:"percent"`
	Text    string  `json:"text"` // "40.5%"
}

type BreakdownBlock struct {
	Total        int64          `json:"total"`
	TotalCompact string         `json:"total_compact"`
	Rows         []BreakdownRow `json:"rows"`
}

// Insight — сводка тренда ряда от первой точки к последней
type Insight struct {
	Enough        bool    `json:"enough"`
	Direction     string  `json:"direction,omitempty"`
	Delta         float64 `json:"delta"`
	PercentChange int     `json:"percent_change"`
	HasPercent    bool    `json:"has_percent"`
	FirstLabel    string  `json:"first_label,omitempty"`
	LastLabel     string  `json:"last_label,omitempty"`
	PeakLabel     string  `json:"peak_label,omitempty"`
	PeakValue     float64 `json:"peak_value"`
	Text          string  `json:"text"`
}

type SeriesBlock struct {
	Points     []SeriesPoint `json:"points"`
	Average    string        `json:"average"` // Компактная запись среднего
	AxisLabels []string      `json:"axis_labels"`
	Insight    Insight       `json:"insight"`
}

// ChartsBlock — геометрия трех графиков, готовая к отрисовке на клиенте
type ChartsBlock struct {
	Line  chart.LineGeometry  `json:"line"`
	Bar   chart.BarGeometry   `json:"bar"`
	Donut chart.DonutGeometry `json:"donut"`
}

// EventRow — строка ленты событий с подставленными дефолтами
type EventRow struct {
	TrustEvent
	TypeLabel string `json:"type_label"` // "Blocked", "Acknowledged", ...
}

// SourceRow — строка таблицы рискованных источников
type SourceRow struct {
	Source     string `json:"source"`
	Short      string `json:"short"` // Подпись столбца на графике
	Flags      int64  `json:"flags"`
	Confidence int    `json:"confidence"`
}
