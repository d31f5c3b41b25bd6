package engine

import (
	"github.com/xela07ax/truverse-dashboard/internal/chart"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
	"github.com/xela07ax/truverse-dashboard/internal/stats"
)

// MaxEventRows — сколько событий показывает лента
const MaxEventRows = 6

// Категории разбивки в порядке отображения (полосы и дуги пончика)
var breakdownCategories = []struct {
	key, label, color string
	value             func(domain.Breakdown) int64
}{
	{"fakeNews", "Fake News", "#1B57F2", func(b domain.Breakdown) int64 { return b.FakeNews }},
	{"deepfakes", "Deepfakes", "#7C3AED", func(b domain.Breakdown) int64 { return b.Deepfakes }},
	{"manipulated", "Manipulated", "#06B6D4", func(b domain.Breakdown) int64 { return b.Manipulated }},
}

// BuildView собирает представление дашборда из снапшота.
// Функция чистая: снапшот не меняется, внешних вызовов нет.
func BuildView(s domain.MetricSnapshot) domain.DashboardView {
	view := domain.DashboardView{
		Range:      s.Range,
		RangeLabel: s.Range.Label(),
		Origin:     s.Origin,
		KPI:        buildKPI(s),
		Breakdown:  buildBreakdown(s.Breakdown),
		Series:     buildSeries(s.Series),
		Events:     EventRows(s.Events),
		Sources:    snapshot.Sources(),
	}

	view.Charts = domain.ChartsBlock{
		Line:  chart.LinePath(seriesData(view.Series.Points), chart.DefaultLineHeight),
		Bar:   chart.BarLayout(sourceData(view.Sources), chart.DefaultBarHeight),
		Donut: chart.DonutArcs(donutSlices(view.Breakdown), chart.DefaultDonutSize, chart.DefaultDonutThickness),
	}
	return view
}

func buildKPI(s domain.MetricSnapshot) domain.KPIBlock {
	scanned := float64(s.Scanned)
	return domain.KPIBlock{
		Scanned:      s.Scanned,
		Verified:     s.Verified,
		Flagged:      s.Flagged,
		Blocked:      s.Blocked,
		Reported:     s.Reported,
		ScannedText:  stats.GroupedNumber(s.Scanned),
		VerifiedText: stats.GroupedNumber(s.Verified),
		FlaggedText:  stats.GroupedNumber(s.Flagged),
		BlockedText:  stats.GroupedNumber(s.Blocked),
		ReportedText: stats.GroupedNumber(s.Reported),
		FlaggedRate:  stats.Percentage(float64(s.Flagged), scanned),
		BlockRate:    stats.Percentage(float64(s.Blocked), scanned),
		ReportRate:   stats.Percentage(float64(s.Reported), scanned),
		TrustScore: stats.TrustScore(stats.TrustInput{
			Scanned:  s.Scanned,
			Flagged:  s.Flagged,
			Blocked:  s.Blocked,
			Reported: s.Reported,
		}),
	}
}

func buildBreakdown(b domain.Breakdown) domain.BreakdownBlock {
	total := b.Total()
	block := domain.BreakdownBlock{
		Total:        total,
		TotalCompact: stats.CompactNumber(float64(total)),
		Rows:         make([]domain.BreakdownRow, 0, len(breakdownCategories)),
	}
	for _, c := range breakdownCategories {
		v := c.value(b)
		pct := stats.Share(float64(v), float64(total))
		block.Rows = append(block.Rows, domain.BreakdownRow{
			Key:     c.key,
			Label:   c.label,
			Color:   c.color,
			Value:   v,
			Percent: pct,
			Text:    stats.FormatPercent(pct) + "%",
		})
	}
	return block
}

func buildSeries(series []domain.SeriesPoint) domain.SeriesBlock {
	points := append([]domain.SeriesPoint{}, series...)

	picked := stats.PickLabels(points, 6)
	labels := make([]string, 0, len(picked))
	for _, p := range picked {
		labels = append(labels, p.Label)
	}

	return domain.SeriesBlock{
		Points:     points,
		Average:    stats.Average(points),
		AxisLabels: labels,
		Insight:    stats.SeriesInsight(points),
	}
}

// EventRows подставляет дефолты отображения и режет ленту до MaxEventRows
func EventRows(events []domain.TrustEvent) []domain.EventRow {
	n := min(len(events), MaxEventRows)
	rows := make([]domain.EventRow, 0, n)
	for _, e := range events[:n] {
		e = e.Normalized()
		rows = append(rows, domain.EventRow{TrustEvent: e, TypeLabel: e.Type.DisplayLabel()})
	}
	return rows
}

func seriesData(points []domain.SeriesPoint) []chart.Datum {
	out := make([]chart.Datum, 0, len(points))
	for _, p := range points {
		out = append(out, chart.Datum{Label: p.Label, Value: p.Value})
	}
	return out
}

func sourceData(rows []domain.SourceRow) []chart.Datum {
	out := make([]chart.Datum, 0, len(rows))
	for _, r := range rows {
		out = append(out, chart.Datum{Label: r.Short, Value: float64(r.Flags)})
	}
	return out
}

func donutSlices(b domain.BreakdownBlock) []chart.Slice {
	out := make([]chart.Slice, 0, len(b.Rows))
	for _, r := range b.Rows {
		out = append(out, chart.Slice{Label: r.Label, Value: float64(r.Value), Color: r.Color})
	}
	return out
}

// Score — индекс доверия и доли для произвольных счетчиков (калькулятор)
func Score(in stats.TrustInput) domain.TrustScoreResult {
	scanned := float64(in.Scanned)
	return domain.TrustScoreResult{
		Scanned:     in.Scanned,
		Flagged:     in.Flagged,
		Blocked:     in.Blocked,
		Reported:    in.Reported,
		Score:       stats.TrustScore(in),
		FlaggedRate: stats.Percentage(float64(in.Flagged), scanned),
		BlockRate:   stats.Percentage(float64(in.Blocked), scanned),
		ReportRate:  stats.Percentage(float64(in.Reported), scanned),
	}
}
