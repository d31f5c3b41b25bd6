// Package snapshot хранит захардкоженные снапшоты дашборда, правила слияния
// внешнего блоба переопределения и источники этого блоба (файл, Redis, Postgres).
package snapshot

import (
	"fmt"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// Default — снапшот 24h, с которого стартует дашборд
func Default() domain.MetricSnapshot {
	return domain.MetricSnapshot{
		Range:    domain.Range24h,
		Scanned:  12431,
		Verified: 11147,
		Flagged:  1284,
		Blocked:  312,
		Reported: 98,
		Breakdown: domain.Breakdown{
			FakeNews:    520,
			Deepfakes:   410,
			Manipulated: 354,
		},
		Series: hourlySeries(),
		Events: []domain.TrustEvent{
			{Type: domain.EventBlocked, Label: "Blocked post • Fake News", Confidence: 92, Time: "12m ago"},
			{Type: domain.EventReported, Label: "Reported post • Manipulated image", Confidence: 88, Time: "41m ago"},
			{Type: domain.EventAck, Label: "User acknowledged warning", Confidence: 84, Time: "1h ago"},
			{Type: domain.EventFlagged, Label: "Flagged post • Deepfake risk", Confidence: 90, Time: "2h ago"},
		},
		Origin: domain.OriginDefault,
	}
}

// ForRange возвращает снапшот для выбранного окна.
// Снапшот из переопределения сохраняется как есть (меняется только Range),
// захардкоженный получает ряд, соответствующий окну.
func ForRange(prev domain.MetricSnapshot, r domain.Range) domain.MetricSnapshot {
	out := prev.Clone()
	out.Range = r
	if prev.Origin == domain.OriginOverride {
		return out
	}
	out.Series = SeriesFor(r)
	return out
}

// SeriesFor — захардкоженный ряд окна
func SeriesFor(r domain.Range) []domain.SeriesPoint {
	switch r {
	case domain.Range7d:
		return weeklySeries()
	case domain.Range30d:
		return monthlySeries()
	default:
		return hourlySeries()
	}
}

func hourlySeries() []domain.SeriesPoint {
	return []domain.SeriesPoint{
		{Label: "00:00", Value: 120},
		{Label: "04:00", Value: 180},
		{Label: "08:00", Value: 240},
		{Label: "12:00", Value: 310},
		{Label: "16:00", Value: 210},
		{Label: "20:00", Value: 350},
	}
}

func weeklySeries() []domain.SeriesPoint {
	return []domain.SeriesPoint{
		{Label: "Mon", Value: 260},
		{Label: "Tue", Value: 310},
		{Label: "Wed", Value: 280},
		{Label: "Thu", Value: 360},
		{Label: "Fri", Value: 420},
		{Label: "Sat", Value: 330},
		{Label: "Sun", Value: 390},
	}
}

// monthlySeries — десять недельных точек с "пилой" на нечетных неделях
func monthlySeries() []domain.SeriesPoint {
	out := make([]domain.SeriesPoint, 0, 10)
	for i := 0; i < 10; i++ {
		v := 240 + i*18
		if i%2 == 1 {
			v += 30
		}
		out = append(out, domain.SeriesPoint{Label: fmt.Sprintf("W%d", i+1), Value: float64(v)})
	}
	return out
}

// Sources — таблица рискованных источников (мок расширения).
// Short используется как подпись столбца на графике социальных источников.
func Sources() []domain.SourceRow {
	return []domain.SourceRow{
		{Source: "Public Groups", Short: "Public Groups", Flags: 410, Confidence: 91},
		{Source: "Breaking News Pages", Short: "News Pages", Flags: 352, Confidence: 88},
		{Source: "Reposts / Shares", Short: "Reposts", Flags: 278, Confidence: 86},
		{Source: "Unknown Links", Short: "Links", Flags: 244, Confidence: 90},
	}
}
