package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// NotEnoughData — текст инсайта для ряда короче двух точек
const NotEnoughData = "Not enough data to summarize trends."

// Направления изменения ряда
const (
	DirectionIncreased = "increased"
	DirectionDecreased = "decreased"
	DirectionFlat      = "stayed flat"
)

// SeriesInsight считает инсайт по ряду.
// Пик — первая точка со строго максимальным значением.
// Процент изменения считается только при ненулевой первой точке.
func SeriesInsight(series []domain.SeriesPoint) domain.Insight {
	if len(series) < 2 {
		return domain.Insight{Text: NotEnoughData}
	}

	first := finite(series[0].Value)
	last := finite(series[len(series)-1].Value)

	peak := series[0]
	for _, p := range series {
		if finite(p.Value) > finite(peak.Value) {
			peak = p
		}
	}

	delta := last - first
	dir := DirectionFlat
	switch {
	case delta > 0:
		dir = DirectionIncreased
	case delta < 0:
		dir = DirectionDecreased
	}

	ins := domain.Insight{
		Enough:     true,
		Direction:  dir,
		Delta:      math.Abs(delta),
		FirstLabel: series[0].Label,
		LastLabel:  series[len(series)-1].Label,
		PeakLabel:  peak.Label,
		PeakValue:  finite(peak.Value),
	}

	change := ""
	if first != 0 {
		ins.HasPercent = true
		ins.PercentChange = int(round(ins.Delta / first * 100))
		change = fmt.Sprintf(" (%d%%)", ins.PercentChange)
	}

	ins.Text = fmt.Sprintf("Flagged activity %s by %s%s from %s → %s. Peak occurred at %s with %s flags.",
		dir, CompactNumber(ins.Delta), change, ins.FirstLabel, ins.LastLabel,
		ins.PeakLabel, CompactNumber(ins.PeakValue))
	return ins
}

// Average — округленное среднее ряда в компактной записи, "0" для пустого ряда
func Average(series []domain.SeriesPoint) string {
	values := make(mstats.Float64Data, 0, len(series))
	for _, p := range series {
		values = append(values, finite(p.Value))
	}
	mean, err := mstats.Mean(values)
	if err != nil { // пустой ряд
		return "0"
	}
	return CompactNumber(round(mean))
}

// PickLabels выбирает не более n равномерно распределенных элементов
// для подписей оси X. Первый и последний элементы всегда попадают в выборку.
func PickLabels[T any](items []T, n int) []T {
	if len(items) == 0 || n <= 0 {
		return []T{}
	}
	if len(items) <= n {
		return items
	}
	if n == 1 {
		return []T{items[0]}
	}
	step := float64(len(items)-1) / float64(n-1)
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[int(round(float64(i)*step))])
	}
	return out
}
