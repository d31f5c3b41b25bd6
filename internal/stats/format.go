// Package stats содержит производную статистику дашборда: форматирование чисел,
// индекс доверия и вспомогательные расчеты для блоков представления.
package stats

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// round округляет половину вверх (как Math.round), а не от нуля
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percentage — доля numerator от denominator в процентах с одним знаком.
// При нулевом знаменателе возвращает 0.
func Percentage(numerator, denominator float64) float64 {
	numerator, denominator = finite(numerator), finite(denominator)
	if denominator == 0 {
		return 0
	}
	return round(numerator/denominator*1000) / 10
}

// CompactNumber сокращает число до K/M с одним знаком: 1500 -> "1.5K"
func CompactNumber(n float64) string {
	n = finite(n)
	switch {
	case n >= 1_000_000:
		return shortest(round(n/100_000)/10) + "M"
	case n >= 1_000:
		return shortest(round(n/100)/10) + "K"
	default:
		return shortest(n)
	}
}

// GroupedNumber печатает число с разделителями тысяч: 12431 -> "12,431"
func GroupedNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent — текст процента с одним знаком после запятой
func FormatPercent(v float64) string {
	v = finite(v)
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func shortest(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
