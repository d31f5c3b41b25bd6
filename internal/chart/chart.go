// Package chart строит геометрию графиков дашборда (линия, столбцы, пончик)
// и рендерит её в SVG. Все функции чистые: одни и те же данные дают
// одни и те же примитивы, состояния нет.
package chart

import (
	"math"
	"strconv"
)

// CanvasWidth — логическая ширина viewBox линейного и столбчатого графиков
const CanvasWidth = 680.0

// Datum — подписанное значение на входе генераторов
type Datum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// finite превращает NaN/Inf в ноль (аналог Number(v || 0))
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// fixed1 форматирует координату с одним знаком после запятой.
// Отрицательный ноль печатается как "0.0".
func fixed1(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// num — кратчайшая запись числа для SVG-атрибутов
func num(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
