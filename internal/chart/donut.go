package chart

import "math"

const (
	DefaultDonutSize      = 180.0
	DefaultDonutThickness = 18.0
	defaultSliceColor     = "#1B57F2"
)

// Slice — категория пончика
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// DonutArc — пара stroke-dasharray/stroke-dashoffset для одной категории.
// Offset уже со знаком минус, его можно подставлять в атрибут как есть.
type DonutArc struct {
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Value    float64 `json:"value"`
	Fraction float64 `json:"fraction"`
	Dash     float64 `json:"dash"`
	Gap      float64 `json:"gap"`
	Offset   float64 `json:"offset"`
}

type DonutGeometry struct {
	Size          float64    `json:"size"`
	Thickness     float64    `json:"thickness"`
	Radius        float64    `json:"radius"`
	Center        float64    `json:"center"`
	Circumference float64    `json:"circumference"`
	Rotation      float64    `json:"rotation"` // Градусы: дуги начинаются на 12 часов
	Arcs          []DonutArc `json:"arcs"`
}

// DonutArcs переводит веса категорий в дуги окружности.
// Начало каждой дуги — накопленная доля предыдущих категорий во входном порядке.
// Если все веса нулевые, сумма принимается за 1, и все дуги получаются пустыми.
func DonutArcs(slices []Slice, size, thickness float64) DonutGeometry {
	if size <= 0 {
		size = DefaultDonutSize
	}
	if thickness <= 0 {
		thickness = DefaultDonutThickness
	}
	r := (size - thickness) / 2
	circ := 2 * math.Pi * r

	geo := DonutGeometry{
		Size:          size,
		Thickness:     thickness,
		Radius:        r,
		Center:        size / 2,
		Circumference: circ,
		Rotation:      -90,
		Arcs:          make([]DonutArc, 0, len(slices)),
	}

	total := 0.0
	for _, s := range slices {
		total += finite(s.Value)
	}
	if total == 0 {
		total = 1
	}

	acc := 0.0
	for _, s := range slices {
		v := finite(s.Value)
		frac := v / total
		dash := frac * circ
		offset := -acc * circ
		if offset == 0 {
			offset = 0 // без отрицательного нуля в JSON
		}
		color := s.Color
		if color == "" {
			color = defaultSliceColor
		}
		geo.Arcs = append(geo.Arcs, DonutArc{
			Label:    s.Label,
			Color:    color,
			Value:    v,
			Fraction: frac,
			Dash:     dash,
			Gap:      circ - dash,
			Offset:   offset,
		})
		acc += frac
	}
	return geo
}
