package chart

import (
	"math"
	"strings"
)

const (
	DefaultLineHeight = 220.0

	linePadX = 26.0
	linePadY = 18.0
)

// LinePoint — вершина ломаной в координатах viewBox
type LinePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// LineGeometry — всё, что нужно для отрисовки линейного графика
type LineGeometry struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Points   []LinePoint `json:"points"`
	Path     string      `json:"path"` // Ломаная "M x y L x y ..."
	Area     string      `json:"area"` // Та же ломаная, замкнутая на базовую линию
	GridY    []float64   `json:"grid_y"`
	Baseline float64     `json:"baseline"`
}

// LinePath раскладывает ряд по ширине холста.
// Минимум берется не выше нуля, максимум не ниже единицы, поэтому
// знаменатель нормировки не обнуляется. Для N<=1 шаг по X равен нулю.
func LinePath(data []Datum, height float64) LineGeometry {
	if height <= 0 {
		height = DefaultLineHeight
	}
	w, h := CanvasWidth, height
	innerH := h - linePadY*2

	geo := LineGeometry{
		Width:    w,
		Height:   h,
		Points:   make([]LinePoint, 0, len(data)),
		Baseline: h - linePadY,
	}
	for _, t := range []float64{0.25, 0.5, 0.75} {
		geo.GridY = append(geo.GridY, linePadY+innerH*t)
	}
	if len(data) == 0 {
		return geo
	}

	maxV, minV := 1.0, 0.0
	for _, d := range data {
		v := finite(d.Value)
		maxV = math.Max(maxV, v)
		minV = math.Min(minV, v)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	xStep := 0.0
	if len(data) > 1 {
		xStep = (w - linePadX*2) / float64(len(data)-1)
	}

	var path strings.Builder
	for i, d := range data {
		v := finite(d.Value)
		p := LinePoint{
			Label: d.Label,
			Value: v,
			X:     linePadX + float64(i)*xStep,
			Y:     linePadY + innerH*(1-(v-minV)/span),
		}
		geo.Points = append(geo.Points, p)

		if i == 0 {
			path.WriteString("M ")
		} else {
			path.WriteString(" L ")
		}
		path.WriteString(fixed1(p.X))
		path.WriteByte(' ')
		path.WriteString(fixed1(p.Y))
	}
	geo.Path = path.String()

	lastX := linePadX + float64(len(data)-1)*xStep
	geo.Area = geo.Path +
		" L " + fixed1(lastX) + " " + fixed1(geo.Baseline) +
		" L " + fixed1(linePadX) + " " + fixed1(geo.Baseline) + " Z"
	return geo
}
