package chart

import "math"

const (
	DefaultBarHeight = 160.0

	barPadX     = 26.0
	barPadY     = 14.0
	barGap      = 14.0
	barMinWidth = 18.0
)

// BarRect — прямоугольник столбца в координатах viewBox
type BarRect struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type BarGeometry struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Baseline float64   `json:"baseline"`
	Bars     []BarRect `json:"bars"`
}

// BarLayout раскладывает столбцы слева направо с фиксированным зазором.
// Ширина столбца не меньше barMinWidth, высота нормируется на максимум ряда.
func BarLayout(data []Datum, height float64) BarGeometry {
	if height <= 0 {
		height = DefaultBarHeight
	}
	w, h := CanvasWidth, height
	innerW := w - barPadX*2
	innerH := h - barPadY*2

	geo := BarGeometry{
		Width:    w,
		Height:   h,
		Baseline: h - barPadY,
		Bars:     make([]BarRect, 0, len(data)),
	}
	if len(data) == 0 {
		return geo
	}

	maxV := 1.0
	for _, d := range data {
		maxV = math.Max(maxV, finite(d.Value))
	}

	n := float64(len(data))
	barW := math.Max(barMinWidth, (innerW-barGap*(n-1))/n)

	for i, d := range data {
		v := finite(d.Value)
		bh := clamp(v/maxV, 0, 1) * innerH
		geo.Bars = append(geo.Bars, BarRect{
			Label:  d.Label,
			Value:  v,
			X:      barPadX + float64(i)*(barW+barGap),
			Y:      barPadY + (innerH - bh),
			Width:  barW,
			Height: bh,
		})
	}
	return geo
}
