package domain

import (
	"errors"
	"strings"
)

// Range — временное окно дашборда
type Range string

const (
	Range24h Range = "24h"
	Range7d  Range = "7d"
	Range30d Range = "30d"
)

var ErrUnknownRange = errors.New("unknown dashboard range")

// Ranges возвращает все поддерживаемые окна в порядке отображения в селекторе
func Ranges() []Range {
	return []Range{Range24h, Range7d, Range30d}
}

// ParseRange разбирает значение селектора. Пустая строка — окно по умолчанию (24h).
func ParseRange(s string) (Range, error) {
	switch Range(strings.ToLower(strings.TrimSpace(s))) {
	case "", Range24h:
		return Range24h, nil
	case Range7d:
		return Range7d, nil
	case Range30d:
		return Range30d, nil
	}
	return "", ErrUnknownRange
}

// Label — подпись окна для текста под графиком
func (r Range) Label() string {
	switch r {
	case Range7d:
		return "last 7 days"
	case Range30d:
		return "last 30 days"
	default:
		return "last 24 hours"
	}
}

// Origin показывает, откуда взялся снапшот.
// Заменяет эвристику "scanned совпадает с дефолтом".
type Origin string

const (
	OriginDefault  Origin = "default"  // Захардкоженный снапшот
	OriginOverride Origin = "override" // В снапшот влит внешний блоб
)

// Breakdown — разбивка детекций по категориям
type Breakdown struct {
	FakeNews    int64 `json:"fakeNews"`
	Deepfakes   int64 `json:"deepfakes"`
	Manipulated int64 `json:"manipulated"`
}

// Total — сумма категорий. С Flagged не сверяется (это артефакт отображения).
func (b Breakdown) Total() int64 {
	return b.FakeNews + b.Deepfakes + b.Manipulated
}

// SeriesPoint — точка временного ряда. Порядок в слайсе = порядок отображения.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MetricSnapshot — агрегированные счетчики расширения за окно
type MetricSnapshot struct {
	Range     Range         `json:"range"`
	Scanned   int64         `json:"scanned"`
	Verified  int64         `json:"verified"`
	Flagged   int64         `json:"flagged"`
	Blocked   int64         `json:"blocked"`
	Reported  int64         `json:"reported"`
	Breakdown Breakdown     `json:"breakdown"`
	Series    []SeriesPoint `json:"series"`
	Events    []TrustEvent  `json:"events"`
	Origin    Origin        `json:"origin"`
}

// Clone возвращает глубокую копию (слайсы не разделяются между запросами)
func (s MetricSnapshot) Clone() MetricSnapshot {
	out := s
	if s.Series != nil {
		out.Series = append([]SeriesPoint(nil), s.Series...)
	}
	if s.Events != nil {
		out.Events = append([]TrustEvent(nil), s.Events...)
	}
	return out
}
