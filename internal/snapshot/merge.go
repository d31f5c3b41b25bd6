package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// labelPolicy вырезает любую разметку из подписей внешнего блоба
var labelPolicy = bluemonday.StrictPolicy()

// ApplyOverride вливает блоб переопределения в base.
// 1. Блоб обязан быть JSON-объектом, иначе ErrNotObject и base без изменений.
// 2. Скалярные счетчики заменяются поштучно, breakdown сливается по полям.
// 3. series/events заменяются только непустыми массивами.
// Если хотя бы одно поле применилось, Origin становится override.
func ApplyOverride(base domain.MetricSnapshot, blob []byte) (domain.MetricSnapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return base, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if fields == nil { // литерал null
		return base, ErrNotObject
	}

	out := base.Clone()
	changed := false

	counters := map[string]*int64{
		"scanned":  &out.Scanned,
		"verified": &out.Verified,
		"flagged":  &out.Flagged,
		"blocked":  &out.Blocked,
		"reported": &out.Reported,
	}
	for key, dst := range counters {
		if raw, ok := fields[key]; ok {
			if v, ok := parseCount(raw); ok {
				*dst = v
				changed = true
			}
		}
	}

	if raw, ok := fields["range"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if r, err := domain.ParseRange(s); err == nil && s != "" {
				out.Range = r
				changed = true
			}
		}
	}

	if raw, ok := fields["breakdown"]; ok && mergeBreakdown(&out.Breakdown, raw) {
		changed = true
	}

	if raw, ok := fields["series"]; ok {
		if series := parseSeries(raw); len(series) > 0 {
			out.Series = series
			changed = true
		}
	}

	if raw, ok := fields["events"]; ok {
		if events := parseEvents(raw); len(events) > 0 {
			out.Events = events
			changed = true
		}
	}

	if changed {
		out.Origin = domain.OriginOverride
	}
	return out, nil
}

func mergeBreakdown(dst *domain.Breakdown, raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil || fields == nil {
		return false
	}
	changed := false
	for key, p := range map[string]*int64{
		"fakeNews":    &dst.FakeNews,
		"deepfakes":   &dst.Deepfakes,
		"manipulated": &dst.Manipulated,
	} {
		if v, ok := fields[key]; ok {
			if n, ok := parseCount(v); ok {
				*p = n
				changed = true
			}
		}
	}
	return changed
}

func parseSeries(raw json.RawMessage) []domain.SeriesPoint {
	var items []map[string]json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]domain.SeriesPoint, 0, len(items))
	for _, it := range items {
		p := domain.SeriesPoint{Label: parseLabel(it["label"])}
		if v, ok := parseNumber(it["value"]); ok {
			p.Value = v
		}
		out = append(out, p)
	}
	return out
}

func parseEvents(raw json.RawMessage) []domain.TrustEvent {
	var items []map[string]json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]domain.TrustEvent, 0, len(items))
	for _, it := range items {
		ev := domain.TrustEvent{
			Type:       domain.EventType(parseString(it["type"])),
			Label:      parseLabel(it["label"]),
			Time:       parseLabel(it["time"]),
			Confidence: domain.DefaultEventConfidence,
		}
		if v, ok := parseNumber(it["confidence"]); ok {
			ev.Confidence = int(math.Max(0, math.Min(100, math.Round(v))))
		}
		out = append(out, ev.Normalized())
	}
	return out
}

// parseCount разбирает счетчик: число или числовая строка, null -> 0.
// Дробная часть отбрасывается, отрицательные значения зажимаются в 0.
// Второй результат false — поле не применяется.
func parseCount(raw json.RawMessage) (int64, bool) {
	if isNull(raw) {
		return 0, true
	}
	v, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	switch {
	case v <= 0:
		return 0, true
	case v >= math.MaxInt64:
		return math.MaxInt64, true
	}
	return int64(v), true
}

// parseNumber принимает JSON-число или строку с числом
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f, true
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// parseLabel — строка без HTML-тегов. Сущности раскрываются обратно,
// экранирование делает слой отрисовки.
func parseLabel(raw json.RawMessage) string {
	s := parseString(raw)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(s)))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
