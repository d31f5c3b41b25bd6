package domain

// EventType — тип события доверия в ленте дашборда
type EventType string

const (
	EventBlocked  EventType = "blocked"
	EventReported EventType = "reported"
	EventAck      EventType = "ack"
	EventFlagged  EventType = "flagged"
)

const (
	DefaultEventLabel      = "Trust event"
	DefaultEventConfidence = 90
	DefaultEventTime       = "Just now"
)

// ParseEventType возвращает тип и признак того, что он известен
func ParseEventType(s string) (EventType, bool) {
	switch EventType(s) {
	case EventBlocked, EventReported, EventAck, EventFlagged:
		return EventType(s), true
	}
	return EventFlagged, false
}

// DisplayLabel — текст пилюли в строке события
func (t EventType) DisplayLabel() string {
	switch t {
	case EventBlocked:
		return "Blocked"
	case EventReported:
		return "Reported"
	case EventAck:
		return "Acknowledged"
	default:
		return "Flagged"
	}
}

// TrustEvent — действие расширения или пользователя (блокировка, жалоба и т.д.)
type TrustEvent struct {
	Type       EventType `json:"type"`
	Label      string    `json:"label"`
	Confidence int       `json:"confidence"` // 0..100
	Time       string    `json:"time"`       // Относительное время ("12m ago")
}

// Normalized подставляет дефолты отображения для пустых полей
func (e TrustEvent) Normalized() TrustEvent {
	if t, ok := ParseEventType(string(e.Type)); ok {
		e.Type = t
	} else {
		e.Type = EventFlagged
	}
	if e.Label == "" {
		e.Label = DefaultEventLabel
	}
	if e.Time == "" {
		e.Time = DefaultEventTime
	}
	e.Confidence = ClampConfidence(e.Confidence)
	return e
}

// ClampConfidence ограничивает уверенность диапазоном 0..100
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
