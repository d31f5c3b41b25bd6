package audit

import (
	"time"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// TrustEventRecord — событие доверия, присланное расширением, в том виде,
// в котором оно уходит в хранилище
type TrustEventRecord struct {
	ID         string           `json:"id"`       // UUID события
	TraceID    string           `json:"trace_id"` // Сквозной ID запроса
	Type       domain.EventType `json:"type"`
	Label      string           `json:"label"`
	Confidence int              `json:"confidence"`
	Source     string           `json:"source"` // Откуда пришло ("extension", "console", ...)
	Timestamp  time.Time        `json:"timestamp"`
}
