package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/audit"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
)

// eventRequest — событие доверия от расширения. Без confidence берется дефолт.
type eventRequest struct {
	Type       string `json:"type"`
	Label      string `json:"label"`
	Confidence *int   `json:"confidence"`
	Source     string `json:"source"`
}

type EventsHandler struct {
	journal audit.Recorder
	logger  *zap.Logger
}

func NewEventsHandler(journal audit.Recorder, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{journal: journal, logger: logger.Named("events-api")}
}

// Record ставит событие в очередь журнала и сразу отвечает 202
func (h *EventsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	confidence := domain.DefaultEventConfidence
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	ev := domain.TrustEvent{
		Type:       domain.EventType(req.Type),
		Label:      req.Label,
		Confidence: confidence,
	}.Normalized()

	source := req.Source
	if source == "" {
		source = "extension"
	}

	rec := audit.TrustEventRecord{
		ID:         uuid.NewString(),
		TraceID:    engine.TraceID(r.Context()),
		Type:       ev.Type,
		Label:      ev.Label,
		Confidence: ev.Confidence,
		Source:     source,
		Timestamp:  time.Now().UTC(),
	}
	if !h.journal.Record(rec) {
		// Очередь переполнена: клиент может повторить позже
		engine.Logger(r.Context(), h.logger).Warn("journal queue is full, event rejected",
			zap.String("event_id", rec.ID), zap.String("type", string(rec.Type)))
		http.Error(w, "journal is busy", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": rec.ID, "trace_id": rec.TraceID})
}
