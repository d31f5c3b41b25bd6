package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/console/service"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
	"github.com/xela07ax/truverse-dashboard/internal/infra/auth"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

const maxSnapshotBytes = 1 << 20

type SnapshotReplacer interface {
	Replace(ctx context.Context, blob []byte, author string) (*service.ReplaceResult, error)
}

type SnapshotHandler struct {
	service SnapshotReplacer
	logger  *zap.Logger
}

func NewSnapshotHandler(s SnapshotReplacer, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{service: s, logger: logger.Named("snapshot-api")}
}

// Replace принимает новый блоб переопределения (PUT, требует snapshot.write)
func (h *SnapshotHandler) Replace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		http.Error(w, "snapshot too large", http.StatusRequestEntityTooLarge)
		return
	}

	author := auth.UserIDFromContext(r.Context())
	log := engine.Logger(r.Context(), h.logger).With(zap.String("author", author))

	res, err := h.service.Replace(r.Context(), body, author)
	switch {
	case err == nil:
		log.Info("snapshot replaced", zap.Int("bytes", len(body)))
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, snapshot.ErrNotObject):
		http.Error(w, "snapshot must be a JSON object", http.StatusBadRequest)
	case errors.Is(err, service.ErrReadOnly):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Error("snapshot replace failed", zap.Error(err))
		http.Error(w, "failed to store snapshot", http.StatusInternalServerError)
	}
}
