package engine

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TraceHeader — заголовок, которым расширение связывает событие с запросом
const TraceHeader = "X-Trace-ID"

const maxTraceIDLen = 64

type ctxKey int

const (
	traceIDKey ctxKey = iota
	loggerKey
)

// TracingMiddleware назначает запросу trace id и логгер с полем trace_id.
// Чужой id принимается только в безопасном виде, иначе генерируется новый.
func TracingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. id от расширения/прокси или новый
			traceID := r.Header.Get(TraceHeader)
			if !validTraceID(traceID) {
				traceID = uuid.NewString()
			}

			// 2. Логгер запроса: trace_id + request_id от chi, если он есть
			fields := []zap.Field{zap.String("trace_id", traceID)}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}

			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			ctx = context.WithValue(ctx, loggerKey, logger.With(fields...))

			// 3. Клиент тоже видит id своего запроса
			w.Header().Set(TraceHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceID достает id запроса; вне запроса — нулевой UUID
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return uuid.Nil.String()
}

// Logger возвращает логгер запроса, иначе fallback
func Logger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
