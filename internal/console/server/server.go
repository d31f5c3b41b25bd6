package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/console/handler"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
	"github.com/xela07ax/truverse-dashboard/internal/infra/auth"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger

	// Интерфейс для проверки токенов (RS256)
	// Реализуется через embedding auth.Verifier в AuthService
	authValidator auth.TokenValidator
	metrics       http.Handler // /metrics, nil — не отдаем

	// Обработчики
	authHandler     *handler.AuthHandler      // /auth/token
	dashHandler     *handler.DashboardHandler // /api/v1/dashboard
	eventsHandler   *handler.EventsHandler    // /api/v1/events
	snapshotHandler *handler.SnapshotHandler  // /api/v1/dashboard/snapshot
}

// NewConsoleServer инициализирует API дашборда со всеми зависимостями
func NewConsoleServer(
	logger *zap.Logger,
	validator auth.TokenValidator,
	metrics http.Handler,
	authH *handler.AuthHandler,
	dashH *handler.DashboardHandler,
	eventsH *handler.EventsHandler,
	snapshotH *handler.SnapshotHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:          chi.NewRouter(),
		logger:          logger.Named("console-api"),
		authValidator:   validator,
		metrics:         metrics,
		authHandler:     authH,
		dashHandler:     dashH,
		eventsHandler:   eventsH,
		snapshotHandler: snapshotH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(engine.TracingMiddleware(s.logger))

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		if s.metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.metrics)
		}

		// Логин доступен без токена (если настроены ключи)
		if s.authHandler != nil {
			r.Post("/auth/token", s.authHandler.Login)
		}

		// Dashboard & Stats
		r.Get("/api/v1/dashboard", s.dashHandler.GetView)
		r.Get("/api/v1/dashboard/charts/{chart}.svg", s.dashHandler.GetChart)
		r.Get("/api/v1/dashboard/events/refresh", s.dashHandler.RefreshEvents)
		r.Get("/api/v1/trust-score", s.dashHandler.TrustScore)

		// События доверия от расширения
		r.Post("/api/v1/events", s.eventsHandler.Record)
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	if s.authValidator == nil || s.snapshotHandler == nil {
		s.logger.Warn("auth keys are not configured, snapshot replacement is disabled")
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))
		r.Use(auth.RequireScope(domain.ScopeSnapshotWrite))

		r.Put("/api/v1/dashboard/snapshot", s.snapshotHandler.Replace)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
