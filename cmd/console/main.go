package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/audit"
	"github.com/xela07ax/truverse-dashboard/internal/console/handler"
	"github.com/xela07ax/truverse-dashboard/internal/console/server"
	"github.com/xela07ax/truverse-dashboard/internal/console/service"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
	"github.com/xela07ax/truverse-dashboard/internal/infra"
	"github.com/xela07ax/truverse-dashboard/internal/infra/auth"
	"github.com/xela07ax/truverse-dashboard/internal/repository/postgres"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

func main() {
	// 1. Конфиг и логгер
	cfg, err := infra.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Контекст для управления жизненным циклом фоновых горутин
	// При SIGTERM cancel() остановит слушателей
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Инфраструктура (Redis и Postgres опциональны)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		ctx, cancelPing := context.WithTimeout(appCtx, 5*time.Second)
		pool, err = postgres.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		cancelPing()
		if err != nil {
			logger.Fatal("Database unreachable", zap.Error(err))
		}
		defer pool.Close()
	}

	// Метрики
	reg := prometheus.NewRegistry()
	metrics := engine.NewMetrics(reg)

	// 3. Источник переопределения снапшота + Retries/Circuit Breaker
	src, fileSrc := buildSource(cfg, rdb, pool)
	var loader *snapshot.Loader
	if src != nil {
		reliable := snapshot.NewReliableSource(cfg.Snapshot.Source, src, metrics.ObserveBreaker)
		loader = snapshot.NewLoader(reliable, logger)
	}

	state := engine.NewState(loader, metrics, logger)

	// 4. Фоновые воркеры
	wg := conc.NewWaitGroup()
	defer wg.Wait()
	defer cancel()

	reload := func() {
		if err := state.Reload(appCtx); err != nil {
			logger.Warn("snapshot reload failed, keeping previous snapshot", zap.Error(err))
		}
	}

	if rdb != nil && cfg.Snapshot.SeedFile != "" {
		seeded, err := engine.WarmupSnapshot(appCtx, rdb, logger, snapshot.NewFileSource(cfg.Snapshot.SeedFile),
			cfg.Snapshot.RedisKey, infra.RedisKeyLockWarmupSnapshot)
		if err != nil {
			logger.Error("snapshot warm-up failed", zap.Error(err))
		} else if seeded {
			logger.Info("snapshot seeded", zap.String("file", cfg.Snapshot.SeedFile))
		}
	}
	reload()

	if rdb != nil {
		wg.Go(func() {
			engine.ListenStateResilient(appCtx, rdb, logger, cfg.Snapshot.Channel,
				func() error { return state.Reload(appCtx) },
				func(version string) {
					logger.Info("snapshot update signal", zap.String("version", version))
					reload()
				})
		})
	}
	if fileSrc != nil && cfg.Snapshot.Watch {
		wg.Go(func() {
			if err := fileSrc.Watch(appCtx, logger, reload); err != nil {
				logger.Error("snapshot watcher stopped", zap.Error(err))
			}
		})
	}

	// 5. Журнал событий доверия (Postgres пачками или лог)
	var storage audit.Storage = audit.NewLogStorage(logger)
	if pool != nil {
		storage = postgres.NewEventRepo(pool)
	}
	journal := audit.NewJournal(storage, logger,
		audit.WithBufferSize(cfg.Journal.BufferSize),
		audit.WithBatch(cfg.Journal.BatchSize, cfg.Journal.FlushInterval),
		audit.WithMetrics(metrics.JournalBufferFill, metrics.JournalDropped),
	)
	journal.Start()
	defer journal.Stop()

	// 6. Слои API (Dependency Injection)
	var (
		validator   auth.TokenValidator
		authHandler *handler.AuthHandler
		snapHandler *handler.SnapshotHandler
	)
	switch {
	case len(cfg.Auth.PrivateKey) > 0:
		// Инстанс выдает токены и сам же их проверяет
		privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
		if err != nil {
			logger.Fatal("Invalid auth private key", zap.Error(err))
		}
		authService := service.NewAuthService(service.StaticOperators{
			cfg.Auth.Operator.Username: {
				Username:     cfg.Auth.Operator.Username,
				PasswordHash: cfg.Auth.Operator.PasswordHash,
				Scopes:       map[string]bool{domain.ScopeSnapshotWrite: true},
			},
		}, privateKey, cfg.Auth.TokenTTL)
		validator = authService
		authHandler = handler.NewAuthHandler(authService)
	case len(cfg.Auth.PublicKey) > 0:
		// Только проверка токенов, выданных другим инстансом
		publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
		if err != nil {
			logger.Fatal("Invalid auth public key", zap.Error(err))
		}
		validator = auth.NewVerifier(publicKey)
	}

	if validator != nil {
		var (
			store   service.SnapshotStore
			archive service.SnapshotArchive
		)
		if rdb != nil {
			store = rdb
		}
		if pool != nil {
			archive = postgres.NewSnapshotRepo(pool)
		}
		snapHandler = handler.NewSnapshotHandler(
			service.NewSnapshotService(store, archive, state, cfg.Snapshot.RedisKey, cfg.Snapshot.Channel, logger),
			logger,
		)
	}

	consoleSrv := server.NewConsoleServer(
		logger,
		validator,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		authHandler,
		handler.NewDashboardHandler(state),
		handler.NewEventsHandler(journal, logger),
		snapHandler,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Dashboard console started", zap.String("addr", srv.Addr), zap.String("snapshot_source", cfg.Snapshot.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("Dashboard console stopping...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Dashboard console exited properly")
}

// buildSource выбирает источник блоба по snapshot.source.
// Второе значение — файловый источник, если нужен watcher.
func buildSource(cfg *infra.Config, rdb *redis.Client, pool *pgxpool.Pool) (snapshot.Source, *snapshot.FileSource) {
	switch cfg.Snapshot.Source {
	case infra.SnapshotSourceFile:
		fs := snapshot.NewFileSource(cfg.Snapshot.File)
		return fs, fs
	case infra.SnapshotSourceRedis:
		return snapshot.NewRedisSource(rdb, cfg.Snapshot.RedisKey), nil
	case infra.SnapshotSourcePostgres:
		return postgres.NewSnapshotRepo(pool), nil
	}
	return nil, nil
}
