package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dms/backend/internal/application/events"
	appledger "github.com/dms/backend/internal/application/ledger"
	apptravel "github.com/dms/backend/internal/application/travel"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/infrastructure/cache"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/dms/backend/internal/infrastructure/event"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/persistence"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/dms/backend/internal/interfaces/http/handler"
	"github.com/dms/backend/internal/interfaces/http/middleware"
	"github.com/dms/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	// telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(logsProvider.Shutdown, log, "logger provider")
	log = logsProvider.BridgeLogger(log, logger.ParseLevel(cfg.Log.Level))

	// database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, persistence.GormLogLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("failed to enable database tracing", zap.Error(err))
		}
	}

	// repositories
	tripRepo := persistence.NewGormTripRepository(db.DB)
	categoryRepo := persistence.NewGormTripCategoryRepository(db.DB)
	allowanceRepo := persistence.NewGormAllowanceRepository(db.DB)
	remunerationRepo := persistence.NewGormRemunerationRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	journalTypeRepo := persistence.NewGormJournalTypeRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)

	// event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer shutdownWithTimeout(eventBus.Stop, log, "event bus")

	eventBus.Subscribe(events.NewAuditHandler(log))
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("business"),
			Logger: log,
		})
		if err != nil {
			return err
		}
		eventBus.Subscribe(events.NewMetricsHandler(businessMetrics))
	}

	// idempotency store for duplicate-posting detection
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		return err
	}

	// application services
	tripService := apptravel.NewTripService(tripRepo, categoryRepo, eventBus, log)
	catalogService := apptravel.NewCatalogService(categoryRepo, allowanceRepo, remunerationRepo, log)
	expenseService := apptravel.NewExpenseService(tripRepo, remunerationRepo, expenseRepo, eventBus, log)
	paymentService := appledger.NewPaymentService(paymentRepo, journalTypeRepo, eventBus, log)
	postingService := appledger.NewPostingService(
		paymentRepo, journalTypeRepo, transactionRepo, idempotencyStore, eventBus,
		appledger.PostingConfig{
			Tolerance:             decimal.NewFromFloat(cfg.Posting.BalanceTolerance),
			RequireBalanced:       cfg.Posting.RequireBalanced,
			LegacyBankersRounding: cfg.Posting.LegacyBankersRounding,
			Idempotency: shared.IdempotencyConfig{
				Enabled: cfg.Posting.IdempotencyEnabled,
				TTL:     cfg.Posting.IdempotencyTTL,
			},
		}, log)
	trialBalanceService := appledger.NewTrialBalanceService(
		transactionRepo, decimal.NewFromFloat(cfg.Posting.BalanceTolerance))

	// http metrics
	var httpMetrics *middleware.HTTPMetrics
	if cfg.Telemetry.Enabled {
		httpMetrics, err = middleware.NewHTTPMetrics(meterProvider.Meter("http"), log)
		if err != nil {
			return err
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	mode := gin.ReleaseMode
	if !cfg.App.IsProduction() {
		mode = gin.DebugMode
	}
	r := router.New(router.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Mode:        mode,
		Logger:      log,
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			MaxAge:       12 * time.Hour,
		},
		JWT: &middleware.JWTConfig{
			Service: jwtService,
			Logger:  log,
		},
		Metrics:       httpMetrics,
		EnableTracing: cfg.Telemetry.Enabled,
	})
	r.RegisterSystem(handler.NewSystemHandler(db.DB, version, log))
	r.Register(
		handler.NewTripHandler(tripService, log),
		handler.NewTripExpenseHandler(expenseService, log),
		handler.NewCatalogHandler(catalogService, log),
		handler.NewPaymentHandler(paymentService, log),
		handler.NewPostingHandler(postingService, trialBalanceService, log),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func shutdownWithTimeout(fn func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
