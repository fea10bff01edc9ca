// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/secops-service/internal/api/http"
	"github.com/spec-kit/secops-service/internal/api/http/handlers"
	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/events"
	"github.com/spec-kit/secops-service/internal/observability"
	"github.com/spec-kit/secops-service/internal/persistence"
	"github.com/spec-kit/secops-service/internal/realtime"
	"github.com/spec-kit/secops-service/internal/repository"
	"github.com/spec-kit/secops-service/internal/service"
	"github.com/spec-kit/secops-service/internal/worker"
)

// App is a fully wired server instance.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   repository.Store
	Tokens  *auth.TokenManager
	Hub     *realtime.Hub
	Metrics *observability.Metrics
	Panics  *observability.PanicPolicy
	Fiber   *fiber.App
}

type options struct {
	store  repository.Store
	logger *zap.Logger
	clock  func() time.Time
}

// Option customizes New.
type Option func(*options)

// WithStore uses an already opened store instead of the configured driver.
func WithStore(store repository.Store) Option {
	return func(o *options) { o.store = store }
}

// WithLogger replaces the configured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock pins the dashboard clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New wires the store, services, hub and HTTP routes.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = observability.NewLogger(cfg.Logger); err != nil {
			return nil, err
		}
	}
	if cfg.App.ServerID == "" {
		cfg.App.ServerID = uuid.NewString()
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if store, err = persistence.OpenStore(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}
	panics := observability.NewPanicPolicy(cfg.App.FailFast, logger)

	hub := realtime.NewHub(logger.Named("realtime"), metrics)
	dispatcher := events.NewInMemoryDispatcher(logger.Named("events"))
	worker.StartBroadcastWorker(dispatcher, hub, logger.Named("worker"))

	deps := service.Dependencies{
		Activities: store.Activities(),
		Dispatcher: dispatcher,
		Logger:     logger.Named("service"),
	}
	records := httptransport.Records{
		Clients:          service.NewRecordService[domain.Client](domain.EntityClient, "client", store.Clients(), deps),
		Properties:       service.NewRecordService[domain.Property](domain.EntityProperty, "property", store.Properties(), deps),
		Incidents:        service.NewRecordService[domain.Incident](domain.EntityIncident, "incident", store.Incidents(), deps),
		PatrolReports:    service.NewRecordService[domain.PatrolReport](domain.EntityPatrolReport, "patrol report", store.PatrolReports(), deps),
		Appointments:     service.NewRecordService[domain.Appointment](domain.EntityAppointment, "appointment", store.Appointments(), deps),
		FinancialRecords: service.NewRecordService[domain.FinancialRecord](domain.EntityFinancialRecord, "financial record", store.FinancialRecords(), deps),
	}

	verifier := auth.NewCredentialVerifier(cfg.Operator, store.Accounts(), logger.Named("auth"))
	authService := service.NewAuthService(verifier, tokens, deps)

	server := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(server, httptransport.MiddlewareConfig{
		Logger:     logger,
		Metrics:    metrics,
		Panics:     panics,
		Timeout:    cfg.App.RequestTimeout(),
		Production: cfg.App.IsProduction(),
	})

	route := httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthOptions{
			Environment: cfg.App.Env,
			Version:     cfg.App.Version,
			Production:  cfg.App.IsProduction(),
		}, store),
		Auth:   handlers.NewAuthHandler(authService),
		Dashboard: handlers.NewDashboardHandler(
			service.NewDashboardService(store, o.clock),
			service.NewActivityService(store.Activities()),
			service.NewFinancialService(store.FinancialRecords()),
		),
		Records:        records,
		AuthMiddleware: auth.NewAuthMiddleware(tokens, logger.Named("auth")),
		Realtime: realtime.Handler(hub, realtime.HandlerOptions{
			ServerID:     cfg.App.ServerID,
			WriteTimeout: cfg.Realtime.WriteTimeout(),
			Logger:       logger.Named("realtime"),
			Panics:       panics,
		}),
		RealtimePath: cfg.Realtime.Path,
	}
	if metrics != nil {
		route.Metrics = metrics
		route.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(server, route)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Tokens:  tokens,
		Hub:     hub,
		Metrics: metrics,
		Panics:  panics,
		Fiber:   server,
	}, nil
}

// Listen serves on the configured address until Shutdown.
func (a *App) Listen() error {
	a.Logger.Info("http server starting",
		zap.String("addr", a.Config.App.Addr()),
		zap.String("env", a.Config.App.Env),
		zap.String("version", a.Config.App.Version),
		zap.String("store", a.Config.Store.Driver),
		zap.String("server_id", a.Config.App.ServerID))
	return a.Fiber.Listen(a.Config.App.Addr())
}

// Serve accepts connections on ln until Shutdown.
func (a *App) Serve(ln net.Listener) error {
	return a.Fiber.Listener(ln)
}

// Shutdown closes realtime clients, drains HTTP and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	a.Hub.CloseAll()
	httpErr := a.Fiber.ShutdownWithContext(ctx)
	storeErr := a.Store.Close()
	return errors.Join(httpErr, storeErr)
}
