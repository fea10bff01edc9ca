package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/secops-service/internal/api/http/handlers"
	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/observability"
	"github.com/spec-kit/secops-service/internal/realtime"
	"github.com/spec-kit/secops-service/internal/repository"
	"github.com/spec-kit/secops-service/internal/service"
)

// Records bundles the per-kind services exposed under /api.
type Records struct {
	Clients          *service.RecordService[domain.Client, *domain.Client]
	Properties       *service.RecordService[domain.Property, *domain.Property]
	Incidents        *service.RecordService[domain.Incident, *domain.Incident]
	PatrolReports    *service.RecordService[domain.PatrolReport, *domain.PatrolReport]
	Appointments     *service.RecordService[domain.Appointment, *domain.Appointment]
	FinancialRecords *service.RecordService[domain.FinancialRecord, *domain.FinancialRecord]
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Records        Records
	AuthMiddleware *auth.AuthMiddleware
	// Realtime is mounted at RealtimePath when set.
	Realtime     fiber.Handler
	RealtimePath string
	// Metrics is served at MetricsPath when set.
	Metrics     *observability.Metrics
	MetricsPath string
}

// Roles allowed to delete records and read the ledger.
var managerRoles = []string{domain.RoleAdmin, domain.RoleSupervisor}

type crudRoutes[T any, P repository.EntityPtr[T]] struct {
	path      string
	service   *service.RecordService[T, P]
	deletable bool
	guards    []fiber.Handler
}

func (r crudRoutes[T, P]) register(api fiber.Router) {
	h := handlers.NewRecordsHandler(r.service)
	group := api.Group(r.path, r.guards...)
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Patch("/:id", h.Update)
	if r.deletable {
		group.Delete("/:id", auth.RequireRole(managerRoles...), h.Delete)
	}
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/status", cfg.AuthMiddleware.Optional, cfg.Auth.Status)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/dashboard/stats", cfg.Dashboard.Stats)
	protected.Get("/activities", cfg.Dashboard.Activities)
	protected.Get("/financial/summary", auth.RequireRole(managerRoles...), cfg.Dashboard.FinancialSummary)

	crudRoutes[domain.Client, *domain.Client]{path: "/clients", service: cfg.Records.Clients, deletable: true}.register(protected)
	crudRoutes[domain.Property, *domain.Property]{path: "/properties", service: cfg.Records.Properties, deletable: true}.register(protected)
	crudRoutes[domain.Incident, *domain.Incident]{path: "/incidents", service: cfg.Records.Incidents}.register(protected)
	crudRoutes[domain.PatrolReport, *domain.PatrolReport]{path: "/patrol-reports", service: cfg.Records.PatrolReports}.register(protected)
	crudRoutes[domain.Appointment, *domain.Appointment]{path: "/appointments", service: cfg.Records.Appointments, deletable: true}.register(protected)
	crudRoutes[domain.FinancialRecord, *domain.FinancialRecord]{
		path:      "/financial/records",
		service:   cfg.Records.FinancialRecords,
		deletable: true,
		guards:    []fiber.Handler{auth.RequireRole(managerRoles...)},
	}.register(protected)

	if cfg.Realtime != nil && cfg.RealtimePath != "" {
		app.Get(cfg.RealtimePath, realtime.RequireUpgrade, cfg.Realtime)
	}
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
}
