package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	"github.com/rishangit/s-ams-sub002/internal/config"
	"github.com/rishangit/s-ams-sub002/internal/handlers"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	infraRepo "github.com/rishangit/s-ams-sub002/internal/infra/repository"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
	ucAppointment "github.com/rishangit/s-ams-sub002/internal/usecase/appointment"
	ucCompletion "github.com/rishangit/s-ams-sub002/internal/usecase/completion"
)

// Deps carries the process-wide singletons the router is built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   logrus.FieldLogger
	Guard    inflight.Guard
	Registry *prometheus.Registry
}

// RegisterRoutes wires the API onto r. The returned func drains the audit
// queue and must be called on shutdown.
func RegisterRoutes(r *gin.Engine, deps Deps) (shutdown func()) {
	db, cfg := deps.DB, deps.Config

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler := promhttp.Handler()
	if deps.Registry != nil {
		reg = deps.Registry
		metricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}
	workflowMetrics := metrics.NewWorkflowMetrics(reg)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, deps.Logger)

	guard := deps.Guard
	if guard == nil {
		guard = inflight.NewLocalGuard()
	}

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(deps.Logger, workflowMetrics),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	changeStatusUC := ucAppointment.NewChangeStatus(
		appointmentRepo,
		guard,
		auditDispatcher,
		workflowMetrics,
	)

	assignStaffUC := ucAppointment.NewAssignStaff(
		appointmentRepo,
		guard,
		auditDispatcher,
		workflowMetrics,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		guard,
		auditDispatcher,
		workflowMetrics,
	)

	openCompletionUC := ucCompletion.NewOpenCompletion(
		appointmentRepo,
		appointmentRepo,
		appointmentRepo,
	)

	submitCompletionUC := ucCompletion.NewSubmitCompletion(
		openCompletionUC,
		guard,
		auditDispatcher,
		workflowMetrics,
	)

	advanceStatusUC := ucAppointment.NewAdvanceStatus(
		appointmentRepo,
		changeStatusUC,
		openCompletionUC,
		workflowMetrics,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	productHandler := handlers.NewProductHandler(appointmentRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	appointmentHandler := handlers.NewAppointmentHandler(
		listAppointmentsUC,
		appointmentRepo,
		changeStatusUC,
		advanceStatusUC,
		assignStaffUC,
		deleteAppointmentUC,
	)

	completionHandler := handlers.NewCompletionHandler(
		openCompletionUC,
		submitCompletionUC,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(metricsHandler))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)
			secured.GET("/columns", appointmentHandler.Columns)

			secured.GET("/products", productHandler.List)
			secured.GET("/products/:id", productHandler.Get)

			secured.GET("/staff", appointmentHandler.Staff)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id/actions", appointmentHandler.Actions)
			secured.POST("/appointments/:id/advance", appointmentHandler.Advance)
			secured.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.POST("/appointments/:id/assign-staff", appointmentHandler.AssignStaff)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// COMPLETION RECORDS
			// ------------------------------
			secured.GET("/appointments/:id/completion", completionHandler.Get)
			secured.POST("/appointments/:id/completion", completionHandler.Create)
			secured.PUT("/appointments/:id/completion", completionHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return auditDispatcher.Close
}
