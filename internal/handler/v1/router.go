package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/config"
	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/pkg/auth"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

// Handlers bundles every v1 handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Appointment *AppointmentHandler
	Doctor      *DoctorHandler
	Patient     *PatientHandler
	Clinic      *ClinicHandler
	Admin       *AdminHandler
	Inventory   *InventoryHandler
	Record      *RecordHandler
	Chat        *ChatHandler
}

// NewRouter assembles the gin engine: middleware chain, health and metrics
// endpoints, and the versioned API surface.
func NewRouter(
	cfg *config.Config,
	h *Handlers,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	db *gorm.DB,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RateLimit(cfg.RateLimit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/readyz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	// Public surface
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimit(cfg.RateLimit))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/verify-email", h.Auth.VerifyEmail)
		authGroup.POST("/resend-code", h.Auth.ResendCode)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	api.GET("/doctors", h.Doctor.List)
	api.GET("/doctors/:id/slots", h.Appointment.Slots)
	api.GET("/clinics", h.Clinic.List)

	// Authenticated surface
	authed := api.Group("")
	authed.Use(middleware.Authenticate(jwtManager))
	{
		authed.POST("/auth/change-password", h.Auth.ChangePassword)

		authed.POST("/chat", h.Chat.Message)

		appts := authed.Group("/appointments")
		{
			appts.GET("", h.Appointment.List)
			appts.GET("/:id", h.Appointment.Get)
			appts.POST("/:id/cancel", h.Appointment.Cancel)

			patientOnly := appts.Group("")
			patientOnly.Use(middleware.RequireRole(domain.RolePatient))
			{
				patientOnly.POST("/book-slot", h.Appointment.BookSlot)
				patientOnly.POST("/book", h.Appointment.BookTime)
			}

			doctorOnly := appts.Group("")
			doctorOnly.Use(middleware.RequireRole(domain.RoleDoctor, domain.RoleAdmin))
			{
				doctorOnly.POST("/:id/start", h.Appointment.Start)
				doctorOnly.POST("/:id/complete", h.Appointment.Complete)
			}
		}

		me := authed.Group("/me")
		{
			me.GET("/profile", h.Patient.GetOwn)
			me.PATCH("/profile", h.Patient.UpdateOwn)
			me.GET("/records", h.Record.ListOwn)
		}

		doctorGroup := authed.Group("/doctor")
		doctorGroup.Use(middleware.RequireRole(domain.RoleDoctor))
		{
			doctorGroup.GET("/schedule", h.Doctor.GetSchedule)
			doctorGroup.PUT("/schedule", h.Doctor.UpdateSchedule)
			doctorGroup.POST("/schedule/block", h.Appointment.Block)
			doctorGroup.GET("/dashboard", h.Doctor.Dashboard)
		}

		staff := authed.Group("")
		staff.Use(middleware.RequireRole(domain.RoleDoctor, domain.RoleAdmin))
		{
			staff.GET("/patients/:id", h.Patient.Get)
			staff.GET("/patients/:id/records", h.Record.ListForPatient)
		}

		records := authed.Group("/records")
		{
			records.GET("/:id", h.Record.Get)
			records.POST("", middleware.RequireRole(domain.RoleDoctor), h.Record.Create)
		}

		org := authed.Group("/clinic")
		org.Use(middleware.RequireRole(domain.RoleOrganization))
		{
			org.GET("", h.Clinic.GetOwn)
			org.POST("/address-change", h.Clinic.RequestAddressChange)
		}

		inv := authed.Group("/inventory")
		inv.Use(middleware.RequireRole(domain.RoleOrganization, domain.RoleDoctor))
		{
			inv.GET("", h.Inventory.List)
			inv.POST("", h.Inventory.Create)
			inv.GET("/low-stock", h.Inventory.LowStock)
			inv.POST("/:id/adjust", h.Inventory.Adjust)
			inv.DELETE("/:id", h.Inventory.Delete)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/pending", h.Admin.Pending)
			admin.POST("/doctors/:id/approve", h.Admin.ApproveDoctor)
			admin.POST("/doctors/:id/reject", h.Admin.RejectDoctor)
			admin.POST("/clinics/:id/approve", h.Admin.ApproveClinic)
			admin.POST("/clinics/:id/reject", h.Admin.RejectClinic)
		}
	}

	return r
}
