package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/audit"
	"github.com/agendly/salon-api/internal/cache"
	"github.com/agendly/salon-api/internal/config"
	"github.com/agendly/salon-api/internal/handlers"
	infraRepo "github.com/agendly/salon-api/internal/infra/repository"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/payments"
	"github.com/agendly/salon-api/internal/storage"
	ucAppointment "github.com/agendly/salon-api/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availabilityCache := cache.NewAvailabilityCache(cfg)
	uploader := storage.NewUploader(cfg)

	gateway, err := payments.NewMercadoPago(cfg.MercadoPagoAccessToken)
	if err != nil {
		log.Printf("mercado pago disabled: %v", err)
	}

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db)

	professionalHandler := handlers.NewProfessionalHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)

	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, gateway, auditDispatcher)
	loyaltyHandler := handlers.NewLoyaltyHandler(db, auditDispatcher)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		availabilityCache,
		createAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		availabilityUC,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		availabilityCache,
		createAppointmentUC,
		availabilityUC,
	)

	userHandler := handlers.NewUserHandler(db)
	mediaHandler := handlers.NewMediaHandler(db, uploader)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	systemHandler := handlers.NewSystemHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.Profile)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/salon", salonHandler.GetMeSalon)
			secured.PATCH("/me/salon", salonHandler.UpdateMeSalon)
			secured.POST("/me/salon/logo", mediaHandler.UploadSalonLogo)

			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)
			secured.GET("/me/professionals/:id/availability", professionalHandler.GetAvailability)
			secured.PUT("/me/professionals/:id/availability", professionalHandler.UpdateAvailability)
			secured.POST("/me/professionals/:id/photo", mediaHandler.UploadProfessionalPhoto)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id/loyalty", loyaltyHandler.History)
			secured.POST("/me/clients/:id/loyalty", loyaltyHandler.Adjust)

			secured.GET("/me/products", productHandler.List)
			secured.POST("/me/products", productHandler.Create)
			secured.PATCH("/me/products/:id", productHandler.Update)

			secured.GET("/me/orders", orderHandler.List)
			secured.POST("/me/orders", orderHandler.Create)
			secured.GET("/me/orders/:id", orderHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/availability", appointmentHandler.Availability)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// USERS (somente owner)
			// ------------------------------
			users := secured.Group("/me/users")
			users.Use(middleware.RequireRole(models.RoleOwner))
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Create)
				users.PATCH("/:id", userHandler.Update)
			}
		}

		// ------------------------------
		// 🛠 CONSOLE (multi-tenant)
		// ------------------------------
		system := api.Group("/system")
		system.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleSystem))
		{
			system.GET("/salons", systemHandler.ListSalons)
			system.POST("/salons", systemHandler.CreateSalon)
			system.PATCH("/salons/:id/active", systemHandler.SetSalonActive)
		}
	}
}
