package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	"github.com/BruksfildServices01/bay-scheduler/internal/config"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/handlers"
	"github.com/BruksfildServices01/bay-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking"
)

// Deps is everything the HTTP layer needs from the composition root.
type Deps struct {
	Config *config.Config
	Clock  clock.Clock

	Repo  domain.Repository
	Admin domain.CalendarAdmin

	// Calendar, when set, is read instead of Repo for working hours and
	// blocked dates. Invalidator is told about admin calendar changes.
	Calendar    domain.CalendarRules
	Invalidator ucBooking.CalendarInvalidator

	Audit *audit.Dispatcher

	// DB is nil with the in-memory store; audit log browsing is then off.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(d.Config.FrontendURL))

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(d.Repo, d.Calendar)
	createUC := ucBooking.NewCreateBooking(d.Repo, availabilityUC, d.Audit)
	cancelUC := ucBooking.NewCancelBooking(d.Repo, d.Clock, d.Audit)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(d.Repo, d.Clock, d.Audit)
	listUC := ucBooking.NewListBookings(d.Repo)
	assignBayUC := ucBooking.NewAssignBay(d.Repo, d.Audit)
	calendarUC := ucBooking.NewManageCalendar(d.Admin, d.Invalidator, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Config.Store)

	bookingHandler := handlers.NewBookingHandler(
		availabilityUC,
		createUC,
		cancelUC,
		listUC,
		d.Clock,
	)

	adminBookingHandler := handlers.NewAdminBookingHandler(
		listUC,
		updateStatusUC,
		assignBayUC,
		d.Clock,
	)
	workingHoursHandler := handlers.NewWorkingHoursHandler(calendarUC)
	blockedDatesHandler := handlers.NewBlockedDatesHandler(calendarUC, d.Clock)

	r.GET("/health", healthHandler.Get)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
	{
		// ------------------------------
		// BOOKINGS
		// ------------------------------
		api.POST("/bookings/check-availability", bookingHandler.CheckAvailability)
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings", bookingHandler.List)
		api.GET("/bookings/:id", bookingHandler.Show)
		api.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/bookings", adminBookingHandler.List)
			admin.GET("/bookings/:id", adminBookingHandler.Show)
			admin.PATCH("/bookings/:id/status", adminBookingHandler.UpdateStatus)
			admin.PATCH("/bookings/:id/assign-bay", adminBookingHandler.AssignBay)

			admin.GET("/service-bays/:id/schedule", adminBookingHandler.BaySchedule)

			admin.GET("/working-hours", workingHoursHandler.Get)
			admin.PUT("/working-hours", workingHoursHandler.Update)

			admin.GET("/blocked-dates", blockedDatesHandler.List)
			admin.POST("/blocked-dates", blockedDatesHandler.Create)
			admin.POST("/blocked-dates/bulk", blockedDatesHandler.BulkCreate)
			admin.DELETE("/blocked-dates/:id", blockedDatesHandler.Delete)

			if d.DB != nil {
				admin.GET("/audit-logs", handlers.NewAuditLogsHandler(d.DB).List)
			}
		}
	}
}
