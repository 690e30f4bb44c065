package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/config"
	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/handlers"
	"github.com/BruksfildServices01/staff-scheduler/internal/middleware"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/staff-scheduler/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/staff-scheduler/internal/usecase/calendar"
)

// Store is everything the HTTP surface reads and writes. Both the
// Postgres repository and the in-memory store satisfy it.
type Store interface {
	domain.Repository
	ucCalendar.Store
	audit.Store
	handlers.StaffDirectory
}

type Deps struct {
	Store      Store
	Dispatcher *audit.Dispatcher
	Logger     *zap.Logger
	// RateLimiter guards the public routes when set.
	RateLimiter *middleware.RateLimiter
	Checks      map[string]handlers.Check
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// USE CASES
	// ======================================================
	findOpeningsUC := ucAppointment.NewFindOpenings(d.Store, cfg.MaxRangeDays, cfg.MaxOpenings)
	bookUC := ucAppointment.NewBookAppointment(d.Store, d.Dispatcher, cfg.BookTimeout)
	checkExistingUC := ucAppointment.NewCheckExisting(d.Store)

	listByDateUC := ucAppointment.NewListAppointmentsByDate(d.Store)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Store)
	transitionUC := ucAppointment.NewChangeAppointmentStatus(d.Store, d.Dispatcher)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(d.Store, d.Dispatcher, cfg.BookTimeout)
	dayAvailabilityUC := ucAppointment.NewGetDayAvailability(d.Store)

	calendarAdmin := ucCalendar.NewAdmin(d.Store, d.Dispatcher, d.Logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Checks, d.Logger)
	authHandler := handlers.NewAuthHandler(d.Store, cfg.JWTSecret, cfg.JWTTTL)
	meHandler := handlers.NewMeHandler(d.Store)
	bookingHandler := handlers.NewBookingHandler(d.Store, findOpeningsUC, bookUC, checkExistingUC)
	appointmentHandler := handlers.NewAppointmentHandler(listByDateUC, listByMonthUC, transitionUC, rescheduleUC)
	availabilityHandler := handlers.NewAvailabilityHandler(dayAvailabilityUC)
	calendarHandler := handlers.NewCalendarHandler(calendarAdmin)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Store)

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		if d.RateLimiter != nil {
			publicAPI.Use(d.RateLimiter.Middleware())
		}
		{
			publicAPI.GET("/:slug/job-types", bookingHandler.PublicJobTypes)
			publicAPI.GET("/:slug/openings", bookingHandler.PublicOpenings)
			publicAPI.POST("/:slug/bookings", bookingHandler.PublicBook)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		auth := middleware.AuthMiddleware(cfg.JWTSecret)

		// ------------------------------
		// VOICE AGENT
		// ------------------------------
		agent := api.Group("/agent")
		agent.Use(auth, middleware.RequireRole(models.RoleAgent))
		{
			agent.GET("/openings", bookingHandler.AgentOpenings)
			agent.POST("/bookings", bookingHandler.AgentBook)
			agent.GET("/customers/:id/appointment", bookingHandler.AgentExisting)
		}

		// ------------------------------
		// STAFF
		// ------------------------------
		me := api.Group("/me")
		me.Use(auth, middleware.RequireRole(models.RoleStaff, models.RoleOwner))
		{
			me.GET("", meHandler.GetMe)
			me.GET("/job-types", meHandler.JobTypes)

			me.GET("/appointments", appointmentHandler.ListByDate)
			me.GET("/appointments/month", appointmentHandler.ListByMonth)
			me.PATCH("/appointments/:id/confirm", appointmentHandler.Transition(domain.StatusConfirmed))
			me.PATCH("/appointments/:id/start", appointmentHandler.Transition(domain.StatusInProgress))
			me.PATCH("/appointments/:id/complete", appointmentHandler.Transition(domain.StatusCompleted))
			me.PATCH("/appointments/:id/cancel", appointmentHandler.Transition(domain.StatusCancelled))
			me.PATCH("/appointments/:id/no-show", appointmentHandler.Transition(domain.StatusNoShow))
			me.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			me.GET("/availability", availabilityHandler.Day)

			me.GET("/calendar/config", calendarHandler.GetConfig)
			me.PUT("/calendar/config", calendarHandler.PutConfig)
			me.GET("/calendar/overrides", calendarHandler.ListOverrides)
			me.PUT("/calendar/overrides/:date", calendarHandler.PutOverride)
			me.DELETE("/calendar/overrides/:date", calendarHandler.DeleteOverride)
			me.GET("/holidays", calendarHandler.ListHolidays)

			me.GET("/audit-logs", auditLogsHandler.List)
		}

		owner := me.Group("")
		owner.Use(middleware.RequireRole(models.RoleOwner))
		{
			owner.POST("/holidays", calendarHandler.CreateHoliday)
			owner.DELETE("/holidays/:id", calendarHandler.DeleteHoliday)
		}
	}
}
