package handlers

import (
	"stagebook/internal/middleware"
	"stagebook/internal/models"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router groups every handler set that RegisterRoutes mounts
type Router struct {
	Auth       *AuthHandlers
	Tenants    *TenantHandlers
	Users      *UserHandlers
	Venues     *VenueHandlers
	Clients    *ClientHandlers
	Performers *PerformerHandlers
	Events     *EventHandlers
	Bookings   *BookingHandlers
	Tasks      *TaskHandlers
	Analytics  *AnalyticsHandlers
	Jobs       *JobHandlers
	Health     *HealthHandlers
}

// RegisterRoutes mounts the public and the JWT-protected API
func RegisterRoutes(e *echo.Echo, r *Router, auth echo.MiddlewareFunc, versions *middleware.VersionMiddleware) {
	// Health endpoints (no auth required)
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versions.VersionRoute(e, "v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", r.Auth.Register)
	authGroup.POST("/login", r.Auth.Login)
	authGroup.POST("/refresh", r.Auth.Refresh)
	authGroup.POST("/logout", r.Auth.Logout)

	v1.GET("/tenants/:slug", r.Tenants.LookupTenant)

	protected := v1.Group("", auth)
	managers := middleware.RequireRole(models.RoleOwner, models.RoleAdmin)

	protected.GET("/me", r.Auth.Me)
	protected.PUT("/me/password", r.Auth.ChangePassword)

	protected.GET("/tenant", r.Tenants.GetTenant)
	protected.PUT("/tenant", r.Tenants.UpdateTenant, managers)
	protected.DELETE("/tenant", r.Tenants.DeleteTenant, middleware.RequireRole(models.RoleOwner))

	users := protected.Group("/users", managers)
	users.GET("", r.Users.ListUsers)
	users.POST("", r.Users.CreateUser)
	users.GET("/:id", r.Users.GetUser)
	users.PUT("/:id", r.Users.UpdateUser)
	users.DELETE("/:id", r.Users.DeleteUser)

	protected.GET("/venues", r.Venues.ListVenues)
	protected.POST("/venues", r.Venues.CreateVenue)
	protected.GET("/venues/:id", r.Venues.GetVenue)
	protected.PUT("/venues/:id", r.Venues.UpdateVenue)
	protected.DELETE("/venues/:id", r.Venues.DeleteVenue)

	protected.GET("/clients", r.Clients.ListClients)
	protected.POST("/clients", r.Clients.CreateClient)
	protected.GET("/clients/:id", r.Clients.GetClient)
	protected.PUT("/clients/:id", r.Clients.UpdateClient)
	protected.DELETE("/clients/:id", r.Clients.DeleteClient)

	protected.GET("/performers", r.Performers.ListPerformers)
	protected.POST("/performers", r.Performers.CreatePerformer)
	protected.GET("/performers/:id", r.Performers.GetPerformer)
	protected.PUT("/performers/:id", r.Performers.UpdatePerformer)
	protected.DELETE("/performers/:id", r.Performers.DeletePerformer)
	protected.GET("/performers/:id/bookings", r.Performers.ListPerformerBookings)

	protected.GET("/events", r.Events.ListEvents)
	protected.POST("/events", r.Events.CreateEvent)
	protected.GET("/events/:id", r.Events.GetEvent)
	protected.PUT("/events/:id", r.Events.UpdateEvent)
	protected.PATCH("/events/:id/status", r.Events.UpdateEventStatus)
	protected.DELETE("/events/:id", r.Events.DeleteEvent)
	protected.GET("/events/:id/budget", r.Events.GetEventBudget)

	protected.GET("/events/:id/bookings", r.Bookings.ListEventBookings)
	protected.POST("/events/:id/bookings", r.Bookings.CreateBooking)
	protected.GET("/bookings/:id", r.Bookings.GetBooking)
	protected.PUT("/bookings/:id", r.Bookings.UpdateBooking)
	protected.PATCH("/bookings/:id/status", r.Bookings.UpdateBookingStatus)
	protected.DELETE("/bookings/:id", r.Bookings.DeleteBooking)
	protected.POST("/bookings/:id/payments", r.Bookings.RecordPayment)
	protected.POST("/bookings/:id/contract", r.Bookings.RequestContract)
	protected.GET("/bookings/:id/contract", r.Bookings.GetContract)
	protected.POST("/bookings/:id/contract/sign", r.Bookings.SignContract)

	protected.GET("/events/:id/tasks", r.Tasks.ListEventTasks)
	protected.POST("/events/:id/tasks", r.Tasks.CreateTask)
	protected.GET("/tasks/overdue", r.Tasks.ListOverdueTasks)
	protected.GET("/tasks/:id", r.Tasks.GetTask)
	protected.PUT("/tasks/:id", r.Tasks.UpdateTask)
	protected.PATCH("/tasks/:id/status", r.Tasks.UpdateTaskStatus)
	protected.DELETE("/tasks/:id", r.Tasks.DeleteTask)

	protected.GET("/analytics/dashboard", r.Analytics.GetDashboard)
	protected.POST("/analytics/refresh", r.Jobs.RefreshDashboard, managers)
	protected.GET("/jobs", r.Jobs.ListJobs, managers)
}
