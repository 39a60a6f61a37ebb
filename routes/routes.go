package routes

import (
	"net/http"

	"github.com/HSouheill/admarket_backend/controllers"
	"github.com/HSouheill/admarket_backend/metrics"
	"github.com/HSouheill/admarket_backend/middleware"
	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/websocket"
	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/labstack/echo/v4"
)

// Handlers groups everything the router needs
type Handlers struct {
	Applications   *controllers.ApplicationController
	Advertisements *controllers.AdvertisementController
	Auth           *controllers.AuthController
	Admin          *controllers.AdminController
	Hub            *websocket.Hub
	// Authenticate resolves the bearer token into a workflow actor
	Authenticate echo.MiddlewareFunc
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, h Handlers) {
	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{Status: http.StatusOK, Message: "Server is healthy"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	RegisterApplicationRoutes(api, h)
	RegisterEmployeeRoutes(api, h)
	RegisterAdvertisementRoutes(api, h)
	RegisterAdminRoutes(api, h)
	RegisterAuthRoutes(api, h)
	RegisterWebSocketRoutes(api, h)
}

// RegisterApplicationRoutes sets up the application workflow routes
func RegisterApplicationRoutes(api *echo.Group, h Handlers) {
	ac := h.Applications
	apps := api.Group("/applications")

	// Public routes
	apps.GET("/advertisement/:adId", ac.GetAdvertisementApplications)
	apps.GET("/:id", ac.GetApplication)

	protected := apps.Group("", h.Authenticate)
	protected.POST("", ac.SubmitApplication)
	protected.GET("/agency", ac.GetAgencyApplications)
	protected.GET("/client", ac.GetClientApplications)
	protected.GET("/refresh/all-applications", ac.RefreshAllApplications)
	protected.GET("/refresh/:id", ac.RefreshApplication)
	protected.POST("/:id/employee-review", ac.EmployeeReview)
	protected.POST("/:id/client-review", ac.ClientReview)
	protected.PATCH("/:id", ac.UpdateApplicationStatus)
	protected.DELETE("/:id", ac.DeleteApplication)
}

// RegisterEmployeeRoutes sets up the staff review queue
func RegisterEmployeeRoutes(api *echo.Group, h Handlers) {
	employee := api.Group("/employee", h.Authenticate, middleware.RequireRole(workflow.RoleEmployee, workflow.RoleAdmin))
	employee.GET("/applications/pending", h.Applications.GetPendingApplications)
	employee.GET("/dashboard", h.Applications.GetEmployeeDashboard)
}

func RegisterAdvertisementRoutes(api *echo.Group, h Handlers) {
	ac := h.Advertisements
	ads := api.Group("/advertisements")

	ads.GET("/public", ac.GetPublicAdvertisements)
	ads.GET("/:id", ac.GetAdvertisement)

	protected := ads.Group("", h.Authenticate)
	protected.POST("", ac.CreateAdvertisement)
	protected.GET("", ac.GetMyAdvertisements)
	protected.PUT("/:id", ac.UpdateAdvertisement)
	protected.PATCH("/:id/status", ac.UpdateAdvertisementStatus)
	protected.DELETE("/:id", ac.DeleteAdvertisement)
}

// RegisterAdminRoutes sets up platform oversight for administrators
func RegisterAdminRoutes(api *echo.Group, h Handlers) {
	admin := api.Group("/admin", h.Authenticate, middleware.RequireRole(workflow.RoleAdmin))
	admin.GET("/analytics", h.Admin.GetAnalytics)
	admin.GET("/applications", h.Admin.GetAllApplications)
}

func RegisterAuthRoutes(api *echo.Group, h Handlers) {
	auth := api.Group("/auth", h.Authenticate)
	auth.POST("/logout", h.Auth.Logout)
}

// RegisterWebSocketRoutes streams status change notifications to the caller
func RegisterWebSocketRoutes(api *echo.Group, h Handlers) {
	api.GET("/ws", func(c echo.Context) error {
		actor, ok := middleware.ActorFromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}
		return websocket.HandleWebSocket(c, h.Hub, actor.ID())
	}, h.Authenticate)
}
