package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	domainRepo "github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/handler"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/middleware"
	"github.com/maheshwarig/ticketflow-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Item      *handler.ItemHandler
	Company   *handler.CompanyHandler
	Quotation *handler.QuotationHandler
	Ticket    *handler.TicketHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	User      *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	// Items
	registerItemRoutes(protected, h)

	// Companies
	registerCompanyRoutes(protected, h)

	// Quotations
	registerQuotationRoutes(protected, h)

	// Tickets
	registerTicketRoutes(protected, h, deps)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)
}

func registerItemRoutes(protected *gin.RouterGroup, h *Handlers) {
	items := protected.Group("/items")
	items.Use(middleware.RequirePermission("manage-items"))
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/low-stock", h.Item.GetLowStock)
		items.POST("/:slug/convert-unit", h.Item.ConvertUnit)
		items.GET("/:slug", h.Item.Get)
		items.PUT("/:slug", h.Item.Update)
		items.DELETE("/:slug", h.Item.Delete)
	}
}

func registerCompanyRoutes(protected *gin.RouterGroup, h *Handlers) {
	companies := protected.Group("/companies")
	companies.Use(middleware.RequirePermission("manage-companies"))
	{
		companies.GET("", h.Company.List)
		companies.POST("", h.Company.Create)
		companies.GET("/:id", h.Company.Get)
		companies.PUT("/:id", h.Company.Update)
		companies.DELETE("/:id", h.Company.Delete)
	}
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers) {
	quotations := protected.Group("/quotations")
	quotations.Use(middleware.RequirePermission("manage-quotations"))
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.PATCH("/:id/status", h.Quotation.UpdateStatus)
		quotations.DELETE("/:id", h.Quotation.Delete)
	}
}

func registerTicketRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	tickets := protected.Group("/tickets")
	tickets.Use(middleware.RequirePermission("manage-tickets"))
	{
		tickets.GET("", h.Ticket.List)
		// Ticket creation uses idempotency middleware so a retried conversion
		// cannot consume the quotation twice
		tickets.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Ticket.Create)
		tickets.GET("/due", h.Ticket.GetApproachingDeadline)
		tickets.GET("/:id", h.Ticket.Get)
		tickets.GET("/:id/tax-breakdown", h.Ticket.GetTaxBreakdown)
		tickets.GET("/:id/history", h.Ticket.GetHistory)
		tickets.GET("/:id/payments", h.Ticket.ListPayments)
		tickets.PUT("/:id/status", h.Ticket.UpdateStatus)
		tickets.POST("/:id/goods", h.Ticket.AddGoodsLine)
		tickets.PUT("/:id/goods/:sr_no", h.Ticket.UpdateGoodsLine)
		tickets.DELETE("/:id/goods/:sr_no", h.Ticket.RemoveGoodsLine)
		tickets.POST("/:id/transfer", middleware.RequirePermission("transfer-tickets"), h.Ticket.Transfer)
		tickets.POST("/:id/payments", middleware.RequirePermission("record-payments"), h.Ticket.RecordPayment)
		tickets.POST("/:id/documents", h.Ticket.UploadDocument)
		tickets.DELETE("/:id/documents/:type", h.Ticket.DeleteDocument)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
