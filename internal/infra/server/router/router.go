// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/advisory-portal/backend/internal/domain/entity"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/controller"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	authController      *controller.AuthController
	portfolioController *controller.PortfolioController
	adminController     *controller.AdminController
	loginRateLimiter    *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	portfolioController *controller.PortfolioController,
	adminController *controller.AdminController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:    healthController,
		authController:      authController,
		portfolioController: portfolioController,
		adminController:     adminController,
		loginRateLimiter:    loginRateLimiter,
		authMiddleware:      authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
				auth.POST("/forgot-password", r.authController.ForgotPassword)
				auth.POST("/reset-password", r.authController.ResetPassword)
			}
		}

		// Client portal routes
		if r.portfolioController != nil && r.authMiddleware != nil {
			portfolio := v1.Group("/portfolio")
			portfolio.Use(r.authMiddleware.Authenticate(), middleware.RequireRole(entity.RoleClient))
			{
				portfolio.GET("", r.portfolioController.Get)
				portfolio.GET("/transactions", r.portfolioController.ListTransactions)
				portfolio.GET("/statement.csv", r.portfolioController.ExportStatement)
			}
		}

		// Back office routes
		if r.adminController != nil && r.authMiddleware != nil {
			admin := v1.Group("/admin")
			admin.Use(r.authMiddleware.Authenticate(), middleware.RequireRole(entity.RoleAdmin))
			{
				admin.POST("/users", r.adminController.CreateUser)
				admin.GET("/investors", r.adminController.ListInvestors)
				admin.GET("/investors/:id/summary", r.adminController.GetInvestorSummary)
				admin.PUT("/investors/:id/payout-window", r.adminController.SetPayoutWindow)
				admin.POST("/investors/:id/payouts", r.adminController.GeneratePayout)
				admin.POST("/transactions", r.adminController.CreateTransaction)
				admin.PATCH("/transactions/:id", r.adminController.UpdateTransaction)
				admin.DELETE("/transactions/:id", r.adminController.DeleteTransaction)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
