package handlers

import (
	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/http/middleware"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	healthHandler := NewHealthHandler(services)
	api.GET("/health", healthHandler.Health)
	api.GET("/test-woo", healthHandler.TestWoo)

	authHandler := NewAuthHandler(services.Auth)
	api.POST("/auth/login", authHandler.Login)

	dashboardHandler := NewDashboardHandler(services)
	api.GET("/dashboard", dashboardHandler.GetDashboard)

	historicalHandler := NewHistoricalHandler(services)
	api.GET("/historical-data", historicalHandler.GetHistoricalData)

	analyticsHandler := NewAnalyticsHandler(services)
	api.GET("/analytics", analyticsHandler.GetAnalytics)

	adsHandler := NewAdsHandler(services)
	api.GET("/ads", adsHandler.GetAds)

	metaHandler := NewMetaHandler(services)
	api.GET("/meta-organic", metaHandler.GetOrganic)

	chatHandler := NewChatHandler(services)
	api.POST("/chat", chatHandler.Ask)

	// Ops routes behind auth; everything above stays open because the
	// dashboard itself runs inside the office network.
	ops := api.Group("/shipping")
	ops.Use(middleware.JWTAuth(services.Auth))
	shippingHandler := NewShippingHandler(services)
	ops.GET("/cost/:order", shippingHandler.GetCost)
	ops.GET("/stats", shippingHandler.GetStats, middleware.RequireRole("admin"))
}
