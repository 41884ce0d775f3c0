package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/ga4"
)

// AnalyticsHandler serves the GA4 traffic panel.
type AnalyticsHandler struct {
	services *app.Services
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(services *app.Services) *AnalyticsHandler {
	return &AnalyticsHandler{services: services}
}

type analyticsResponse struct {
	Success bool        `json:"success"`
	Data    ga4.Summary `json:"data"`
	Note    string      `json:"note,omitempty"`
}

// GetAnalytics returns the GA4 summary. Query param days defaults to 30.
func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	if h.services.Analytics == nil {
		return c.JSON(http.StatusOK, analyticsResponse{
			Success: true,
			Note:    "Google Analytics no está configurado",
		})
	}

	days := 30
	if d, err := strconv.Atoi(c.QueryParam("days")); err == nil && d > 0 && d <= 365 {
		days = d
	}

	ctx, cancel := context.WithTimeout(contextOf(c), fetchTimeout)
	defer cancel()

	return c.JSON(http.StatusOK, analyticsResponse{
		Success: true,
		Data:    h.services.Analytics.GetSummary(ctx, days),
	})
}
