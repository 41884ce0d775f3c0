package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
)

// HealthHandler serves liveness and store-connectivity probes.
type HealthHandler struct {
	services *app.Services
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(services *app.Services) *HealthHandler {
	return &HealthHandler{services: services}
}

// Health reports process status and which integrations are configured.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"hasWooConfig": h.services.Woo.Configured(),
		"hasOpenAI":    h.services.Chat != nil,
	})
}

// TestWoo pings the store API with the configured credentials.
func (h *HealthHandler) TestWoo(c echo.Context) error {
	if !h.services.Woo.Configured() {
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"error":   "WooCommerce no está configurado",
		})
	}

	if err := h.services.Woo.Ping(contextOf(c)); err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Conexión con WooCommerce verificada",
	})
}
