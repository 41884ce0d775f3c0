package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/pkg/models"
)

// ShippingHandler serves the shipment report summary.
type ShippingHandler struct {
	services *app.Services
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(services *app.Services) *ShippingHandler {
	return &ShippingHandler{services: services}
}

type shippingStatsResponse struct {
	Success   bool                 `json:"success"`
	Available bool                 `json:"available"`
	Stats     models.ShippingStats `json:"stats"`
}

// GetStats summarizes the imported shipment table.
func (h *ShippingHandler) GetStats(c echo.Context) error {
	if !h.services.Shipping.Available() {
		return c.JSON(http.StatusOK, shippingStatsResponse{Success: true})
	}

	stats, err := h.services.Shipping.Stats()
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, shippingStatsResponse{
		Success:   true,
		Available: true,
		Stats:     stats,
	})
}

type shippingCostResponse struct {
	Success bool                `json:"success"`
	Order   string              `json:"order"`
	Cost    models.ShippingCost `json:"cost"`
}

// GetCost looks up the carrier cost recorded for one order.
func (h *ShippingHandler) GetCost(c echo.Context) error {
	order := c.Param("order")
	if order == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "pedido requerido"})
	}
	return c.JSON(http.StatusOK, shippingCostResponse{
		Success: true,
		Order:   order,
		Cost:    h.services.Shipping.CostForOrder(order),
	})
}
