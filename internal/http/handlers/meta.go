package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/meta"
)

// MetaHandler serves the organic Facebook/Instagram panel.
type MetaHandler struct {
	services *app.Services
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(services *app.Services) *MetaHandler {
	return &MetaHandler{services: services}
}

type metaResponse struct {
	Success bool         `json:"success"`
	Data    meta.Summary `json:"data"`
	Note    string       `json:"note,omitempty"`
}

// GetOrganic returns page and Instagram performance. Query param days
// defaults to 28, the Graph API's preferred insight window.
func (h *MetaHandler) GetOrganic(c echo.Context) error {
	if h.services.Meta == nil || !h.services.Meta.Configured() {
		return c.JSON(http.StatusOK, metaResponse{
			Success: true,
			Note:    "Meta no está configurado",
		})
	}

	days := 28
	if d, err := strconv.Atoi(c.QueryParam("days")); err == nil && d > 0 && d <= 90 {
		days = d
	}

	return c.JSON(http.StatusOK, metaResponse{
		Success: true,
		Data:    h.services.Meta.GetSummary(contextOf(c), days),
	})
}
