package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/googleads"
	"woodash/internal/period"
)

// AdsHandler serves the Google Ads campaign panel.
type AdsHandler struct {
	services *app.Services
}

// NewAdsHandler creates a new ads handler
func NewAdsHandler(services *app.Services) *AdsHandler {
	return &AdsHandler{services: services}
}

type adsResponse struct {
	Success bool              `json:"success"`
	Data    googleads.Summary `json:"data"`
	Note    string            `json:"note,omitempty"`
}

// GetAds returns campaign performance for the requested period. The
// same period keywords as the dashboard apply.
func (h *AdsHandler) GetAds(c echo.Context) error {
	if h.services.Ads == nil {
		return c.JSON(http.StatusOK, adsResponse{
			Success: true,
			Note:    "Google Ads no está configurado",
		})
	}

	p := period.Resolve(c.QueryParam("period"),
		queryAlias(c, "start_date", "startDate"), queryAlias(c, "end_date", "endDate"), time.Now())
	summary := h.services.Ads.GetSummary(contextOf(c),
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))

	return c.JSON(http.StatusOK, adsResponse{Success: true, Data: summary})
}
