package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/historical"
	"woodash/internal/period"
	"woodash/pkg/models"
)

// HistoricalHandler serves the archived-order endpoint backed by the
// exported store snapshot.
type HistoricalHandler struct {
	services *app.Services
}

// NewHistoricalHandler creates a new historical handler
func NewHistoricalHandler(services *app.Services) *HistoricalHandler {
	return &HistoricalHandler{services: services}
}

type historicalStatistics struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type historicalResponse struct {
	Success    bool                 `json:"success"`
	Month      string               `json:"month"`
	Year       int                  `json:"year"`
	Statistics historicalStatistics `json:"statistics"`
	Orders     []models.Order       `json:"orders"`
	Sources    struct {
		Historical  int `json:"historical"`
		WooCommerce int `json:"woocommerce"`
		Total       int `json:"total"`
	} `json:"sources"`
}

// GetHistoricalData returns the paid orders of a snapshot window.
// Query params: start_date and end_date (YYYY-MM-DD), or month
// (Spanish name, e.g. "enero") plus year, or a historical-* period
// keyword. The source param is accepted but only "historical" data
// is served here.
func (h *HistoricalHandler) GetHistoricalData(c echo.Context) error {
	if h.services.Historical == nil {
		resp := historicalResponse{Success: true, Orders: []models.Order{}}
		resp.Month = c.QueryParam("month")
		return c.JSON(http.StatusOK, resp)
	}

	var (
		res       *historical.Result
		monthName string
		year      int
	)
	if start := queryAlias(c, "start_date", "startDate"); start != "" {
		end := queryAlias(c, "end_date", "endDate")
		startTime, err := time.Parse("2006-01-02", start)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "start_date inválida: " + start})
		}
		endTime, err := time.Parse("2006-01-02", end)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "end_date inválida: " + end})
		}
		// End date is inclusive; extend it to the last second of the day.
		loaded, err := h.services.Historical.LoadRange(contextOf(c), startTime, endTime.Add(24*time.Hour-time.Second))
		if err != nil {
			return upstreamError(c, err)
		}
		res = loaded
		year = startTime.Year()
	} else if keyword := c.QueryParam("period"); keyword != "" {
		// historical-* keywords span several months; load the whole
		// resolved window in one pass.
		p := period.Resolve(keyword, "", "", time.Now())
		if !period.IsHistorical(p.Kind) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "periodo no histórico: " + keyword})
		}
		loaded, err := h.services.Historical.LoadRange(contextOf(c), p.Start, p.End)
		if err != nil {
			return upstreamError(c, err)
		}
		res = loaded
	} else {
		monthName = strings.ToLower(strings.TrimSpace(c.QueryParam("month")))
		month, err := historical.ParseMonth(monthName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "mes inválido: " + monthName})
		}
		year, err = strconv.Atoi(c.QueryParam("year"))
		if err != nil || year < 2000 || year > 2100 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "año inválido"})
		}
		loaded, err := h.services.Historical.LoadMonth(contextOf(c), month, year)
		if err != nil {
			return upstreamError(c, err)
		}
		res = loaded
	}

	resp := historicalResponse{
		Success: true,
		Month:   monthName,
		Year:    year,
		Orders:  res.Orders,
	}
	for _, order := range res.Orders {
		if total, err := strconv.ParseFloat(order.Total, 64); err == nil {
			resp.Statistics.TotalRevenue += total
		}
	}
	resp.Statistics.TotalOrders = len(res.Orders)
	if resp.Statistics.TotalOrders > 0 {
		resp.Statistics.AverageOrderValue = resp.Statistics.TotalRevenue / float64(resp.Statistics.TotalOrders)
	}
	resp.Sources.Historical = len(res.Orders)
	resp.Sources.Total = len(res.Orders)

	return c.JSON(http.StatusOK, resp)
}
