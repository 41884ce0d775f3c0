package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"woodash/internal/app"
	"woodash/internal/period"
	"woodash/internal/report"
	"woodash/pkg/models"
)

// fetchTimeout bounds every upstream call. No retries; a slow vendor
// degrades its own panel and nothing else.
const fetchTimeout = 30 * time.Second

// DashboardHandler serves the main KPI endpoint.
type DashboardHandler struct {
	services *app.Services
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(services *app.Services) *DashboardHandler {
	return &DashboardHandler{services: services}
}

// dashboardResponse is the /dashboard payload.
type dashboardResponse struct {
	Success     bool                   `json:"success"`
	Period      models.PeriodInfo      `json:"period"`
	Data        models.AggregateResult `json:"data"`
	Comparative *models.Comparative    `json:"comparative,omitempty"`
	Debug       *report.Debug          `json:"debug,omitempty"`
	Source      string                 `json:"source"`
	Note        string                 `json:"note,omitempty"`
}

// queryAlias returns the first non-empty value among the given query
// parameter names, so older clients keep working after a rename.
func queryAlias(c echo.Context, names ...string) string {
	for _, name := range names {
		if v := c.QueryParam(name); v != "" {
			return v
		}
	}
	return ""
}

// GetDashboard resolves the requested period, pulls orders and products
// from the store and returns the aggregated KPIs. Query params:
// period (keyword), start_date/end_date (custom range, wins over the
// keyword), status_filters (comma separated), enableComparison=true
// for the previous window metrics.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	keyword := c.QueryParam("period")
	p := period.Resolve(keyword,
		queryAlias(c, "start_date", "startDate"),
		queryAlias(c, "end_date", "endDate"),
		time.Now())
	info := periodInfo(p)

	statuses := report.DefaultStatuses()
	if raw := queryAlias(c, "status_filters", "statuses"); raw != "" {
		statuses = statuses[:0]
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
				statuses = append(statuses, s)
			}
		}
	}
	opts := report.Options{
		AllowedStatuses:   statuses,
		DistributorEmails: h.services.DistributorSet,
	}

	// Historical windows come from the snapshot, not the live store.
	if period.IsHistorical(p.Kind) {
		return h.historicalDashboard(c, p, info, opts)
	}

	if !h.services.Woo.Configured() {
		return c.JSON(http.StatusOK, dashboardResponse{
			Success: true,
			Period:  info,
			Data:    emptyAggregate(),
			Source:  "none",
			Note:    "WooCommerce no está configurado",
		})
	}

	orders, products, err := h.fetchStore(c, p)
	if err != nil {
		return upstreamError(c, err)
	}

	result, debug := report.Aggregate(orders, opts, products)
	h.attachShippingCosts(result.TopOrders)

	resp := dashboardResponse{
		Success: true,
		Period:  info,
		Data:    result,
		Debug:   &debug,
		Source:  "woocommerce",
	}

	if queryAlias(c, "enableComparison", "compare") == "true" {
		prev := period.Previous(p)
		prevOrders, err := h.services.Woo.FetchOrders(contextOf(c), prev.Start, prev.End, 100, "any")
		if err != nil {
			// The primary window already loaded; ship it without the
			// comparison instead of failing the whole request.
			log.Warn().Err(err).Msg("comparison window fetch failed")
		} else {
			prevResult, _ := report.Aggregate(prevOrders, opts, nil)
			comparative := report.BuildComparative(result, prevResult, models.PeriodInfo{
				Label:     period.ComparisonLabel(p.Kind),
				StartDate: prev.Start.Format("2006-01-02"),
				EndDate:   prev.End.Format("2006-01-02"),
				Type:      prev.Kind,
			})
			resp.Comparative = &comparative
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// fetchStore pulls orders and the popularity-ordered product list
// concurrently.
func (h *DashboardHandler) fetchStore(c echo.Context, p period.Period) ([]models.Order, []models.Product, error) {
	var (
		wg       sync.WaitGroup
		orders   []models.Order
		products []models.Product
		ordersErr, productsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordersErr = h.services.Woo.FetchOrders(contextOf(c), p.Start, p.End, 100, "any")
	}()
	go func() {
		defer wg.Done()
		products, productsErr = h.services.Woo.FetchProducts(contextOf(c), 10, "popularity")
	}()
	wg.Wait()

	if ordersErr != nil {
		return nil, nil, fmt.Errorf("error al obtener pedidos: %w", ordersErr)
	}
	if productsErr != nil {
		// Products only feed the top-products table; the dashboard
		// still works without them.
		log.Warn().Err(productsErr).Msg("product fetch failed, top products will be empty")
		products = nil
	}
	return orders, products, nil
}

func (h *DashboardHandler) historicalDashboard(c echo.Context, p period.Period, info models.PeriodInfo, opts report.Options) error {
	if h.services.Historical == nil {
		return c.JSON(http.StatusOK, dashboardResponse{
			Success: true,
			Period:  info,
			Data:    emptyAggregate(),
			Source:  "none",
			Note:    "No hay datos históricos configurados",
		})
	}

	res, err := h.services.Historical.LoadRange(contextOf(c), p.Start, p.End)
	if err != nil {
		return upstreamError(c, err)
	}

	// The snapshot only contains paid orders; their fulfillment-based
	// statuses never match the live filter, so disable it.
	histOpts := opts
	histOpts.AllStatuses = true
	result, debug := report.Aggregate(res.Orders, histOpts, nil)
	return c.JSON(http.StatusOK, dashboardResponse{
		Success: true,
		Period:  info,
		Data:    result,
		Debug:   &debug,
		Source:  "historical",
	})
}

// attachShippingCosts decorates the top orders with real carrier costs
// when the shipment table is available.
func (h *DashboardHandler) attachShippingCosts(top []models.TopOrder) {
	if !h.services.Shipping.Available() || len(top) == 0 {
		return
	}
	refs := make([]string, 0, len(top))
	for _, o := range top {
		refs = append(refs, fmt.Sprint(o.ID))
	}
	costs := h.services.Shipping.CostsForOrders(refs)
	for i := range top {
		if cost, ok := costs[fmt.Sprint(top[i].ID)]; ok {
			top[i].ShippingCost = cost.Cost
		}
	}
}

func periodInfo(p period.Period) models.PeriodInfo {
	return models.PeriodInfo{
		Label:     p.Label,
		StartDate: p.Start.Format("2006-01-02"),
		EndDate:   p.End.Format("2006-01-02"),
		Type:      p.Kind,
	}
}

func emptyAggregate() models.AggregateResult {
	return models.AggregateResult{
		PaymentMethods: map[string]models.PaymentBucket{},
		OrderStates:    map[string]models.StatusBucket{},
		CustomerTypes:  map[string]models.CustomerTypeBucket{},
		TopProducts:    []models.TopProduct{},
		TopOrders:      []models.TopOrder{},
	}
}
