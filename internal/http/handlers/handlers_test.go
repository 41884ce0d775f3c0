package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"woodash/internal/app"
	"woodash/internal/historical"
	"woodash/internal/shipping"
	"woodash/internal/woocommerce"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// unconfiguredServices is a container with every integration off.
func unconfiguredServices() *app.Services {
	return &app.Services{
		Woo:            woocommerce.NewClient("", "", ""),
		Shipping:       shipping.NewRepository(nil),
		DistributorSet: map[string]bool{},
	}
}

func TestHealthReportsMissingConfig(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(unconfiguredServices())
	if err := h.Health(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	if body["hasWooConfig"] != false || body["hasOpenAI"] != false {
		t.Errorf("config flags = %v / %v", body["hasWooConfig"], body["hasOpenAI"])
	}
}

func TestWooEndpointReportsSuccess(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"status":"completed","total":"150.00"}]`))
	}))
	defer store.Close()

	services := unconfiguredServices()
	services.Woo = woocommerce.NewClient(store.URL, "ck_test", "cs_test")

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/test-woo", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(services)
	if err := h.TestWoo(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
}

func TestWooEndpointFailsOnBadCredentials(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_cannot_view"}`, http.StatusUnauthorized)
	}))
	defer store.Close()

	services := unconfiguredServices()
	services.Woo = woocommerce.NewClient(store.URL, "ck_bad", "cs_bad")

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/test-woo", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(services)
	if err := h.TestWoo(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestDashboardWithoutStoreReturnsZeroedData(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?period=today", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewDashboardHandler(unconfiguredServices())
	if err := h.GetDashboard(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on missing config", rec.Code)
	}

	var body dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("expected success with zeroed data")
	}
	if body.Data.TotalSales != 0 || body.Data.OrdersCount != 0 {
		t.Errorf("data = %+v, want zeroed", body.Data)
	}
	if body.Period.Type != "today" {
		t.Errorf("period type = %q", body.Period.Type)
	}
}

const snapshotCSV = `Name,Email,Financial Status,Paid at,Fulfillment Status,Created at,Total,Lineitem name,Lineitem price,Lineitem quantity,Lineitem sku,Billing Name,Payment Method,Id
#1001,ana@example.com,paid,2025-01-15,fulfilled,2025-01-15,500.00,Serum Facial,500.00,1,SKU-1,Ana Torres,stripe,ORD-1001
#1002,luis@example.com,pending,,unfulfilled,2025-01-20,300.00,Crema,300.00,1,SKU-2,Luis Vega,paypal,ORD-1002
`

func snapshotServices(t *testing.T, csv string) *app.Services {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	services := unconfiguredServices()
	services.Historical = historical.NewLoader(historical.FileSource{Path: path})
	return services
}

const snapshot2024CSV = `Name,Email,Financial Status,Paid at,Fulfillment Status,Created at,Total,Lineitem name,Lineitem price,Lineitem quantity,Lineitem sku,Billing Name,Payment Method,Id
#2001,ana@example.com,paid,2024-03-10,fulfilled,2024-03-10,500.00,Serum Facial,500.00,1,SKU-1,Ana Torres,stripe,ORD-2001
#2002,luis@example.com,paid,2024-07-04,fulfilled,2024-07-04,300.00,Crema,300.00,1,SKU-2,Luis Vega,paypal,ORD-2002
`

// Snapshot orders arrive with fulfillment statuses, not the live store
// statuses, so the historical dashboard must not drop them.
func TestHistoricalDashboardKeepsFulfilledOrders(t *testing.T) {
	services := snapshotServices(t, snapshot2024CSV)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?period=historical-2024-full", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewDashboardHandler(services)
	if err := h.GetDashboard(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Source != "historical" {
		t.Errorf("source = %q", body.Source)
	}
	if body.Data.OrdersCount != 2 {
		t.Fatalf("ordersCount = %d, want 2", body.Data.OrdersCount)
	}
	if body.Data.TotalSales != 800 {
		t.Errorf("totalSales = %v, want 800", body.Data.TotalSales)
	}
}

func TestHistoricalDataEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	if err := os.WriteFile(path, []byte(snapshotCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	services := unconfiguredServices()
	services.Historical = historical.NewLoader(historical.FileSource{Path: path})

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/historical-data?month=enero&year=2025", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHistoricalHandler(services)
	if err := h.GetHistoricalData(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body historicalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Statistics.TotalOrders != 1 {
		t.Fatalf("totalOrders = %d, want 1 (unpaid row filtered)", body.Statistics.TotalOrders)
	}
	if body.Statistics.TotalRevenue != 500 {
		t.Errorf("totalRevenue = %v", body.Statistics.TotalRevenue)
	}
	if body.Statistics.AverageOrderValue != 500 {
		t.Errorf("averageOrderValue = %v", body.Statistics.AverageOrderValue)
	}
	if body.Sources.Historical != 1 || body.Sources.Total != 1 {
		t.Errorf("sources = %+v", body.Sources)
	}
}

func TestHistoricalDataRejectsBadMonth(t *testing.T) {
	services := unconfiguredServices()
	services.Historical = historical.NewLoader(historical.FileSource{Path: "does-not-matter.csv"})

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/historical-data?month=notamonth&year=2025", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHistoricalHandler(services)
	if err := h.GetHistoricalData(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDashboardCustomRangeParams(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet,
		"/api/dashboard?start_date=2025-02-01&end_date=2025-02-10&enableComparison=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewDashboardHandler(unconfiguredServices())
	if err := h.GetDashboard(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Period.Type != "custom" {
		t.Errorf("period type = %q, want custom", body.Period.Type)
	}
	if body.Period.StartDate != "2025-02-01" || body.Period.EndDate != "2025-02-10" {
		t.Errorf("period = %s .. %s", body.Period.StartDate, body.Period.EndDate)
	}
}

func TestHistoricalDataByDateRange(t *testing.T) {
	services := snapshotServices(t, snapshotCSV)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet,
		"/api/historical-data?start_date=2025-01-01&end_date=2025-01-31&source=historical", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHistoricalHandler(services)
	if err := h.GetHistoricalData(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body historicalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Statistics.TotalOrders != 1 {
		t.Fatalf("totalOrders = %d, want 1", body.Statistics.TotalOrders)
	}
	if body.Statistics.TotalRevenue != 500 {
		t.Errorf("totalRevenue = %v", body.Statistics.TotalRevenue)
	}
}

func TestHistoricalDataRejectsBadDates(t *testing.T) {
	services := snapshotServices(t, snapshotCSV)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet,
		"/api/historical-data?start_date=01/02/2025&end_date=2025-01-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHistoricalHandler(services)
	if err := h.GetHistoricalData(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestShippingCostWithoutDatabaseDegrades(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/shipping/cost/1001", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("order")
	c.SetParamValues("1001")

	h := NewShippingHandler(unconfiguredServices())
	if err := h.GetCost(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body shippingCostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("expected success without a database")
	}
	if body.Cost.Found {
		t.Error("cost.found = true, want false without a database")
	}
	if body.Cost.Source != "unavailable" {
		t.Errorf("cost.source = %q", body.Cost.Source)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"context":{}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewChatHandler(unconfiguredServices())
	if err := h.Ask(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatWithoutKeyIsUnavailable(t *testing.T) {
	// Both the question field and the older message alias must get past
	// the empty check.
	bodies := []string{
		`{"question":"¿cómo van las ventas?","context":{}}`,
		`{"message":"¿cómo van las ventas?"}`,
	}
	for _, payload := range bodies {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewChatHandler(unconfiguredServices())
		if err := h.Ask(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("body %s: status = %d, want 503", payload, rec.Code)
		}
	}
}
