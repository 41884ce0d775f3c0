package models

// PaymentBucket is one payment-method slice of the aggregate.
type PaymentBucket struct {
	Sales      float64 `json:"sales"`
	Orders     int     `json:"orders"`
	AvgTicket  float64 `json:"avgTicket"`
	Percentage string  `json:"percentage"`
}

// StatusBucket is one order-status slice of the aggregate.
type StatusBucket struct {
	Sales      float64 `json:"sales"`
	Orders     int     `json:"orders"`
	Percentage string  `json:"percentage"`
}

// CustomerTypeBucket rolls up either the distributor or the regular
// customer side of the classification.
type CustomerTypeBucket struct {
	Sales          float64 `json:"sales"`
	Orders         int     `json:"orders"`
	Customers      int     `json:"customers"`
	AvgTicket      float64 `json:"avgTicket"`
	Percentage     string  `json:"percentage"`
	AvgPerCustomer float64 `json:"avgPerCustomer"`
}

// TopProduct is one row of the top-products table, taken from the
// popularity-ordered product list the store reports.
type TopProduct struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Sales int64   `json:"sales"`
	Price float64 `json:"price"`
}

// TopOrder is one row of the top-orders table.
type TopOrder struct {
	ID           any     `json:"id"`
	Total        float64 `json:"total"`
	Customer     string  `json:"customer"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	ShippingCost float64 `json:"shippingCost,omitempty"`
}

// AggregateResult is the KPI summary the dashboard renders. Computed
// fresh on every request, never cached.
type AggregateResult struct {
	TotalSales     float64                       `json:"totalSales"`
	OrdersCount    int                           `json:"ordersCount"`
	AvgTicket      float64                       `json:"avgTicket"`
	PaymentMethods map[string]PaymentBucket      `json:"paymentMethods"`
	OrderStates    map[string]StatusBucket       `json:"orderStates"`
	CustomerTypes  map[string]CustomerTypeBucket `json:"customerTypes"`
	TopProducts    []TopProduct                  `json:"topProducts"`
	TopOrders      []TopOrder                    `json:"topOrders"`
}

// CustomerSummary is one distinct billing email rolled up across its
// orders, used for the classification debug block.
type CustomerSummary struct {
	Customer   string  `json:"name"`
	Email      string  `json:"email"`
	TotalSpent float64 `json:"totalSpent"`
	OrderCount int     `json:"orders"`
	AvgTicket  float64 `json:"avgTicket"`
}

// ComparativeMetric carries a primary/previous value pair with the
// percentage change between them.
type ComparativeMetric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// Comparative is the previous-window companion of an AggregateResult.
type Comparative struct {
	TotalSales  ComparativeMetric `json:"totalSales"`
	OrdersCount ComparativeMetric `json:"ordersCount"`
	AvgTicket   ComparativeMetric `json:"avgTicket"`
	PeriodInfo  PeriodInfo        `json:"periodInfo"`
}

// PeriodInfo echoes the resolved window back to the client.
type PeriodInfo struct {
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
}
