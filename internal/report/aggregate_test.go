package report

import (
	"math"
	"testing"

	"woodash/pkg/models"
)

func order(total, status, method, email string) models.Order {
	return models.Order{
		Total:         total,
		Status:        status,
		PaymentMethod: method,
		Billing:       models.Billing{FirstName: "Ana", LastName: "García", Email: email},
	}
}

func TestAggregateFoldsUnknownMethodsIntoTransfer(t *testing.T) {
	orders := []models.Order{
		order("100", "completed", "stripe", "a@x.mx"),
		order("200", "processing", "oxxo", "b@x.mx"),
	}

	result, _ := Aggregate(orders, Options{AllowedStatuses: []string{"completed", "processing"}}, nil)

	if result.TotalSales != 300 {
		t.Fatalf("totalSales = %v, want 300", result.TotalSales)
	}
	if got := result.PaymentMethods["transfer"].Sales; got != 200 {
		t.Errorf("transfer.sales = %v, want 200 (oxxo folded in)", got)
	}
	if got := result.PaymentMethods["stripe"].Sales; got != 100 {
		t.Errorf("stripe.sales = %v, want 100", got)
	}
	if got := result.OrderStates["completed"].Percentage; got != "33.3" {
		t.Errorf("completed.percentage = %q, want \"33.3\"", got)
	}
}

func TestAggregateAllStatusesKeepsEveryOrder(t *testing.T) {
	// Snapshot exports carry fulfillment statuses that never appear in
	// the default filter; the bypass has to keep them all.
	orders := []models.Order{
		order("500", "fulfilled", "stripe", "a@x.mx"),
		order("300", "fulfilled", "paypal", "b@x.mx"),
	}

	result, debug := Aggregate(orders, Options{AllStatuses: true}, nil)

	if result.OrdersCount != 2 {
		t.Fatalf("ordersCount = %d, want 2", result.OrdersCount)
	}
	if result.TotalSales != 800 {
		t.Errorf("totalSales = %v, want 800", result.TotalSales)
	}
	if len(debug.ActiveFilters) != 1 || debug.ActiveFilters[0] != "all" {
		t.Errorf("activeFilters = %v, want [all]", debug.ActiveFilters)
	}
}

func TestAggregatePaymentBucketsSumToTotal(t *testing.T) {
	orders := []models.Order{
		order("150.50", "completed", "stripe", "a@x.mx"),
		order("99.99", "completed", "ppcp-gateway", "b@x.mx"),
		order("49.01", "delivered", "ppcp-credit-card-gateway", "c@x.mx"),
		order("310", "processing", "bacs", "d@x.mx"),
		order("75", "processing", "cod", "e@x.mx"),
		order("12.25", "completed", "", "f@x.mx"),
	}

	result, debug := Aggregate(orders, Options{}, nil)

	var bucketSum float64
	var bucketOrders int
	for _, b := range result.PaymentMethods {
		bucketSum += b.Sales
		bucketOrders += b.Orders
	}
	if math.Abs(bucketSum-result.TotalSales) > 1e-9 {
		t.Errorf("payment buckets sum %v != totalSales %v", bucketSum, result.TotalSales)
	}
	if bucketOrders != result.OrdersCount {
		t.Errorf("payment bucket orders %d != ordersCount %d", bucketOrders, result.OrdersCount)
	}
	// Both PayPal gateway ids consolidate into one bucket.
	if got := result.PaymentMethods["paypal"].Orders; got != 2 {
		t.Errorf("paypal.orders = %d, want 2", got)
	}
	// Raw breakdown keeps the un-folded methods for the debug block.
	if debug.RealPaymentMethodsFound != 6 {
		t.Errorf("realPaymentMethodsFound = %d, want 6", debug.RealPaymentMethodsFound)
	}
}

func TestAggregateStatusBucketOrdersSumToFilteredCount(t *testing.T) {
	orders := []models.Order{
		order("10", "completed", "stripe", "a@x.mx"),
		order("20", "completed", "stripe", "a@x.mx"),
		order("30", "delivered", "stripe", "b@x.mx"),
		order("40", "on-hold", "stripe", "c@x.mx"),
		order("50", "refunded", "stripe", "d@x.mx"),
	}

	result, _ := Aggregate(orders, Options{AllowedStatuses: []string{"completed", "delivered", "on-hold"}}, nil)

	sum := 0
	for _, b := range result.OrderStates {
		sum += b.Orders
	}
	if sum != result.OrdersCount {
		t.Errorf("status bucket orders sum %d != filtered count %d", sum, result.OrdersCount)
	}
	if result.OrdersCount != 4 {
		t.Errorf("ordersCount = %d, want 4 (refunded excluded)", result.OrdersCount)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	result, _ := Aggregate(nil, Options{}, nil)

	if result.AvgTicket != 0 {
		t.Errorf("avgTicket = %v, want 0", result.AvgTicket)
	}
	if result.TotalSales != 0 {
		t.Errorf("totalSales = %v, want 0", result.TotalSales)
	}
	for name, b := range result.PaymentMethods {
		if b.Percentage != "0" {
			t.Errorf("%s.percentage = %q, want \"0\"", name, b.Percentage)
		}
	}
}

func TestAggregateUnparseableTotalCountsAsZero(t *testing.T) {
	orders := []models.Order{
		order("not-a-number", "completed", "stripe", "a@x.mx"),
		order("100", "completed", "stripe", "a@x.mx"),
	}

	result, _ := Aggregate(orders, Options{}, nil)

	if result.TotalSales != 100 {
		t.Errorf("totalSales = %v, want 100", result.TotalSales)
	}
	if math.IsNaN(result.AvgTicket) {
		t.Error("avgTicket is NaN")
	}
}

func TestClassifyDistributorsCaseInsensitive(t *testing.T) {
	orders := []models.Order{
		order("1000", "completed", "stripe", "Vero@Innata.MX"),
		order("500", "completed", "stripe", "vero@innata.mx"),
		order("200", "completed", "stripe", "regular@gmail.com"),
		order("50", "completed", "stripe", ""),
	}
	opts := Options{
		DistributorEmails: map[string]bool{"vero@innata.mx": true},
	}

	result, debug := Aggregate(orders, opts, nil)

	dist := result.CustomerTypes["distributors"]
	cust := result.CustomerTypes["customers"]

	// Case variants of the same address group separately by raw email but
	// both classify as distributor.
	if dist.Customers != 2 {
		t.Errorf("distributors.customers = %d, want 2", dist.Customers)
	}
	if dist.Sales != 1500 {
		t.Errorf("distributors.sales = %v, want 1500", dist.Sales)
	}
	// The missing-email order counts as its own single customer.
	if cust.Customers != 2 {
		t.Errorf("customers.customers = %d, want 2", cust.Customers)
	}
	if got := dist.Customers + cust.Customers; got != 4 {
		t.Errorf("total distinct customers = %d, want 4", got)
	}
	if debug.CustomerClassification.DistributorsFound != 2 {
		t.Errorf("debug distributorsFound = %d", debug.CustomerClassification.DistributorsFound)
	}
	if dist.AvgPerCustomer != 750 {
		t.Errorf("distributors.avgPerCustomer = %v, want 750", dist.AvgPerCustomer)
	}
}

func TestTopOrdersSortedDescendingTruncatedToFive(t *testing.T) {
	orders := []models.Order{
		order("10", "completed", "stripe", "a@x.mx"),
		order("600", "completed", "stripe", "b@x.mx"),
		order("300", "completed", "stripe", "c@x.mx"),
		order("450", "completed", "stripe", "d@x.mx"),
		order("90", "completed", "stripe", "e@x.mx"),
		order("120", "completed", "stripe", "f@x.mx"),
	}

	result, _ := Aggregate(orders, Options{}, nil)

	if len(result.TopOrders) != 5 {
		t.Fatalf("topOrders length = %d, want 5", len(result.TopOrders))
	}
	if result.TopOrders[0].Total != 600 {
		t.Errorf("topOrders[0].total = %v, want 600", result.TopOrders[0].Total)
	}
	for i := 1; i < len(result.TopOrders); i++ {
		if result.TopOrders[i].Total > result.TopOrders[i-1].Total {
			t.Errorf("topOrders not sorted at %d", i)
		}
	}
}

func TestTopProductsFromPopularityList(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Immuneup", Price: "950", TotalSales: 120},
		{ID: 2, Name: "Relax", Price: "850", TotalSales: 90},
		{ID: 3, Name: "Energy", Price: "800", TotalSales: 70},
		{ID: 4, Name: "Focus", Price: "780", TotalSales: 50},
		{ID: 5, Name: "Sleep", Price: "760", TotalSales: 40},
		{ID: 6, Name: "Detox", Price: "700", TotalSales: 30},
	}

	result, _ := Aggregate(nil, Options{}, products)

	if len(result.TopProducts) != 5 {
		t.Fatalf("topProducts length = %d, want 5", len(result.TopProducts))
	}
	if result.TopProducts[0].Name != "Immuneup" || result.TopProducts[0].Price != 950 {
		t.Errorf("topProducts[0] = %+v", result.TopProducts[0])
	}
}

func TestBuildComparativeChange(t *testing.T) {
	cur := models.AggregateResult{TotalSales: 150, OrdersCount: 3, AvgTicket: 50}
	prev := models.AggregateResult{TotalSales: 100, OrdersCount: 2, AvgTicket: 50}

	c := BuildComparative(cur, prev, models.PeriodInfo{})

	if c.TotalSales.Change != 50 {
		t.Errorf("totalSales.change = %v, want 50", c.TotalSales.Change)
	}
	if c.AvgTicket.Change != 0 {
		t.Errorf("avgTicket.change = %v, want 0", c.AvgTicket.Change)
	}

	zero := BuildComparative(cur, models.AggregateResult{}, models.PeriodInfo{})
	if zero.TotalSales.Change != 100 {
		t.Errorf("change vs empty previous = %v, want 100", zero.TotalSales.Change)
	}
}
