// Package report computes the KPI aggregate the dashboard renders from a
// list of raw orders. All sums run over the decimal strings the store
// returns; values that fail to parse count as zero so a single bad order
// never poisons a total with NaN.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"woodash/pkg/models"
)

// DefaultStatuses is the status filter applied when the caller sends none.
func DefaultStatuses() []string {
	return []string{"completed", "delivered", "processing"}
}

// canonicalPayment folds the raw gateway ids the store reports into the
// three buckets the dashboard shows. Both PayPal gateway variants
// consolidate into paypal; anything unrecognized folds into transfer as
// a deliberate simplification (visible in the debug block).
func canonicalPayment(method string) string {
	switch method {
	case "stripe":
		return "stripe"
	case "paypal", "ppcp-gateway", "ppcp-credit-card-gateway":
		return "paypal"
	default:
		return "transfer"
	}
}

// Options controls one aggregation pass. AllStatuses disables the
// status filter entirely; an empty AllowedStatuses list means
// DefaultStatuses, not "none".
type Options struct {
	AllowedStatuses   []string
	AllStatuses       bool
	DistributorEmails map[string]bool // lower-cased
}

// RawPayment is one gateway id as the store reported it, before folding.
type RawPayment struct {
	Title  string  `json:"title"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// Classification summarizes the distributor/customer split for debug.
type Classification struct {
	Criteria          string                   `json:"criteria"`
	DistributorsFound int                      `json:"distributorsFound"`
	CustomersFound    int                      `json:"customersFound"`
	TopDistributors   []models.CustomerSummary `json:"topDistributors"`
	TopCustomers      []models.CustomerSummary `json:"topCustomers"`
}

// Debug carries the transparency block returned next to the aggregate.
type Debug struct {
	TotalOrdersAnalyzed     int                   `json:"totalOrdersAnalyzed"`
	TotalOrdersAll          int                   `json:"totalOrdersAll"`
	FilteredOrdersCount     int                   `json:"filteredOrdersCount"`
	RealPaymentMethodsFound int                   `json:"realPaymentMethodsFound"`
	PaymentMethodBreakdown  map[string]RawPayment `json:"paymentMethodBreakdown"`
	StatusBreakdownAll      map[string]int        `json:"statusBreakdownAll"`
	ActiveFilters           []string              `json:"activeFilters"`
	CustomerClassification  Classification        `json:"customerClassification"`
	Note                    string                `json:"note"`
}

// Aggregate filters orders by status and computes the full KPI summary.
// products is the separately fetched popularity-ordered list used for
// the top-products table; it may be nil when that fetch failed.
func Aggregate(allOrders []models.Order, opts Options, products []models.Product) (models.AggregateResult, Debug) {
	allowed := opts.AllowedStatuses
	if len(allowed) == 0 {
		allowed = DefaultStatuses()
	}

	var orders []models.Order
	if opts.AllStatuses {
		allowed = []string{"all"}
		orders = allOrders
	} else {
		allowedSet := make(map[string]bool, len(allowed))
		for _, s := range allowed {
			allowedSet[s] = true
		}
		for _, o := range allOrders {
			if allowedSet[o.Status] {
				orders = append(orders, o)
			}
		}
	}

	totalSales := 0.0
	for _, o := range orders {
		totalSales += parseAmount(o.Total)
	}
	avgTicket := 0.0
	if len(orders) > 0 {
		avgTicket = totalSales / float64(len(orders))
	}

	rawPayments := make(map[string]RawPayment)
	folded := make(map[string]*models.PaymentBucket)
	for _, name := range []string{"stripe", "paypal", "transfer"} {
		folded[name] = &models.PaymentBucket{}
	}
	for _, o := range orders {
		method := o.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		raw := rawPayments[method]
		if raw.Title == "" {
			raw.Title = o.PaymentMethodTitle
			if raw.Title == "" {
				raw.Title = "Desconocido"
			}
		}
		amount := parseAmount(o.Total)
		raw.Sales += amount
		raw.Orders++
		rawPayments[method] = raw

		bucket := folded[canonicalPayment(method)]
		bucket.Sales += amount
		bucket.Orders++
	}

	paymentMethods := make(map[string]models.PaymentBucket, len(folded))
	for name, b := range folded {
		if b.Orders > 0 {
			b.AvgTicket = b.Sales / float64(b.Orders)
		}
		b.Percentage = percentOf(b.Sales, totalSales)
		paymentMethods[name] = *b
	}

	orderStates := statusBuckets(orders, totalSales)

	statusAll := make(map[string]int)
	for _, o := range allOrders {
		statusAll[o.Status]++
	}

	customerTypes, classification := classifyCustomers(orders, opts.DistributorEmails, totalSales)

	result := models.AggregateResult{
		TotalSales:     totalSales,
		OrdersCount:    len(orders),
		AvgTicket:      avgTicket,
		PaymentMethods: paymentMethods,
		OrderStates:    orderStates,
		CustomerTypes:  customerTypes,
		TopProducts:    topProducts(products),
		TopOrders:      topOrders(orders),
	}

	debug := Debug{
		TotalOrdersAnalyzed:     len(orders),
		TotalOrdersAll:          len(allOrders),
		FilteredOrdersCount:     len(orders),
		RealPaymentMethodsFound: len(rawPayments),
		PaymentMethodBreakdown:  rawPayments,
		StatusBreakdownAll:      statusAll,
		ActiveFilters:           allowed,
		CustomerClassification:  classification,
		Note:                    fmt.Sprintf("Estados incluidos: %s - Filtros activos aplicados", strings.Join(allowed, ", ")),
	}
	return result, debug
}

// statusBuckets breaks the filtered orders down per status. The three
// canonical states always appear so the frontend cards never miss keys.
func statusBuckets(orders []models.Order, totalSales float64) map[string]models.StatusBucket {
	sums := make(map[string]*models.StatusBucket)
	for _, name := range []string{"completed", "delivered", "processing"} {
		sums[name] = &models.StatusBucket{}
	}
	for _, o := range orders {
		b := sums[o.Status]
		if b == nil {
			b = &models.StatusBucket{}
			sums[o.Status] = b
		}
		b.Sales += parseAmount(o.Total)
		b.Orders++
	}
	out := make(map[string]models.StatusBucket, len(sums))
	for name, b := range sums {
		b.Percentage = percentOf(b.Sales, totalSales)
		out[name] = *b
	}
	return out
}

// classifyCustomers groups orders by billing email and splits distinct
// customers into distributors and regular customers by exact membership
// in the distributor email set (case-insensitive).
func classifyCustomers(orders []models.Order, distributorEmails map[string]bool, totalSales float64) (map[string]models.CustomerTypeBucket, Classification) {
	byEmail := make(map[string]*models.CustomerSummary)
	for _, o := range orders {
		key := o.Billing.Email
		if key == "" {
			key = "no-email"
		}
		cs := byEmail[key]
		if cs == nil {
			cs = &models.CustomerSummary{
				Customer: strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName),
				Email:    o.Billing.Email,
			}
			byEmail[key] = cs
		}
		cs.TotalSpent += parseAmount(o.Total)
		cs.OrderCount++
	}

	var distributors, customers []models.CustomerSummary
	for _, cs := range byEmail {
		if cs.OrderCount > 0 {
			cs.AvgTicket = cs.TotalSpent / float64(cs.OrderCount)
		}
		if distributorEmails[strings.ToLower(cs.Email)] {
			distributors = append(distributors, *cs)
		} else {
			customers = append(customers, *cs)
		}
	}

	buckets := map[string]models.CustomerTypeBucket{
		"distributors": rollupCustomers(distributors, totalSales),
		"customers":    rollupCustomers(customers, totalSales),
	}

	sortBySpent := func(list []models.CustomerSummary) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].TotalSpent > list[j].TotalSpent })
	}
	sortBySpent(distributors)
	sortBySpent(customers)

	classification := Classification{
		Criteria:          fmt.Sprintf("Clasificación exacta por email: %d distribuidores identificados por su dirección de correo electrónico", len(distributorEmails)),
		DistributorsFound: len(distributors),
		CustomersFound:    len(customers),
		TopDistributors:   topN(distributors, 3),
		TopCustomers:      topN(customers, 3),
	}
	return buckets, classification
}

func rollupCustomers(list []models.CustomerSummary, totalSales float64) models.CustomerTypeBucket {
	b := models.CustomerTypeBucket{Customers: len(list)}
	for _, cs := range list {
		b.Sales += cs.TotalSpent
		b.Orders += cs.OrderCount
	}
	if b.Orders > 0 {
		b.AvgTicket = b.Sales / float64(b.Orders)
	}
	if b.Customers > 0 {
		b.AvgPerCustomer = b.Sales / float64(b.Customers)
	}
	b.Percentage = percentOf(b.Sales, totalSales)
	return b
}

func topOrders(orders []models.Order) []models.TopOrder {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseAmount(sorted[i].Total) > parseAmount(sorted[j].Total)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	out := make([]models.TopOrder, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, models.TopOrder{
			ID:       o.ID,
			Total:    parseAmount(o.Total),
			Customer: strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName),
			Date:     o.DateCreated,
			Status:   o.Status,
		})
	}
	return out
}

func topProducts(products []models.Product) []models.TopProduct {
	if len(products) > 5 {
		products = products[:5]
	}
	out := make([]models.TopProduct, 0, len(products))
	for _, p := range products {
		out = append(out, models.TopProduct{
			ID:    p.ID,
			Name:  p.Name,
			Sales: p.TotalSales,
			Price: parseAmount(p.Price),
		})
	}
	return out
}

func topN(list []models.CustomerSummary, n int) []models.CustomerSummary {
	if len(list) > n {
		list = list[:n]
	}
	out := make([]models.CustomerSummary, len(list))
	copy(out, list)
	return out
}

// parseAmount parses a decimal string, treating anything unparseable
// (including NaN) as zero.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// percentOf renders bucket/total as a one-decimal percentage string,
// "0" when the total is zero.
func percentOf(part, total float64) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(part/total*100, 'f', 1, 64)
}

// BuildComparative pairs a primary aggregate with the previous-window
// aggregate and computes percentage changes for the headline metrics.
func BuildComparative(current, previous models.AggregateResult, info models.PeriodInfo) models.Comparative {
	return models.Comparative{
		TotalSales:  compareMetric(current.TotalSales, previous.TotalSales),
		OrdersCount: compareMetric(float64(current.OrdersCount), float64(previous.OrdersCount)),
		AvgTicket:   compareMetric(current.AvgTicket, previous.AvgTicket),
		PeriodInfo:  info,
	}
}

func compareMetric(current, previous float64) models.ComparativeMetric {
	change := 0.0
	switch {
	case previous != 0:
		change = (current - previous) / previous * 100
	case current != 0:
		change = 100
	}
	return models.ComparativeMetric{Current: current, Previous: previous, Change: change}
}
