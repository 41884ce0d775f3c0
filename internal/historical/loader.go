// Package historical reads the pre-converted CSV snapshot of the
// pre-migration store exports and normalizes rows into the same Order
// shape the live WooCommerce client returns.
package historical

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"woodash/pkg/models"
)

// columnNames are matched case-sensitively against the snapshot header
// row. A missing column degrades to its zero value instead of failing
// the load.
var columnNames = []string{
	"Name", "Email", "Financial Status", "Paid at", "Fulfillment Status",
	"Fulfilled at", "Currency", "Subtotal", "Shipping", "Taxes", "Total",
	"Discount Code", "Discount Amount", "Shipping Method", "Created at",
	"Lineitem name", "Lineitem price", "Lineitem quantity", "Lineitem sku",
	"Billing Name", "Shipping Name", "Payment Method", "Payment Reference",
	"Id",
}

// monthNames maps the Spanish month names the operator passes on the
// command line and in period keywords.
var monthNames = map[string]time.Month{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
}

// ParseMonth resolves a Spanish month name.
func ParseMonth(name string) (time.Month, error) {
	m, ok := monthNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown month name %q", name)
	}
	return m, nil
}

// Result is one month load.
type Result struct {
	Orders       []models.Order `json:"orders"`
	TotalRecords int            `json:"totalRecords"`
	Month        string         `json:"month"`
	Year         int            `json:"year"`
}

// Loader reads the snapshot from a Source on every call; the snapshot is
// small enough that no caching is worth the staleness questions.
type Loader struct {
	source Source
}

// NewLoader creates a Loader over the given snapshot source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// LoadMonth loads all paid orders created in (month, year). Rows group
// by the Id column into one order with one line item per row; rows
// without an Id get a synthetic "excel_<rowIndex>" id derived from their
// 1-based data row index. That derivation is load-bearing: historical
// joins across reloads depend on it staying exactly this.
func (l *Loader) LoadMonth(ctx context.Context, month time.Month, year int) (*Result, error) {
	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open historical snapshot: %w", err)
	}
	defer rc.Close()

	res, err := parseSnapshot(rc, func(created time.Time) bool {
		return created.Year() == year && created.Month() == month
	})
	if err != nil {
		return nil, err
	}
	res.Month = strings.ToLower(month.String())
	res.Year = year

	log.Info().Int("orders", len(res.Orders)).Int("records", res.TotalRecords).
		Int("year", year).Str("month", month.String()).Msg("Historical snapshot loaded")
	return res, nil
}

// LoadRange loads all paid orders whose creation date falls inside
// [start, end].
func (l *Loader) LoadRange(ctx context.Context, start, end time.Time) (*Result, error) {
	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open historical snapshot: %w", err)
	}
	defer rc.Close()

	return parseSnapshot(rc, func(created time.Time) bool {
		return !created.Before(start) && !created.After(end)
	})
}

func parseSnapshot(r io.Reader, keep func(time.Time) bool) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}

	idx := make(map[string]int, len(columnNames))
	for _, name := range columnNames {
		idx[name] = indexOf(header, name)
	}
	cell := func(row []string, name string) string {
		i := idx[name]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	orders := make(map[string]*models.Order)
	var orderKeys []string // preserves first-seen order
	totalRecords := 0

	for rowIndex := 1; ; rowIndex++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot row %d: %w", rowIndex, err)
		}

		if cell(row, "Financial Status") != "paid" {
			continue
		}
		createdAt := cell(row, "Created at")
		if createdAt == "" {
			continue
		}
		created, ok := parseDate(createdAt)
		if !ok || !keep(created) {
			continue
		}
		totalRecords++

		orderID := cell(row, "Id")
		if orderID == "" {
			orderID = fmt.Sprintf("excel_%d", rowIndex)
		}

		o, exists := orders[orderID]
		if !exists {
			o = &models.Order{
				ID:            orderID,
				Number:        defaultStr(cell(row, "Name"), "#"+orderID),
				Status:        defaultStr(cell(row, "Fulfillment Status"), "completed"),
				Currency:      defaultStr(cell(row, "Currency"), "MXN"),
				DateCreated:   createdAt,
				DatePaid:      defaultStr(cell(row, "Paid at"), createdAt),
				Total:         defaultStr(cell(row, "Total"), "0"),
				Subtotal:      defaultStr(cell(row, "Subtotal"), "0"),
				TotalTax:      defaultStr(cell(row, "Taxes"), "0"),
				ShippingTotal: defaultStr(cell(row, "Shipping"), "0"),
				DiscountTotal: defaultStr(cell(row, "Discount Amount"), "0"),
				Billing: models.Billing{
					FirstName: cell(row, "Billing Name"),
					Email:     cell(row, "Email"),
				},
				Shipping: models.ShippingInfo{
					FirstName: defaultStr(cell(row, "Shipping Name"), cell(row, "Billing Name")),
				},
				PaymentMethod:      MapPaymentMethod(cell(row, "Payment Method")),
				PaymentMethodTitle: defaultStr(cell(row, "Payment Method"), "Unknown"),
				CouponLines:        []models.CouponLine{},
				LineItems:          []models.LineItem{},
				ShippingLines:      []models.ShippingLine{},
			}

			if code := cell(row, "Discount Code"); code != "" && parseFloat(cell(row, "Discount Amount")) > 0 {
				o.CouponLines = append(o.CouponLines, models.CouponLine{
					Code:        code,
					Discount:    cell(row, "Discount Amount"),
					DiscountTax: "0",
				})
			}
			if method := cell(row, "Shipping Method"); method != "" && parseFloat(cell(row, "Shipping")) > 0 {
				o.ShippingLines = append(o.ShippingLines, models.ShippingLine{
					MethodTitle: method,
					MethodID:    strings.ReplaceAll(strings.ToLower(method), " ", "_"),
					Total:       cell(row, "Shipping"),
				})
			}

			orders[orderID] = o
			orderKeys = append(orderKeys, orderID)
		}

		name := cell(row, "Lineitem name")
		price := cell(row, "Lineitem price")
		quantity := cell(row, "Lineitem quantity")
		if name != "" && price != "" && quantity != "" {
			qty := int(parseFloat(quantity))
			lineTotal := parseFloat(price) * float64(qty)
			o.LineItems = append(o.LineItems, models.LineItem{
				Name:     name,
				Quantity: qty,
				Subtotal: formatAmount(lineTotal),
				Total:    formatAmount(lineTotal),
				Price:    parseFloat(price),
				SKU:      cell(row, "Lineitem sku"),
			})
		}
	}

	result := &Result{TotalRecords: totalRecords}
	for _, key := range orderKeys {
		result.Orders = append(result.Orders, *orders[key])
	}
	return result, nil
}

// MapPaymentMethod folds the free-text payment column into the small
// vocabulary the aggregator understands. Substring match: card/credit
// variants count as stripe.
func MapPaymentMethod(raw string) string {
	if raw == "" {
		return "unknown"
	}
	method := strings.ToLower(raw)
	switch {
	case strings.Contains(method, "stripe"):
		return "stripe"
	case strings.Contains(method, "paypal"):
		return "paypal"
	case strings.Contains(method, "card"), strings.Contains(method, "credit"):
		return "stripe"
	default:
		return "other"
	}
}

// parseDate accepts the date formats seen across snapshot exports.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
