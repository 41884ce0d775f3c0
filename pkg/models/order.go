package models

// Order is the WooCommerce order shape the dashboard works with. Orders
// coming from the historical snapshot are normalized into this same shape
// so the aggregator does not care about the source. Money fields stay as
// decimal strings, exactly as the Woo REST API returns them.
type Order struct {
	ID                 any            `json:"id"`
	Number             string         `json:"number,omitempty"`
	Status             string         `json:"status"`
	Currency           string         `json:"currency"`
	DateCreated        string         `json:"date_created"`
	DatePaid           string         `json:"date_paid,omitempty"`
	Total              string         `json:"total"`
	Subtotal           string         `json:"subtotal,omitempty"`
	TotalTax           string         `json:"total_tax,omitempty"`
	ShippingTotal      string         `json:"shipping_total,omitempty"`
	DiscountTotal      string         `json:"discount_total,omitempty"`
	Billing            Billing        `json:"billing"`
	Shipping           ShippingInfo   `json:"shipping,omitempty"`
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	LineItems          []LineItem     `json:"line_items"`
	CouponLines        []CouponLine   `json:"coupon_lines"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
}

// Billing holds the customer billing contact of an order.
type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ShippingInfo holds the shipping contact of an order.
type ShippingInfo struct {
	FirstName string `json:"first_name"`
}

// LineItem is one product line of an order.
type LineItem struct {
	Name        string  `json:"name"`
	ProductID   int64   `json:"product_id"`
	VariationID int64   `json:"variation_id"`
	Quantity    int     `json:"quantity"`
	TaxClass    string  `json:"tax_class"`
	Subtotal    string  `json:"subtotal"`
	Total       string  `json:"total"`
	Price       float64 `json:"price"`
	SKU         string  `json:"sku"`
}

// CouponLine is one coupon applied to an order.
type CouponLine struct {
	Code        string `json:"code"`
	Discount    string `json:"discount"`
	DiscountTax string `json:"discount_tax"`
}

// ShippingLine is one shipping charge of an order.
type ShippingLine struct {
	MethodTitle string `json:"method_title"`
	MethodID    string `json:"method_id"`
	Total       string `json:"total"`
}

// Product is the subset of the Woo product shape the dashboard reads.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	TotalSales    int64  `json:"total_sales"`
	StockQuantity *int   `json:"stock_quantity"`
}
