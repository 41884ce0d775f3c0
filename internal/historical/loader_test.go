package historical

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

type stringSource struct{ data string }

func (s stringSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.data)), nil
}

const snapshotHeader = "Id,Name,Email,Financial Status,Paid at,Fulfillment Status,Created at,Total,Currency,Payment Method,Lineitem name,Lineitem price,Lineitem quantity,Lineitem sku,Billing Name\n"

func TestLoadMonthKnownRowRoundTrip(t *testing.T) {
	csv := snapshotHeader +
		",#1001,cliente@gmail.com,paid,2025-01-15,fulfilled,2025-01-15,500,MXN,Stripe,X,500,1,SKU-X,Juan Pérez\n"

	loader := NewLoader(stringSource{csv})
	res, err := loader.LoadMonth(context.Background(), time.January, 2025)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(res.Orders))
	}
	o := res.Orders[0]
	if o.Total != "500" {
		t.Errorf("total = %q, want \"500\"", o.Total)
	}
	if len(o.LineItems) != 1 {
		t.Fatalf("line items = %d, want 1", len(o.LineItems))
	}
	if o.LineItems[0].Name != "X" || o.LineItems[0].Quantity != 1 {
		t.Errorf("line item = %+v", o.LineItems[0])
	}
	if o.PaymentMethod != "stripe" {
		t.Errorf("payment method = %q, want stripe", o.PaymentMethod)
	}
	if res.TotalRecords != 1 {
		t.Errorf("totalRecords = %d, want 1", res.TotalRecords)
	}
}

func TestLoadMonthSyntheticIDFromRowIndex(t *testing.T) {
	// Rows 1 and 3 lack an Id; synthetic ids come from the 1-based data
	// row index and must stay stable across reloads.
	csv := snapshotHeader +
		",#A,a@x.mx,paid,2025-01-10,fulfilled,2025-01-10,100,MXN,Stripe,P1,100,1,,A\n" +
		"ORD-2,#B,b@x.mx,paid,2025-01-11,fulfilled,2025-01-11,200,MXN,PayPal,P2,200,1,,B\n" +
		",#C,c@x.mx,paid,2025-01-12,fulfilled,2025-01-12,300,MXN,Oxxo,P3,300,1,,C\n"

	loader := NewLoader(stringSource{csv})
	res, err := loader.LoadMonth(context.Background(), time.January, 2025)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Orders) != 3 {
		t.Fatalf("orders = %d, want 3", len(res.Orders))
	}
	ids := []string{res.Orders[0].ID.(string), res.Orders[1].ID.(string), res.Orders[2].ID.(string)}
	want := []string{"excel_1", "ORD-2", "excel_3"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("order %d id = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestLoadMonthGroupsLineItemsByID(t *testing.T) {
	csv := snapshotHeader +
		"ORD-1,#1,a@x.mx,paid,2025-03-05,fulfilled,2025-03-05,750,MXN,Stripe,Immuneup,500,1,SKU-1,A\n" +
		"ORD-1,#1,a@x.mx,paid,2025-03-05,fulfilled,2025-03-05,750,MXN,Stripe,Relax,125,2,SKU-2,A\n"

	loader := NewLoader(stringSource{csv})
	res, err := loader.LoadMonth(context.Background(), time.March, 2025)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(res.Orders))
	}
	if got := len(res.Orders[0].LineItems); got != 2 {
		t.Fatalf("line items = %d, want 2", got)
	}
	if res.Orders[0].LineItems[1].Total != "250" {
		t.Errorf("second line total = %q, want \"250\"", res.Orders[0].LineItems[1].Total)
	}
	if res.TotalRecords != 2 {
		t.Errorf("totalRecords = %d, want 2", res.TotalRecords)
	}
}

func TestLoadMonthFiltersUnpaidAndOtherMonths(t *testing.T) {
	csv := snapshotHeader +
		"O1,#1,a@x.mx,paid,2025-02-01,fulfilled,2025-02-01,100,MXN,Stripe,P,100,1,,A\n" +
		"O2,#2,b@x.mx,pending,2025-02-02,,2025-02-02,200,MXN,Stripe,P,200,1,,B\n" +
		"O3,#3,c@x.mx,paid,2025-03-01,fulfilled,2025-03-01,300,MXN,Stripe,P,300,1,,C\n"

	loader := NewLoader(stringSource{csv})
	res, err := loader.LoadMonth(context.Background(), time.February, 2025)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Orders) != 1 || res.Orders[0].ID.(string) != "O1" {
		t.Fatalf("orders = %+v, want only O1", res.Orders)
	}
}

func TestLoadRange(t *testing.T) {
	csv := snapshotHeader +
		"O1,#1,a@x.mx,paid,2024-12-30,fulfilled,2024-12-30,100,MXN,Stripe,P,100,1,,A\n" +
		"O2,#2,b@x.mx,paid,2025-01-05,fulfilled,2025-01-05,200,MXN,Stripe,P,200,1,,B\n" +
		"O3,#3,c@x.mx,paid,2025-02-20,fulfilled,2025-02-20,300,MXN,Stripe,P,300,1,,C\n"

	loader := NewLoader(stringSource{csv})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	res, err := loader.LoadRange(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 || res.Orders[0].ID.(string) != "O2" {
		t.Fatalf("orders = %+v, want only O2", res.Orders)
	}
}

func TestLoadMonthMissingColumnsDegradeGracefully(t *testing.T) {
	// No Email, Payment Method or Lineitem columns at all.
	csv := "Id,Financial Status,Created at,Total\n" +
		"O1,paid,2025-01-15,500\n"

	loader := NewLoader(stringSource{csv})
	res, err := loader.LoadMonth(context.Background(), time.January, 2025)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(res.Orders))
	}
	o := res.Orders[0]
	if o.Billing.Email != "" {
		t.Errorf("email = %q, want empty", o.Billing.Email)
	}
	if o.PaymentMethod != "unknown" {
		t.Errorf("payment method = %q, want unknown", o.PaymentMethod)
	}
	if len(o.LineItems) != 0 {
		t.Errorf("line items = %d, want 0", len(o.LineItems))
	}
}

func TestMapPaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Stripe", "stripe"},
		{"shopify_payments (stripe)", "stripe"},
		{"PayPal Express", "paypal"},
		{"Credit Card", "stripe"},
		{"manual card entry", "stripe"},
		{"Oxxo", "other"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := MapPaymentMethod(tt.in); got != tt.want {
			t.Errorf("MapPaymentMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
