// Command audit-fake-data scans the historical snapshot for rows that
// look like test noise: placeholder emails, zero totals, duplicate
// order ids. Run it after each export before the file goes live.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"woodash/internal/historical"
)

var suspiciousEmailParts = []string{"example.com", "test@", "prueba@", "mailinator"}

func main() {
	path := flag.String("csv", "", "snapshot CSV path")
	from := flag.String("from", "2020-01-01", "range start (YYYY-MM-DD)")
	to := flag.String("to", "2025-07-31", "range end (YYYY-MM-DD)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: audit-fake-data -csv snapshot.csv")
		os.Exit(2)
	}
	start, err := time.Parse("2006-01-02", *from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -from: %v\n", err)
		os.Exit(2)
	}
	end, err := time.Parse("2006-01-02", *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -to: %v\n", err)
		os.Exit(2)
	}

	loader := historical.NewLoader(historical.FileSource{Path: *path})
	res, err := loader.LoadRange(context.Background(), start, end.Add(24*time.Hour-time.Second))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}

	findings := 0
	seen := make(map[string]bool, len(res.Orders))
	for _, order := range res.Orders {
		id := fmt.Sprint(order.ID)
		if seen[id] {
			findings++
			fmt.Printf("duplicate id      %s\n", id)
		}
		seen[id] = true

		email := strings.ToLower(order.Billing.Email)
		for _, part := range suspiciousEmailParts {
			if strings.Contains(email, part) {
				findings++
				fmt.Printf("test email        %-20s %s\n", id, email)
				break
			}
		}

		if total, err := strconv.ParseFloat(order.Total, 64); err != nil || total <= 0 {
			findings++
			fmt.Printf("zero/bad total    %-20s %q\n", id, order.Total)
		}

		if len(order.LineItems) == 0 {
			findings++
			fmt.Printf("no line items     %s\n", id)
		}
	}

	fmt.Printf("\n%d orders checked, %d findings\n", len(res.Orders), findings)
	if findings > 0 {
		os.Exit(1)
	}
}
