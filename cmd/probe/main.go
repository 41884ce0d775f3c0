// Command probe checks a running dashboard instance: liveness, store
// connectivity, and each panel endpoint. Exit code 1 when anything
// reports a failure.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "dashboard base URL")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}
	endpoints := []string{
		"/api/health",
		"/api/test-woo",
		"/api/dashboard?period=today",
		"/api/analytics",
		"/api/ads?period=last-7-days",
		"/api/meta-organic",
	}

	failed := false
	for _, ep := range endpoints {
		status, success, err := probe(client, *base+ep)
		switch {
		case err != nil:
			fmt.Printf("FAIL %-40s %v\n", ep, err)
			failed = true
		case status != http.StatusOK || !success:
			fmt.Printf("FAIL %-40s status=%d success=%v\n", ep, status, success)
			failed = true
		default:
			fmt.Printf("ok   %-40s\n", ep)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// probe calls one endpoint and reads the success flag when the body
// has one. Health has a status field instead and counts as success.
func probe(client *http.Client, url string) (int, bool, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	var body struct {
		Success *bool  `json:"success"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resp.StatusCode, false, err
	}
	if body.Success != nil {
		return resp.StatusCode, *body.Success, nil
	}
	return resp.StatusCode, body.Status == "ok", nil
}
