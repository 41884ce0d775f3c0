// Package woocommerce wraps the WooCommerce REST API (wc/v3) used as the
// live order source for the dashboard.
package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"woodash/pkg/models"
)

// ErrNotConfigured signals a missing consumer key/secret. Handlers treat
// this as a ConfigError: log it and respond with a zeroed result instead
// of failing the whole dashboard.
var ErrNotConfigured = errors.New("woocommerce: consumer key/secret not configured")

// Client talks to one WooCommerce store. No retries; a slow store makes
// the request slow, bounded by the client timeout.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewClient creates a WooCommerce REST client for the given store.
func NewClient(baseURL, consumerKey, consumerSecret string) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.consumerKey != "" && c.consumerSecret != ""
}

// FetchOrders returns orders created inside [after, before].
func (c *Client) FetchOrders(ctx context.Context, after, before time.Time, perPage int, status string) ([]models.Order, error) {
	params := url.Values{}
	params.Set("after", after.UTC().Format(time.RFC3339))
	params.Set("before", before.UTC().Format(time.RFC3339))
	params.Set("per_page", strconv.Itoa(perPage))
	if status != "" {
		params.Set("status", status)
	}

	var orders []models.Order
	if err := c.get(ctx, "orders", params, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchProducts returns products ordered by the given criterion
// (typically "popularity" for the top-products table).
func (c *Client) FetchProducts(ctx context.Context, perPage int, orderBy string) ([]models.Product, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	if orderBy != "" {
		params.Set("orderby", orderBy)
	}

	var products []models.Product
	if err := c.get(ctx, "products", params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Ping fetches a single order to verify connectivity and credentials.
// A nil error means the store answered with a well-formed response.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("per_page", "1")

	var orders []models.Order
	return c.get(ctx, "orders", params, &orders)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	apiURL := fmt.Sprintf("%s/wp-json/wc/v3/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("WooCommerce request failed")
		return fmt.Errorf("woocommerce request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("WooCommerce API error")
		return fmt.Errorf("woocommerce API error: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode woocommerce response: %w", err)
	}
	return nil
}
