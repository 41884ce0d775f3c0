// Package googleads reports campaign spend and performance from the
// Google Ads REST API using a refresh-token OAuth flow.
package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const apiBase = "https://googleads.googleapis.com/v16"

// ErrNotConfigured signals missing Ads credentials; handlers respond
// with zeroed campaign data instead of failing.
var ErrNotConfigured = errors.New("googleads: credentials not configured")

// Config carries everything the refresh-token flow needs. CustomerID
// is the target account without dashes; LoginCustomerID is the MCC
// account when access goes through a manager.
type Config struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	DeveloperToken  string
	CustomerID      string
	LoginCustomerID string
}

func (c Config) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != "" &&
		c.DeveloperToken != "" && c.CustomerID != ""
}

// Client queries one Google Ads customer account.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient wires the OAuth2 token source into an HTTP client. Tokens
// refresh transparently on expiry. Returns (nil, ErrNotConfigured)
// when any credential is missing.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.complete() {
		return nil, ErrNotConfigured
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	httpClient := oauthCfg.Client(ctx, token)
	httpClient.Timeout = 30 * time.Second
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// Campaign is one row of the campaigns table. Cost comes back from the
// API in micros and is converted to currency units here.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Cost        float64 `json:"cost"`
	Conversions float64 `json:"conversions"`
	CTR         float64 `json:"ctr"`
	AverageCPC  float64 `json:"averageCpc"`
}

// AccountInfo identifies the advertising account.
type AccountInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	TimeZone     string `json:"timeZone"`
	TestAccount  bool   `json:"testAccount"`
	ManagerCount int    `json:"managerCount,omitempty"`
}

// Totals aggregates the campaign rows for the headline cards.
type Totals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Cost        float64 `json:"cost"`
	Conversions float64 `json:"conversions"`
	CTR         float64 `json:"ctr"`
	AverageCPC  float64 `json:"averageCpc"`
}

// Summary is the ads panel payload.
type Summary struct {
	Account   AccountInfo `json:"account"`
	Campaigns []Campaign  `json:"campaigns"`
	Totals    Totals      `json:"totals"`
	DateRange string      `json:"dateRange"`
	Source    string      `json:"source"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []searchRow `json:"results"`
}

type searchRow struct {
	Customer *struct {
		ID            string `json:"id"`
		DescriptiveName string `json:"descriptiveName"`
		CurrencyCode  string `json:"currencyCode"`
		TimeZone      string `json:"timeZone"`
		TestAccount   bool   `json:"testAccount"`
	} `json:"customer"`
	Campaign *struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"campaign"`
	Metrics *struct {
		Impressions string  `json:"impressions"`
		Clicks      string  `json:"clicks"`
		CostMicros  string  `json:"costMicros"`
		Conversions float64 `json:"conversions"`
	} `json:"metrics"`
}

// search runs one GAQL query against the account.
func (c *Client) search(ctx context.Context, query string) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/customers/%s/googleAds:search", apiBase, c.cfg.CustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", c.cfg.LoginCustomerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Google Ads request failed")
		return nil, fmt.Errorf("google ads request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Google Ads API error")
		return nil, fmt.Errorf("google ads API returned status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode google ads response: %w", err)
	}
	return &out, nil
}

// GetAccountInfo reports the account descriptor.
func (c *Client) GetAccountInfo(ctx context.Context) (AccountInfo, error) {
	resp, err := c.search(ctx, `
		SELECT customer.id, customer.descriptive_name, customer.currency_code,
		       customer.time_zone, customer.test_account
		FROM customer LIMIT 1`)
	if err != nil {
		return AccountInfo{}, err
	}
	if len(resp.Results) == 0 || resp.Results[0].Customer == nil {
		return AccountInfo{}, errors.New("google ads: empty customer response")
	}
	cust := resp.Results[0].Customer
	return AccountInfo{
		ID:          cust.ID,
		Name:        cust.DescriptiveName,
		Currency:    cust.CurrencyCode,
		TimeZone:    cust.TimeZone,
		TestAccount: cust.TestAccount,
	}, nil
}

// GetCampaigns reports per-campaign metrics for a date range.
// Dates use YYYY-MM-DD.
func (c *Client) GetCampaigns(ctx context.Context, startDate, endDate string) ([]Campaign, error) {
	query := fmt.Sprintf(`
		SELECT campaign.id, campaign.name, campaign.status,
		       metrics.impressions, metrics.clicks, metrics.cost_micros,
		       metrics.conversions
		FROM campaign
		WHERE segments.date BETWEEN '%s' AND '%s'
		ORDER BY metrics.cost_micros DESC`, startDate, endDate)
	resp, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	campaigns := make([]Campaign, 0, len(resp.Results))
	for _, row := range resp.Results {
		if row.Campaign == nil || row.Metrics == nil {
			continue
		}
		camp := Campaign{
			ID:          row.Campaign.ID,
			Name:        row.Campaign.Name,
			Status:      row.Campaign.Status,
			Impressions: parseInt64(row.Metrics.Impressions),
			Clicks:      parseInt64(row.Metrics.Clicks),
			Cost:        float64(parseInt64(row.Metrics.CostMicros)) / 1e6,
			Conversions: row.Metrics.Conversions,
		}
		if camp.Impressions > 0 {
			camp.CTR = float64(camp.Clicks) / float64(camp.Impressions) * 100
		}
		if camp.Clicks > 0 {
			camp.AverageCPC = camp.Cost / float64(camp.Clicks)
		}
		campaigns = append(campaigns, camp)
	}
	return campaigns, nil
}

// GetSummary fetches account info and campaigns concurrently and
// aggregates totals. Either half may degrade to its zero value.
func (c *Client) GetSummary(ctx context.Context, startDate, endDate string) Summary {
	summary := Summary{
		DateRange: fmt.Sprintf("%s - %s", startDate, endDate),
		Source:    "google_ads",
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		account, err := c.GetAccountInfo(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Google Ads account info degraded to empty")
			return
		}
		summary.Account = account
	}()
	go func() {
		defer wg.Done()
		campaigns, err := c.GetCampaigns(ctx, startDate, endDate)
		if err != nil {
			log.Warn().Err(err).Msg("Google Ads campaigns degraded to empty")
			return
		}
		summary.Campaigns = campaigns
	}()
	wg.Wait()

	for _, camp := range summary.Campaigns {
		summary.Totals.Impressions += camp.Impressions
		summary.Totals.Clicks += camp.Clicks
		summary.Totals.Cost += camp.Cost
		summary.Totals.Conversions += camp.Conversions
	}
	if summary.Totals.Impressions > 0 {
		summary.Totals.CTR = float64(summary.Totals.Clicks) / float64(summary.Totals.Impressions) * 100
	}
	if summary.Totals.Clicks > 0 {
		summary.Totals.AverageCPC = summary.Totals.Cost / float64(summary.Totals.Clicks)
	}
	return summary
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
