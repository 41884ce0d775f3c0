// Package ga4 wraps the Google Analytics 4 Data API, reporting site
// traffic for the dashboard's analytics panel. Authentication uses a
// service-account JSON blob passed through the environment.
package ga4

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

// ErrNotConfigured signals missing GA4 credentials; handlers respond
// with zeroed analytics instead of failing.
var ErrNotConfigured = errors.New("ga4: service account credentials not configured")

// Client queries one GA4 property.
type Client struct {
	service    *analyticsdata.Service
	propertyID string
}

// NewClient builds a GA4 Data API client from service-account JSON.
// Returns (nil, ErrNotConfigured) when credentials or property are
// missing so the caller can degrade instead of crashing.
func NewClient(ctx context.Context, credentialsJSON []byte, propertyID string) (*Client, error) {
	if len(credentialsJSON) == 0 || propertyID == "" {
		return nil, ErrNotConfigured
	}
	service, err := analyticsdata.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create GA4 client: %w", err)
	}
	return &Client{service: service, propertyID: propertyID}, nil
}

// UsersSummary is the visitors headline block.
type UsersSummary struct {
	TotalUsers     int64  `json:"totalUsers"`
	NewUsers       int64  `json:"newUsers"`
	ReturningUsers int64  `json:"returningUsers"`
	DateRange      int    `json:"dateRange"`
	Source         string `json:"source"`
	Error          string `json:"error,omitempty"`
}

// PageStat is one row of the top-pages table.
type PageStat struct {
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Views       int64   `json:"views"`
	AvgDuration float64 `json:"avgDuration"`
}

// CountryStat is one row of the demographics table.
type CountryStat struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Users   int64  `json:"users"`
}

// ChannelStat is one row of the traffic-acquisition table.
type ChannelStat struct {
	Channel  string `json:"channel"`
	Sessions int64  `json:"sessions"`
	Users    int64  `json:"users"`
}

// Summary bundles the analytics panel payload.
type Summary struct {
	Users        UsersSummary  `json:"users"`
	Pages        []PageStat    `json:"pages"`
	Demographics []CountryStat `json:"demographics"`
	Traffic      []ChannelStat `json:"traffic"`
}

func (c *Client) runReport(ctx context.Context, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return c.service.Properties.RunReport("properties/"+c.propertyID, req).Context(ctx).Do()
}

func dateRange(days int) []*analyticsdata.DateRange {
	return []*analyticsdata.DateRange{{
		StartDate: fmt.Sprintf("%ddaysAgo", days),
		EndDate:   "today",
	}}
}

// GetUsers reports total, new and returning users over the last N days.
func (c *Client) GetUsers(ctx context.Context, days int) (UsersSummary, error) {
	resp, err := c.runReport(ctx, &analyticsdata.RunReportRequest{
		DateRanges: dateRange(days),
		Metrics: []*analyticsdata.Metric{
			{Name: "totalUsers"},
			{Name: "newUsers"},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("GA4 users report failed")
		return UsersSummary{DateRange: days, Error: err.Error()}, err
	}

	summary := UsersSummary{DateRange: days, Source: "google_analytics"}
	if len(resp.Rows) > 0 && len(resp.Rows[0].MetricValues) >= 2 {
		summary.TotalUsers = metricInt(resp.Rows[0].MetricValues[0])
		summary.NewUsers = metricInt(resp.Rows[0].MetricValues[1])
		if returning := summary.TotalUsers - summary.NewUsers; returning > 0 {
			summary.ReturningUsers = returning
		}
	}
	return summary, nil
}

// GetTopPages reports the most viewed pages over the last N days.
func (c *Client) GetTopPages(ctx context.Context, days int, limit int64) ([]PageStat, error) {
	resp, err := c.runReport(ctx, &analyticsdata.RunReportRequest{
		DateRanges: dateRange(days),
		Dimensions: []*analyticsdata.Dimension{
			{Name: "pagePath"},
			{Name: "pageTitle"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "screenPageViews"},
			{Name: "averageSessionDuration"},
		},
		OrderBys: []*analyticsdata.OrderBy{{
			Metric: &analyticsdata.MetricOrderBy{MetricName: "screenPageViews"},
			Desc:   true,
		}},
		Limit: limit,
	})
	if err != nil {
		log.Error().Err(err).Msg("GA4 pages report failed")
		return nil, err
	}

	pages := make([]PageStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 2 {
			continue
		}
		pages = append(pages, PageStat{
			Path:        row.DimensionValues[0].Value,
			Title:       row.DimensionValues[1].Value,
			Views:       metricInt(row.MetricValues[0]),
			AvgDuration: metricFloat(row.MetricValues[1]),
		})
	}
	return pages, nil
}

// GetDemographics reports users per country/city over the last N days.
func (c *Client) GetDemographics(ctx context.Context, days int, limit int64) ([]CountryStat, error) {
	resp, err := c.runReport(ctx, &analyticsdata.RunReportRequest{
		DateRanges: dateRange(days),
		Dimensions: []*analyticsdata.Dimension{
			{Name: "country"},
			{Name: "city"},
		},
		Metrics: []*analyticsdata.Metric{{Name: "totalUsers"}},
		OrderBys: []*analyticsdata.OrderBy{{
			Metric: &analyticsdata.MetricOrderBy{MetricName: "totalUsers"},
			Desc:   true,
		}},
		Limit: limit,
	})
	if err != nil {
		log.Error().Err(err).Msg("GA4 demographics report failed")
		return nil, err
	}

	stats := make([]CountryStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 1 {
			continue
		}
		stats = append(stats, CountryStat{
			Country: row.DimensionValues[0].Value,
			City:    row.DimensionValues[1].Value,
			Users:   metricInt(row.MetricValues[0]),
		})
	}
	return stats, nil
}

// GetTrafficChannels reports sessions per default channel grouping.
func (c *Client) GetTrafficChannels(ctx context.Context, days int) ([]ChannelStat, error) {
	resp, err := c.runReport(ctx, &analyticsdata.RunReportRequest{
		DateRanges: dateRange(days),
		Dimensions: []*analyticsdata.Dimension{
			{Name: "sessionDefaultChannelGroup"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "sessions"},
			{Name: "totalUsers"},
		},
		OrderBys: []*analyticsdata.OrderBy{{
			Metric: &analyticsdata.MetricOrderBy{MetricName: "sessions"},
			Desc:   true,
		}},
	})
	if err != nil {
		log.Error().Err(err).Msg("GA4 traffic report failed")
		return nil, err
	}

	stats := make([]ChannelStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 1 || len(row.MetricValues) < 2 {
			continue
		}
		stats = append(stats, ChannelStat{
			Channel:  row.DimensionValues[0].Value,
			Sessions: metricInt(row.MetricValues[0]),
			Users:    metricInt(row.MetricValues[1]),
		})
	}
	return stats, nil
}

// GetSummary fans out the four reports concurrently and joins the
// results. A failed sub-report yields its zero value; the rest of the
// panel still renders.
func (c *Client) GetSummary(ctx context.Context, days int) Summary {
	var summary Summary

	type fetch struct {
		name string
		run  func() error
	}
	fetches := []fetch{
		{"users", func() error {
			users, err := c.GetUsers(ctx, days)
			summary.Users = users
			return err
		}},
		{"pages", func() error {
			pages, err := c.GetTopPages(ctx, days, 10)
			summary.Pages = pages
			return err
		}},
		{"demographics", func() error {
			demo, err := c.GetDemographics(ctx, days, 10)
			summary.Demographics = demo
			return err
		}},
		{"traffic", func() error {
			traffic, err := c.GetTrafficChannels(ctx, days)
			summary.Traffic = traffic
			return err
		}},
	}

	done := make(chan struct{}, len(fetches))
	for i := range fetches {
		f := fetches[i]
		go func() {
			defer func() { done <- struct{}{} }()
			if err := f.run(); err != nil {
				log.Warn().Err(err).Str("report", f.name).Msg("GA4 sub-report degraded to empty")
			}
		}()
	}
	for range fetches {
		<-done
	}
	return summary
}

func metricInt(v *analyticsdata.MetricValue) int64 {
	n, _ := strconv.ParseInt(v.Value, 10, 64)
	return n
}

func metricFloat(v *analyticsdata.MetricValue) float64 {
	f, _ := strconv.ParseFloat(v.Value, 64)
	return f
}
