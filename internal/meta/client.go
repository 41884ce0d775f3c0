// Package meta reports organic Facebook page and Instagram account
// performance from the Graph API.
package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const graphBase = "https://graph.facebook.com/v19.0"

// ErrNotConfigured signals a missing page token; handlers respond with
// zeroed organic data instead of failing.
var ErrNotConfigured = errors.New("meta: access token not configured")

// Client queries one Facebook page and its linked Instagram account.
type Client struct {
	accessToken string
	pageID      string
	igAccountID string
	httpClient  *http.Client
}

// NewClient returns a Graph API client. The Instagram account id is
// optional; Instagram sections degrade to empty without it.
func NewClient(accessToken, pageID, igAccountID string) *Client {
	return &Client{
		accessToken: accessToken,
		pageID:      pageID,
		igAccountID: igAccountID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the page token and id are present.
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.pageID != ""
}

// PageInfo is the Facebook page headline block.
type PageInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Followers int64  `json:"followers"`
	Fans      int64  `json:"fans"`
	Link      string `json:"link"`
}

// InstagramInfo is the Instagram account headline block.
type InstagramInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Followers int64  `json:"followers"`
	MediaCount int64 `json:"mediaCount"`
}

// Post is one recent publication on either platform.
type Post struct {
	ID        string `json:"id"`
	Message   string `json:"message,omitempty"`
	Caption   string `json:"caption,omitempty"`
	CreatedAt string `json:"createdAt"`
	Platform  string `json:"platform"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Permalink string `json:"permalink,omitempty"`
}

// Insights aggregates reach and engagement over the requested window.
type Insights struct {
	Reach       int64 `json:"reach"`
	Impressions int64 `json:"impressions"`
	Engagement  int64 `json:"engagement"`
}

// Summary is the organic social panel payload.
type Summary struct {
	Facebook  PageInfo      `json:"facebook"`
	Instagram InstagramInfo `json:"instagram"`
	FacebookInsights  Insights `json:"facebookInsights"`
	InstagramInsights Insights `json:"instagramInsights"`
	RecentPosts []Post `json:"recentPosts"`
	Source      string `json:"source"`
}

// get performs one Graph API GET with the access token appended.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?%s", graphBase, path, params.Encode()), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Meta Graph request failed")
		return fmt.Errorf("meta graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Error().Int("status", resp.StatusCode).Str("path", path).Str("body", string(raw)).Msg("Meta Graph API error")
		return fmt.Errorf("meta graph API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetPageInfo reports the Facebook page descriptor.
func (c *Client) GetPageInfo(ctx context.Context) (PageInfo, error) {
	var raw struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		FollowersCount int64  `json:"followers_count"`
		FanCount       int64  `json:"fan_count"`
		Link           string `json:"link"`
	}
	params := url.Values{"fields": {"id,name,followers_count,fan_count,link"}}
	if err := c.get(ctx, c.pageID, params, &raw); err != nil {
		return PageInfo{}, err
	}
	return PageInfo{
		ID:        raw.ID,
		Name:      raw.Name,
		Followers: raw.FollowersCount,
		Fans:      raw.FanCount,
		Link:      raw.Link,
	}, nil
}

// GetInstagramInfo reports the linked Instagram account descriptor.
func (c *Client) GetInstagramInfo(ctx context.Context) (InstagramInfo, error) {
	if c.igAccountID == "" {
		return InstagramInfo{}, errors.New("meta: instagram account not configured")
	}
	var raw struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		FollowersCount int64  `json:"followers_count"`
		MediaCount     int64  `json:"media_count"`
	}
	params := url.Values{"fields": {"id,username,followers_count,media_count"}}
	if err := c.get(ctx, c.igAccountID, params, &raw); err != nil {
		return InstagramInfo{}, err
	}
	return InstagramInfo{
		ID:         raw.ID,
		Username:   raw.Username,
		Followers:  raw.FollowersCount,
		MediaCount: raw.MediaCount,
	}, nil
}

type insightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

func (r insightsResponse) sum(metric string) int64 {
	var total int64
	for _, d := range r.Data {
		if d.Name != metric {
			continue
		}
		for _, v := range d.Values {
			total += v.Value
		}
	}
	return total
}

// GetPageInsights reports page reach and engagement over the last N days.
func (c *Client) GetPageInsights(ctx context.Context, days int) (Insights, error) {
	params := url.Values{
		"metric": {"page_impressions_unique,page_impressions,page_post_engagements"},
		"period": {"day"},
		"since":  {time.Now().AddDate(0, 0, -days).Format("2006-01-02")},
		"until":  {time.Now().Format("2006-01-02")},
	}
	var raw insightsResponse
	if err := c.get(ctx, c.pageID+"/insights", params, &raw); err != nil {
		return Insights{}, err
	}
	return Insights{
		Reach:       raw.sum("page_impressions_unique"),
		Impressions: raw.sum("page_impressions"),
		Engagement:  raw.sum("page_post_engagements"),
	}, nil
}

// GetInstagramInsights reports account reach and engagement over the
// last N days.
func (c *Client) GetInstagramInsights(ctx context.Context, days int) (Insights, error) {
	if c.igAccountID == "" {
		return Insights{}, errors.New("meta: instagram account not configured")
	}
	params := url.Values{
		"metric": {"reach,impressions,total_interactions"},
		"period": {"day"},
		"metric_type": {"total_value"},
		"since": {time.Now().AddDate(0, 0, -days).Format("2006-01-02")},
		"until": {time.Now().Format("2006-01-02")},
	}
	var raw insightsResponse
	if err := c.get(ctx, c.igAccountID+"/insights", params, &raw); err != nil {
		return Insights{}, err
	}
	return Insights{
		Reach:       raw.sum("reach"),
		Impressions: raw.sum("impressions"),
		Engagement:  raw.sum("total_interactions"),
	}, nil
}

// GetRecentPosts reports the latest page posts with like and comment
// counts.
func (c *Client) GetRecentPosts(ctx context.Context, limit int) ([]Post, error) {
	var raw struct {
		Data []struct {
			ID          string `json:"id"`
			Message     string `json:"message"`
			CreatedTime string `json:"created_time"`
			Permalink   string `json:"permalink_url"`
			Likes       *struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"likes"`
			Comments *struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"comments"`
		} `json:"data"`
	}
	params := url.Values{
		"fields": {"id,message,created_time,permalink_url,likes.summary(true),comments.summary(true)"},
		"limit":  {fmt.Sprintf("%d", limit)},
	}
	if err := c.get(ctx, c.pageID+"/posts", params, &raw); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(raw.Data))
	for _, p := range raw.Data {
		post := Post{
			ID:        p.ID,
			Message:   p.Message,
			CreatedAt: p.CreatedTime,
			Platform:  "facebook",
			Permalink: p.Permalink,
		}
		if p.Likes != nil {
			post.Likes = p.Likes.Summary.TotalCount
		}
		if p.Comments != nil {
			post.Comments = p.Comments.Summary.TotalCount
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// GetSummary fans out the organic reports concurrently. Each section
// degrades to its zero value independently.
func (c *Client) GetSummary(ctx context.Context, days int) Summary {
	summary := Summary{Source: "meta_graph"}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Warn().Err(err).Str("report", name).Msg("Meta sub-report degraded to empty")
			}
		}()
	}

	run("page", func() error {
		info, err := c.GetPageInfo(ctx)
		summary.Facebook = info
		return err
	})
	run("instagram", func() error {
		info, err := c.GetInstagramInfo(ctx)
		summary.Instagram = info
		return err
	})
	run("page_insights", func() error {
		ins, err := c.GetPageInsights(ctx, days)
		summary.FacebookInsights = ins
		return err
	})
	run("instagram_insights", func() error {
		ins, err := c.GetInstagramInsights(ctx, days)
		summary.InstagramInsights = ins
		return err
	})
	run("posts", func() error {
		posts, err := c.GetRecentPosts(ctx, 10)
		summary.RecentPosts = posts
		return err
	})
	wg.Wait()

	// Most engaged first.
	sort.SliceStable(summary.RecentPosts, func(i, j int) bool {
		a, b := summary.RecentPosts[i], summary.RecentPosts[j]
		return a.Likes+a.Comments > b.Likes+b.Comments
	})
	if len(summary.RecentPosts) > 5 {
		summary.RecentPosts = summary.RecentPosts[:5]
	}
	return summary
}
