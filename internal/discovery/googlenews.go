package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const googleNewsSearchURL = "https://news.google.com/rss/search"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 newsintel/0.1"

type GoogleNews struct {
	Client  *http.Client
	BaseURL string
}

func NewGoogleNews() *GoogleNews {
	return &GoogleNews{
		Client:  &http.Client{Timeout: 20 * time.Second},
		BaseURL: googleNewsSearchURL,
	}
}

// SearchURL builds the RSS search URL for query restricted to the last days.
func (g *GoogleNews) SearchURL(query string, days int, region RegionProfile) string {
	q := strings.TrimSpace(query)
	if days > 0 {
		q = fmt.Sprintf("%s when:%dd", q, days)
	}
	return fmt.Sprintf(
		"%s?q=%s&hl=%s&gl=%s&ceid=%s",
		g.BaseURL,
		url.QueryEscape(q),
		url.QueryEscape(region.HL),
		url.QueryEscape(region.GL),
		url.QueryEscape(region.CEID),
	)
}

// Discover fetches one regional feed and returns up to limit articles
// (limit <= 0 means no cap).
func (g *GoogleNews) Discover(ctx context.Context, query string, days int, region RegionProfile, limit int) ([]Article, error) {
	u := g.SearchURL(query, days, region)

	feed, err := fetchFeed(ctx, g.Client, u)
	if err != nil {
		return nil, err
	}

	out := make([]Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, articleFromItem(it, feed.Title))
	}
	return out, nil
}

func fetchFeed(ctx context.Context, client *http.Client, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &FeedError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FeedError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FeedError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &FeedError{URL: feedURL, Err: fmt.Errorf("parse: %w", err)}
	}
	return feed, nil
}

func articleFromItem(it *gofeed.Item, feedTitle string) Article {
	title := strings.TrimSpace(it.Title)

	desc := cleanHTML(it.Description)
	if desc == "" {
		desc = "No description"
	}

	source := publisherFromTitle(title)
	if source == "" {
		source = strings.TrimSpace(feedTitle)
	}
	if source == "" {
		source = "Unknown"
	}

	return Article{
		Title:       title,
		Description: desc,
		Link:        strings.TrimSpace(it.Link),
		Source:      source,
		Published:   strings.TrimSpace(it.Published),
	}
}

// publisherFromTitle returns the trailing " - Publisher" Google News appends
// to item titles.
func publisherFromTitle(title string) string {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return ""
	}
	pub := strings.TrimSpace(title[i+3:])
	if pub == "" || len([]rune(pub)) > 60 {
		return ""
	}
	return pub
}
