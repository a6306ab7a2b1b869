package discovery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSFeeds pulls curated publisher feeds. They are not queryable like
// search, so items are filtered locally by query terms.
type RSSFeeds struct {
	Client *http.Client
	Feeds  []string
}

func NewRSSFeeds(feeds []string) *RSSFeeds {
	return &RSSFeeds{
		Client: &http.Client{Timeout: 15 * time.Second},
		Feeds:  feeds,
	}
}

// DiscoverFeed fetches one feed and keeps the items from the last days whose
// title or description mentions a query term. Undated items are kept.
func (r *RSSFeeds) DiscoverFeed(ctx context.Context, feedURL, query string, days, limit int) ([]Article, error) {
	keywords := queryTerms(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	feed, err := fetchFeed(ctx, r.Client, feedURL)
	if err != nil {
		return nil, err
	}

	var since time.Time
	if days > 0 {
		since = time.Now().AddDate(0, 0, -days)
	}

	out := make([]Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if pub := publishedAt(it); !since.IsZero() && !pub.IsZero() && pub.Before(since) {
			continue
		}
		a := articleFromItem(it, feed.Title)
		if !matchesAnyKeyword(strings.ToLower(a.Text()), keywords) {
			continue
		}
		if a.Link == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func publishedAt(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	}
	return time.Time{}
}

// queryTerms drops the boolean operators of an optimized query.
func queryTerms(query string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if w == "or" || w == "and" || w == "news" {
			continue
		}
		out = append(out, w)
	}
	return out
}

func matchesAnyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if len(k) < 3 {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
