package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency  = 10
	DefaultFetchTimeout = 10 * time.Second
)

// MultiSource gathers articles from every Google News region plus any
// direct feeds, with a bounded number of requests in flight.
type MultiSource struct {
	GoogleNews  *GoogleNews
	RSS         *RSSFeeds
	Regions     []RegionProfile
	Concurrency int
	Timeout     time.Duration
	Logger      *slog.Logger
}

func NewMultiSourceDiscovery(regions []RegionProfile, feeds []string, logger *slog.Logger) *MultiSource {
	if len(regions) == 0 {
		regions = DefaultRegions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiSource{
		GoogleNews:  NewGoogleNews(),
		RSS:         NewRSSFeeds(feeds),
		Regions:     regions,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultFetchTimeout,
		Logger:      logger,
	}
}

type fetchTask struct {
	name  string
	fetch func(ctx context.Context) ([]Article, error)
}

// Fetch queries all sources for query over the last days and returns at
// most maxArticles articles, deduplicated by title, in source order. A failed or
// timed-out source contributes nothing; the only error is cancellation of ctx.
func (m *MultiSource) Fetch(ctx context.Context, query string, days, maxArticles int) ([]Article, error) {
	tasks := make([]fetchTask, 0, len(m.Regions)+len(m.RSS.Feeds))
	for _, region := range m.Regions {
		tasks = append(tasks, fetchTask{
			name: "google-news:" + region.Code,
			fetch: func(ctx context.Context) ([]Article, error) {
				return m.GoogleNews.Discover(ctx, query, days, region, 0)
			},
		})
	}
	for _, feedURL := range m.RSS.Feeds {
		tasks = append(tasks, fetchTask{
			name: feedURL,
			fetch: func(ctx context.Context) ([]Article, error) {
				return m.RSS.DiscoverFeed(ctx, feedURL, query, days, maxArticles)
			},
		})
	}

	results := m.gather(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := make([]Article, 0, 256)
	for _, r := range results {
		all = append(all, r...)
	}
	out := dedupeByTitle(all, maxArticles)

	m.Logger.Info("articles gathered", "query", query, "sources", len(tasks), "raw", len(all), "kept", len(out))
	return out, nil
}

// gather runs tasks with the configured ceiling and per-task timeout.
// results[i] belongs to tasks[i].
func (m *MultiSource) gather(ctx context.Context, tasks []fetchTask) [][]Article {
	limit := m.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	results := make([][]Article, len(tasks))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			found, err := task.fetch(tctx)
			if err != nil {
				m.Logger.Warn("source failed", "source", task.name, "error", err)
				return nil
			}
			m.Logger.Debug("source fetched", "source", task.name, "articles", len(found))
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// dedupeByTitle keeps the first article for each non-empty title, up to limit
// (limit <= 0 means no cap).
func dedupeByTitle(in []Article, limit int) []Article {
	seen := make(map[string]struct{}, len(in))
	out := make([]Article, 0, len(in))
	for _, a := range in {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, a)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
