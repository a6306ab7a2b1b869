// Package extract enriches headline descriptions with text scraped from the
// linked article pages.
package extract

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"newsintel/internal/discovery"
)

const (
	DefaultLimit = 15

	// minReplaceLen is the length scraped content must exceed to replace the
	// feed description.
	minReplaceLen = 120
)

type Enricher struct {
	Client      *http.Client
	Concurrency int
	Timeout     time.Duration
	Logger      *slog.Logger
}

func NewEnricher(timeout time.Duration, concurrency int, logger *slog.Logger) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		Client:      &http.Client{Timeout: timeout + 5*time.Second},
		Concurrency: concurrency,
		Timeout:     timeout,
		Logger:      logger,
	}
}

// Enrich returns a copy of articles in which the first n descriptions are
// replaced by scraped page text where a useful summary was found. Failures
// leave the original description in place. n <= 0 means DefaultLimit.
func (e *Enricher) Enrich(ctx context.Context, articles []discovery.Article, n int) []discovery.Article {
	out := append([]discovery.Article(nil), articles...)
	if n <= 0 {
		n = DefaultLimit
	}
	n = min(n, len(out))
	if n == 0 {
		return out
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultLimit
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// contents[i] belongs to out[i].
	contents := make([]string, n)
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range n {
		link := out[i].Link
		if link == "" {
			continue
		}
		g.Go(func() error {
			text, err := e.Extract(ctx, link)
			if err != nil {
				logger.Warn("enrich failed", "url", link, "error", err)
				return nil
			}
			contents[i] = text
			return nil
		})
	}
	_ = g.Wait()

	enriched := 0
	for i, text := range contents {
		if runeLen(text) > minReplaceLen {
			out[i].Description = text
			enriched++
		}
	}
	logger.Info("headlines enriched", "attempted", n, "enriched", enriched)
	return out
}
