package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"newsintel/internal/config"
	"newsintel/internal/discovery"
	"newsintel/internal/entity"
	"newsintel/internal/extract"
	"newsintel/internal/lexicon"
	"newsintel/internal/sector"
)

// headlineMax caps the single-region headline fetch.
const headlineMax = 100

var ErrEmptyKeyword = errors.New("keyword is empty")

type Service struct {
	Config   config.Config
	Logger   *slog.Logger
	Lexicon  *lexicon.Lexicon
	Expander *sector.Expander
	Engine   *entity.Engine
	Sources  *discovery.MultiSource
	Enricher *extract.Enricher
}

// NewService wires the pipeline from cfg. Only an unreadable lexicon file
// is an error.
func NewService(cfg config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lex, err := lexicon.Load(cfg.LexiconFile)
	if err != nil {
		return nil, err
	}

	regions := discovery.RegionProfiles(cfg.Regions)
	sources := discovery.NewMultiSourceDiscovery(regions, cfg.Feeds, logger)
	if cfg.GoogleNewsURL != "" {
		sources.GoogleNews.BaseURL = cfg.GoogleNewsURL
	}
	if cfg.FetchTimeout > 0 {
		sources.Timeout = cfg.FetchTimeout
	}
	if cfg.FetchConcurrency > 0 {
		sources.Concurrency = cfg.FetchConcurrency
	}

	return &Service{
		Config:   cfg,
		Logger:   logger,
		Lexicon:  lex,
		Expander: sector.NewExpander(lex),
		Engine:   entity.NewEngine(lex),
		Sources:  sources,
		Enricher: extract.NewEnricher(cfg.EnrichTimeout, cfg.EnrichLimit, logger),
	}, nil
}

type AnalyzeRequest struct {
	Keyword     string
	Days        int
	MinMentions float64
	Limit       int
	MaxArticles int
}

type AnalyzeResult struct {
	RunID    string                `json:"run_id"`
	Sector   sector.Context        `json:"sector"`
	Articles int                   `json:"articles_analyzed"`
	Entities []entity.RankedResult `json:"entities"`
}

// Analyze expands the keyword, gathers articles for the optimized query
// across all sources, and ranks the organizations they mention.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	runID := uuid.NewString()
	logger := s.Logger.With("run_id", runID, "keyword", keyword)

	sc := s.Expander.Expand(keyword)
	logger.Info("keyword expanded", "sector", sc.Sector, "query", sc.OptimizedQuery)

	articles, err := s.Sources.Fetch(ctx, sc.OptimizedQuery, req.Days, req.MaxArticles)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	ranked := s.Engine.Extract(articles, entity.Options{
		ContextKeywords: sc.ContextKeywords,
		MinMentions:     req.MinMentions,
		Limit:           req.Limit,
	})
	logger.Info("entities ranked", "articles", len(articles), "entities", len(ranked))

	return &AnalyzeResult{
		RunID:    runID,
		Sector:   sc,
		Articles: len(articles),
		Entities: ranked,
	}, nil
}

type HeadlinesRequest struct {
	Keyword     string
	Days        int
	EnrichLimit int
	Enrich      bool
}

type HeadlinesResult struct {
	RunID    string              `json:"run_id"`
	Keyword  string              `json:"keyword"`
	Region   string              `json:"region"`
	Articles []discovery.Article `json:"articles"`
}

// Headlines lists the latest articles for the raw keyword from the headline
// region and optionally enriches the first descriptions with page text.
func (s *Service) Headlines(ctx context.Context, req HeadlinesRequest) (*HeadlinesResult, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	runID := uuid.NewString()
	logger := s.Logger.With("run_id", runID, "keyword", keyword)

	region := s.headlineRegion()
	articles := s.fetchRegion(ctx, logger, keyword, req.Days, region, headlineMax)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Enrich && len(articles) > 0 {
		limit := req.EnrichLimit
		if limit <= 0 {
			limit = s.Config.EnrichLimit
		}
		articles = s.Enricher.Enrich(ctx, articles, limit)
	}
	logger.Info("headlines listed", "region", region.Code, "articles", len(articles))

	return &HeadlinesResult{
		RunID:    runID,
		Keyword:  keyword,
		Region:   region.Code,
		Articles: articles,
	}, nil
}

// Probe returns the first n raw items of the headline region feed.
func (s *Service) Probe(ctx context.Context, keyword string, days, n int) ([]discovery.Article, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	return s.Sources.GoogleNews.Discover(ctx, keyword, days, s.headlineRegion(), n)
}

func (s *Service) headlineRegion() discovery.RegionProfile {
	if p, ok := discovery.BuildRegionProfile(s.Config.HeadlineRegion, "en"); ok {
		return p
	}
	p, _ := discovery.BuildRegionProfile("IN", "en")
	return p
}

// fetchRegion queries one edition with the gather timeout. A failed fetch
// is logged and yields no articles.
func (s *Service) fetchRegion(ctx context.Context, logger *slog.Logger, query string, days int, region discovery.RegionProfile, limit int) []discovery.Article {
	timeout := s.Sources.Timeout
	if timeout <= 0 {
		timeout = discovery.DefaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	articles, err := s.Sources.GoogleNews.Discover(fctx, query, days, region, limit)
	if err != nil {
		logger.Warn("source failed", "region", region.Code, "error", err)
		return []discovery.Article{}
	}
	return articles
}
