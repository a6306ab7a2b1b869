package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Config holds all configuration values.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// Optional YAML file merged over the embedded lookup tables
	LexiconFile string

	// Article fetch
	GoogleNewsURL    string
	FetchTimeout     time.Duration
	FetchConcurrency int
	Regions          []string
	HeadlineRegion   string
	Feeds            []string

	// Headline enrichment
	EnrichTimeout time.Duration
	EnrichLimit   int

	// Request defaults, overridable by flags
	MinMentions float64
	Days        int
	MaxArticles int
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		LogFile:  getEnv("NEWSINTEL_LOG_FILE", filepath.Join(os.TempDir(), "newsintel.log")),
		LogLevel: parseLogLevel(getEnv("NEWSINTEL_LOG_LEVEL", "INFO")),

		LexiconFile: getEnv("NEWSINTEL_LEXICON_FILE", ""),

		GoogleNewsURL:    getEnv("NEWSINTEL_GOOGLE_NEWS_URL", "https://news.google.com/rss/search"),
		FetchTimeout:     getDuration("NEWSINTEL_FETCH_TIMEOUT", 10*time.Second),
		FetchConcurrency: getInt("NEWSINTEL_FETCH_CONCURRENCY", 10),
		Regions:          splitList(getEnv("NEWSINTEL_REGIONS", "US,GB,IN,AU"), strings.ToUpper),
		HeadlineRegion:   strings.ToUpper(getEnv("NEWSINTEL_HEADLINE_REGION", "IN")),
		Feeds:            splitList(getEnv("NEWSINTEL_FEEDS", ""), nil),

		EnrichTimeout: getDuration("NEWSINTEL_ENRICH_TIMEOUT", 15*time.Second),
		EnrichLimit:   getInt("NEWSINTEL_ENRICH_LIMIT", 15),

		MinMentions: getFloat("NEWSINTEL_MIN_MENTIONS", 5),
		Days:        getInt("NEWSINTEL_DAYS", 7),
		MaxArticles: getInt("NEWSINTEL_MAX_ARTICLES", 1000),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getFloat(key string, defaultVal float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f < 0 {
		return defaultVal
	}
	return f
}

// getDuration accepts Go durations ("15s") or plain seconds ("15").
func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

// splitList splits a comma-separated value, trims and drops empty items, and
// removes duplicates while keeping order.
func splitList(raw string, normalize func(string) string) []string {
	items := lo.FilterMap(strings.Split(raw, ","), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		if normalize != nil {
			s = normalize(s)
		}
		return s, s != ""
	})
	return lo.Uniq(items)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
