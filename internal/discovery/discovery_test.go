package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssDoc(title string, items ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel>`)
	sb.WriteString("<title>" + title + "</title>")
	for _, it := range items {
		sb.WriteString(it)
	}
	sb.WriteString("</channel></rss>")
	return sb.String()
}

func rssItem(title, link, desc string) string {
	return datedItem(title, link, desc, time.Now().Add(-time.Hour))
}

func datedItem(title, link, desc string, pub time.Time) string {
	return fmt.Sprintf(
		"<item><title>%s</title><link>%s</link><description><![CDATA[%s]]></description><pubDate>%s</pubDate></item>",
		title, link, desc, pub.UTC().Format(time.RFC1123Z),
	)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "  Tesla   launches\nmodel ", "Tesla launches model"},
		{"anchor and font", `<a href="https://x.example/a">Tesla opens plant</a>&nbsp;&nbsp;<font color="#6f6f6f">Reuters</font>`, "Tesla opens plant Reuters"},
		{"entities", "Johnson &amp; Johnson", "Johnson & Johnson"},
		{"script dropped", "<p>keep</p><script>drop()</script>", "keep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanHTML(tt.in))
		})
	}
}

func TestPublisherFromTitle(t *testing.T) {
	assert.Equal(t, "Reuters", publisherFromTitle("Tesla opens plant - Reuters"))
	assert.Equal(t, "The Hindu", publisherFromTitle("Tata - Motors - The Hindu"))
	assert.Equal(t, "", publisherFromTitle("No publisher here"))
}

func TestSearchURL(t *testing.T) {
	g := NewGoogleNews()
	p, ok := BuildRegionProfile("in", "EN")
	require.True(t, ok)

	u := g.SearchURL("car makers", 7, p)
	assert.Equal(t, "https://news.google.com/rss/search?q=car+makers+when%3A7d&hl=en-IN&gl=IN&ceid=IN%3Aen", u)
}

func TestRegionProfiles(t *testing.T) {
	got := RegionProfiles([]string{"us", " ", "GB", "US"})
	require.Len(t, got, 2)
	assert.Equal(t, RegionProfile{Code: "US", HL: "en-US", GL: "US", CEID: "US:en"}, got[0])
	assert.Equal(t, "GB", got[1].Code)
	assert.Len(t, DefaultRegions(), 4)
}

func TestGoogleNewsDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tesla when:3d", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, rssDoc("Google News",
			rssItem("Tesla opens plant - Reuters", "https://news.example/1", `<a href="https://x">Tesla opens plant</a>`),
			rssItem("BYD expands - CNBC", "https://news.example/2", ""),
		))
	}))
	defer srv.Close()

	g := NewGoogleNews()
	g.BaseURL = srv.URL
	region, _ := BuildRegionProfile("US", "en")

	got, err := g.Discover(context.Background(), "tesla", 3, region, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Tesla opens plant - Reuters", got[0].Title)
	assert.Equal(t, "Tesla opens plant", got[0].Description)
	assert.Equal(t, "Reuters", got[0].Source)
	assert.Equal(t, "https://news.example/1", got[0].Link)
	assert.NotEmpty(t, got[0].Published)
	assert.Equal(t, "No description", got[1].Description)
}

func TestGoogleNewsDiscoverHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGoogleNews()
	g.BaseURL = srv.URL
	region, _ := BuildRegionProfile("US", "en")

	_, err := g.Discover(context.Background(), "tesla", 1, region, 0)
	var fe *FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestMultiSourceFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rss/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("gl") {
		case "US":
			_, _ = io.WriteString(w, rssDoc("US",
				rssItem("Tesla opens plant - Reuters", "https://a/1", "d"),
				rssItem("GM recalls trucks - AP", "https://a/2", "d"),
			))
		case "GB":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "IN":
			_, _ = io.WriteString(w, rssDoc("IN",
				rssItem("Tesla opens plant - Reuters", "https://b/1", "dup"),
				rssItem("Tata Motors unveils SUV - Mint", "https://b/2", "d"),
			))
		case "AU":
			time.Sleep(200 * time.Millisecond)
			_, _ = io.WriteString(w, rssDoc("AU", rssItem("Slow item", "https://c/1", "d")))
		}
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, rssDoc("Direct",
			rssItem("Motors roundup", "https://d/1", "car makers rally"),
			rssItem("Weather today", "https://d/2", "rain"),
			datedItem("Old car makers story", "https://d/3", "car makers", time.Now().AddDate(0, 0, -30)),
		))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewMultiSourceDiscovery(DefaultRegions(), []string{srv.URL + "/feed"}, quietLogger())
	m.GoogleNews.BaseURL = srv.URL + "/rss/search"
	m.Timeout = 50 * time.Millisecond

	got, err := m.Fetch(context.Background(), "car makers", 7, 0)
	require.NoError(t, err)

	titles := make([]string, len(got))
	for i, a := range got {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{
		"Tesla opens plant - Reuters",
		"GM recalls trucks - AP",
		"Tata Motors unveils SUV - Mint",
		"Motors roundup",
	}, titles, "failed and timed-out regions contribute nothing, duplicates keep the first, stale feed items are dropped")
	assert.Equal(t, "https://a/1", got[0].Link)
}

func TestMultiSourceFetchCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gl := r.URL.Query().Get("gl")
		_, _ = io.WriteString(w, rssDoc(gl,
			rssItem(gl+" one", "https://a/1", "d"),
			rssItem(gl+" two", "https://a/2", "d"),
		))
	}))
	defer srv.Close()

	m := NewMultiSourceDiscovery(nil, nil, quietLogger())
	m.GoogleNews.BaseURL = srv.URL

	got, err := m.Fetch(context.Background(), "tesla", 1, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "US one", got[0].Title)
}

func TestMultiSourceFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMultiSourceDiscovery(nil, nil, quietLogger())
	m.GoogleNews.BaseURL = "http://127.0.0.1:1"
	_, err := m.Fetch(ctx, "tesla", 1, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
