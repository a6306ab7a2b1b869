package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultTimeout bounds one page fetch.
const DefaultTimeout = 15 * time.Second

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 4 << 20

	metaPreferLen   = 100 // og:description shorter than this falls back to meta[name=description]
	minParagraphLen = 80
	maxParagraphs   = 4
	minSentenceLen  = 15
	maxSentences    = 8
	minSentences    = 3
	targetLen       = 250
	maxSummaryLen   = 800
	minSummaryLen   = 100
)

// ErrNoContent is returned when a page has no usable body text or meta
// description.
var ErrNoContent = errors.New("no usable content")

// FetchError describes a page that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Extract fetches pageURL and returns a short summary of its body text.
func (e *Enricher) Extract(ctx context.Context, pageURL string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Message: "bad request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client().Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Message: "failed to fetch URL", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Message: "failed to parse HTML", Err: err}
	}
	return Summarize(doc)
}

func (e *Enricher) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}

// Summarize picks the summary text of a parsed page: up to eight sentences
// from the main paragraphs, or the meta description when the body is thin.
func Summarize(doc *goquery.Document) (string, error) {
	meta := metaDescription(doc)

	doc.Find("script, style, nav, header, footer, aside, form, iframe, button").Remove()

	paragraphs := make([]string, 0, maxParagraphs)
	mainContainer(doc).Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := nodeText(p)
		if runeLen(text) > minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})

	var content string
	switch {
	case len(paragraphs) > 0:
		content = strings.Join(paragraphs, " ")
	case runeLen(meta) > minSummaryLen:
		content = meta
	default:
		return "", ErrNoContent
	}

	sentences := make([]string, 0, maxSentences)
	for _, s := range splitSentences(content) {
		if runeLen(s) > minSentenceLen {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) < minSentences && runeLen(meta) > minSummaryLen {
		if runeLen(meta) > runeLen(content) {
			return truncateRunes(meta, maxSummaryLen), nil
		}
		return truncateRunes(content, maxSummaryLen), nil
	}

	summary := joinCapped(sentences, maxSentences, maxSummaryLen)
	if runeLen(summary) < targetLen && runeLen(meta) > runeLen(summary) {
		return meta, nil
	}
	if runeLen(summary) <= minSummaryLen {
		return "", ErrNoContent
	}
	return summary, nil
}

func metaDescription(doc *goquery.Document) string {
	og := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).First().AttrOr("content", ""))
	if runeLen(og) >= metaPreferLen {
		return og
	}
	if d := strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", "")); d != "" {
		return d
	}
	return og
}

// mainContainer returns the first div, article or section with the most
// direct <p> children, else the body.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestCount := 0
	doc.Find("div, article, section").Each(func(_ int, s *goquery.Selection) {
		if n := s.ChildrenFiltered("p").Length(); n > bestCount {
			best, bestCount = s, n
		}
	})
	if best != nil {
		return best
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// nodeText joins the text nodes under s with single spaces.
func nodeText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// splitSentences cuts text at whitespace runs that follow '.', '!' or '?'.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// joinCapped joins up to n sentences while the result stays within maxLen
// runes. A single oversized first sentence is truncated.
func joinCapped(sentences []string, n, maxLen int) string {
	var sb strings.Builder
	length := 0
	for i, s := range sentences {
		if i >= n {
			break
		}
		add := runeLen(s)
		if i > 0 {
			add++
		}
		if length+add > maxLen {
			if i == 0 {
				return truncateRunes(s, maxLen)
			}
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s)
		length += add
	}
	return sb.String()
}

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
