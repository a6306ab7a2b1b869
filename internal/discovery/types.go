package discovery

import "fmt"

// Article is one news item handed to the entity engine and the headline
// listing. Description may be empty; Link is used for display and
// enrichment only, never for identity.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	Published   string `json:"published"`
}

// Text is the title and description joined by a space.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}

// FeedError reports a feed that could not be fetched or parsed.
type FeedError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed %s: http %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("feed %s: %v", e.URL, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
