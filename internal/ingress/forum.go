package ingress

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
)

// ForumRSS fetches posts from a product-forum search feed. The feed URL is a
// template with a %s placeholder for the query-escaped search term, e.g.
// "https://community.example.com/search.rss?q=%s".
type ForumRSS struct {
	name        string
	urlTemplate string
	userAgent   string
	recencyDays int
	client      *http.Client
	limiter     *rate.Limiter
}

// NewForumRSS creates a forum feed source.
func NewForumRSS(name, urlTemplate, userAgent string, recencyDays int) *ForumRSS {
	return &ForumRSS{
		name:        name,
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
		recencyDays: recencyDays,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (f *ForumRSS) Name() string {
	return f.name
}

func (f *ForumRSS) Fetch(ctx context.Context, term string) ([]signal.Raw, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf(f.urlTemplate, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forum feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parser := gofeed.NewParser()
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse forum feed: %w", err)
	}

	seen := make(map[string]bool)
	cut := cutoff(f.recencyDays)
	var results []signal.Raw

	for _, item := range feed.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil || published.Before(cut) {
			continue
		}

		if item.Link == "" || seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		fullText := strings.TrimSpace(item.Title + " " + item.Description)
		if len(fullText) < 40 {
			continue
		}

		results = append(results, signal.Raw{
			Source: f.name,
			Term:   term,
			Text:   truncate(fullText, maxTextLen),
			Title:  item.Title,
			URL:    item.Link,
			Date:   published.Format("2006-01-02"),
		})
	}

	logging.Info("Forum signals collected", "source", f.name, "term", term, "count", len(results))
	return results, nil
}
