package ingress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
)

// subredditFilter scopes Reddit searches to communities where product
// discussion actually happens.
const subredditFilter = "subreddit:productivity OR " +
	"subreddit:saas OR " +
	"subreddit:projectmanagement OR " +
	"subreddit:startups OR " +
	"subreddit:Notion OR " +
	"subreddit:Linear OR " +
	"subreddit:Entrepreneur OR " +
	"subreddit:smallbusiness"

// Reddit fetches product discussion posts via the public search API.
type Reddit struct {
	baseURL     string
	userAgent   string
	recencyDays int
	client      *http.Client
	limiter     *rate.Limiter
}

// NewReddit creates a Reddit source.
func NewReddit(userAgent string, recencyDays int) *Reddit {
	return &Reddit{
		baseURL:     "https://www.reddit.com",
		userAgent:   userAgent,
		recencyDays: recencyDays,
		client:      &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetBaseURL overrides the API base URL (tests).
func (r *Reddit) SetBaseURL(u string) {
	r.baseURL = u
}

func (r *Reddit) Name() string {
	return "reddit"
}

// Fetch searches for posts mentioning the term as a product and returns
// them as raw signals. Short posts and obvious self-promotion are dropped.
func (r *Reddit) Fetch(ctx context.Context, term string) ([]signal.Raw, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	termQuery := fmt.Sprintf("%q OR %q OR %q",
		term+" app", term+" software", term+" workspace")
	q := fmt.Sprintf("(%s) AND (%s)", termQuery, subredditFilter)

	u := fmt.Sprintf("%s/search.json?q=%s&sort=new&t=week&limit=100",
		r.baseURL, url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reddit search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var body struct {
		Data struct {
			Children []struct {
				Data struct {
					Title      string  `json:"title"`
					SelfText   string  `json:"selftext"`
					URL        string  `json:"url"`
					Score      float64 `json:"score"`
					CreatedUTC float64 `json:"created_utc"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse reddit response: %w", err)
	}

	// Seen set is call-scoped: dedup across pipeline runs belongs to the
	// collect stage, not here.
	seen := make(map[string]bool)
	cut := cutoff(r.recencyDays)
	var results []signal.Raw

	for _, child := range body.Data.Children {
		post := child.Data

		if post.URL == "" || seen[post.URL] {
			continue
		}
		seen[post.URL] = true

		created := time.Unix(int64(post.CreatedUTC), 0).UTC()
		if created.Before(cut) {
			continue
		}

		fullText := strings.TrimSpace(post.Title + " " + post.SelfText)
		if len(fullText) < 40 {
			continue
		}

		// Light promo filtering
		lower := strings.ToLower(fullText)
		if strings.Contains(lower, "try it:") {
			continue
		}
		if strings.Contains(lower, "built a") && post.Score < 5 {
			continue
		}

		results = append(results, signal.Raw{
			Source: "reddit",
			Term:   term,
			Text:   truncate(fullText, maxTextLen),
			Title:  post.Title,
			Score:  post.Score,
			URL:    post.URL,
			Date:   created.Format("2006-01-02"),
		})
	}

	logging.Info("Reddit signals collected", "term", term, "count", len(results))
	return results, nil
}
