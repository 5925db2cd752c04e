package ingress

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
)

// AppStore fetches recent Apple App Store reviews from the public
// customer-reviews feed for an app ID.
type AppStore struct {
	baseURL     string
	userAgent   string
	recencyDays int
	registry    AppRegistry
	client      *http.Client
	limiter     *rate.Limiter
}

// NewAppStore creates an App Store source backed by the given registry.
func NewAppStore(registry AppRegistry, userAgent string, recencyDays int) *AppStore {
	return &AppStore{
		baseURL:     "https://itunes.apple.com",
		userAgent:   userAgent,
		recencyDays: recencyDays,
		registry:    registry,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetBaseURL overrides the feed base URL (tests).
func (a *AppStore) SetBaseURL(u string) {
	a.baseURL = u
}

func (a *AppStore) Name() string {
	return "appstore"
}

func (a *AppStore) Fetch(ctx context.Context, term string) ([]signal.Raw, error) {
	appID, ok := a.registry.AppStoreID(ctx, term)
	if !ok {
		logging.Info("No App Store ID for product", "term", term)
		return nil, nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/us/rss/customerreviews/page=1/id=%s/sortby=mostrecent/xml", a.baseURL, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parser := gofeed.NewParser()
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review feed: %w", err)
	}

	seen := make(map[string]bool)
	cut := cutoff(a.recencyDays)
	var results []signal.Raw

	for _, item := range feed.Items {
		reviewDate := item.UpdatedParsed
		if reviewDate == nil {
			reviewDate = item.PublishedParsed
		}
		if reviewDate == nil || reviewDate.Before(cut) {
			continue
		}

		text := strings.TrimSpace(item.Description)
		if text == "" {
			text = strings.TrimSpace(item.Content)
		}
		if len(text) < 20 {
			continue
		}

		url := fmt.Sprintf("https://apps.apple.com/app/id%s?reviewId=%s", appID, item.GUID)
		if seen[url] {
			continue
		}
		seen[url] = true

		results = append(results, signal.Raw{
			Source: "appstore",
			Term:   strings.ToLower(term),
			Text:   truncate(text, maxTextLen),
			Title:  item.Title,
			Score:  ratingOf(item),
			URL:    url,
			Date:   reviewDate.Format("2006-01-02"),
		})
	}

	logging.Info("App Store signals collected", "term", term, "count", len(results))
	return results, nil
}

// ratingOf extracts the im:rating extension from a review entry.
func ratingOf(item *gofeed.Item) float64 {
	ext, ok := item.Extensions["im"]
	if !ok {
		return 0
	}
	ratings, ok := ext["rating"]
	if !ok || len(ratings) == 0 {
		return 0
	}
	r, err := strconv.ParseFloat(ratings[0].Value, 64)
	if err != nil {
		return 0
	}
	return r
}
