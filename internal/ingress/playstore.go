package ingress

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
)

// PlayStore fetches recent Google Play reviews by scraping the app's store
// page. Reviews rendered server-side are enough for a weekly signal pass;
// there is no public review API.
type PlayStore struct {
	baseURL     string
	userAgent   string
	recencyDays int
	registry    AppRegistry
	client      *http.Client
	limiter     *rate.Limiter
}

// NewPlayStore creates a Play Store source backed by the given registry.
func NewPlayStore(registry AppRegistry, userAgent string, recencyDays int) *PlayStore {
	return &PlayStore{
		baseURL:     "https://play.google.com",
		userAgent:   userAgent,
		recencyDays: recencyDays,
		registry:    registry,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetBaseURL overrides the store base URL (tests).
func (p *PlayStore) SetBaseURL(u string) {
	p.baseURL = u
}

func (p *PlayStore) Name() string {
	return "playstore"
}

func (p *PlayStore) Fetch(ctx context.Context, term string) ([]signal.Raw, error) {
	appID, ok := p.registry.PlayStoreID(ctx, term)
	if !ok {
		logging.Info("No Play Store ID for product", "term", term)
		return nil, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/store/apps/details?id=%s&hl=en&gl=US&showAllReviews=true", p.baseURL, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store page: %w", err)
	}

	seen := make(map[string]bool)
	cut := cutoff(p.recencyDays)
	var results []signal.Raw

	doc.Find("[data-review-id]").Each(func(_ int, sel *goquery.Selection) {
		reviewID, _ := sel.Attr("data-review-id")
		if reviewID == "" {
			return
		}

		url := fmt.Sprintf("%s/store/apps/details?id=%s&reviewId=%s", p.baseURL, appID, reviewID)
		if seen[url] {
			return
		}
		seen[url] = true

		dateText := strings.TrimSpace(sel.Find(".review-date").First().Text())
		reviewDate, err := time.Parse("January 2, 2006", dateText)
		if err != nil {
			return
		}
		if reviewDate.Before(cut) {
			return
		}

		text := strings.TrimSpace(sel.Find(".review-body").First().Text())
		if len(text) < 20 {
			return
		}

		// Star rating is carried in the aria-label ("Rated 4 stars out of five")
		score := 0.0
		if label, ok := sel.Find("[aria-label*='Rated']").First().Attr("aria-label"); ok {
			fmt.Sscanf(label, "Rated %f", &score)
		}

		results = append(results, signal.Raw{
			Source: "playstore",
			Term:   strings.ToLower(term),
			Text:   truncate(text, maxTextLen),
			Score:  score,
			URL:    url,
			Date:   reviewDate.Format("2006-01-02"),
		})
	})

	logging.Info("Play Store signals collected", "term", term, "count", len(results))
	return results, nil
}
