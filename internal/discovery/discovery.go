// Package discovery resolves product names to app store identities. It
// answers ID lookups for the ingestion sources from a built-in table, the
// user config and the product registry, and can discover unknown products
// by querying the iTunes search API and scraping Play Store search results.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/infblueocean/briefd/internal/config"
	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/store"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a product name and strips all whitespace. This is
// the registry key, so "Microsoft Teams" and "microsoft teams" are one row.
func NormalizeName(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "")
}

// Registry resolves product names to store IDs and discovers new products.
// Satisfies ingress.AppRegistry. Lookup order: user config, built-in table,
// then previously discovered products in the store.
type Registry struct {
	store      *store.Store // nil disables persistence and store lookups
	overrides  map[string]config.AppIDs
	userAgent  string
	client     *http.Client
	itunesURL  string
	playSearch string
}

// NewRegistry creates a Registry. overrides come from config.KnownApps and
// shadow the built-in table.
func NewRegistry(st *store.Store, overrides map[string]config.AppIDs, userAgent string) *Registry {
	return &Registry{
		store:      st,
		overrides:  overrides,
		userAgent:  userAgent,
		client:     &http.Client{Timeout: 15 * time.Second},
		itunesURL:  "https://itunes.apple.com/search",
		playSearch: "https://play.google.com/store/search",
	}
}

// SetEndpoints overrides the discovery endpoints. Used in tests.
func (r *Registry) SetEndpoints(itunesURL, playSearchURL string) {
	r.itunesURL = itunesURL
	r.playSearch = playSearchURL
}

// PlayStoreID resolves a product name to a Play Store app ID.
func (r *Registry) PlayStoreID(ctx context.Context, name string) (string, bool) {
	ids, ok := r.lookup(ctx, name)
	return ids.PlayStore, ok && ids.PlayStore != ""
}

// AppStoreID resolves a product name to an App Store app ID.
func (r *Registry) AppStoreID(ctx context.Context, name string) (string, bool) {
	ids, ok := r.lookup(ctx, name)
	return ids.AppStore, ok && ids.AppStore != ""
}

func (r *Registry) lookup(ctx context.Context, name string) (config.AppIDs, bool) {
	key := strings.TrimSpace(strings.ToLower(name))
	if ids, ok := r.overrides[key]; ok {
		return ids, true
	}
	if ids, ok := builtinApps[key]; ok {
		return ids, true
	}
	if r.store != nil {
		p, found, err := r.store.GetProduct(NormalizeName(name))
		if err != nil {
			logging.Warn("registry lookup failed", "product", name, "error", err)
			return config.AppIDs{}, false
		}
		if found {
			return config.AppIDs{PlayStore: p.PlayStoreID, AppStore: p.AppStoreID}, true
		}
	}
	return config.AppIDs{}, false
}

// Discover resolves a product's store identities, persisting the result.
// A product already in the registry is returned as-is. Discovery failures
// on either store are logged; the product is saved with whatever was found,
// possibly nothing.
func (r *Registry) Discover(ctx context.Context, name string) (store.Product, error) {
	if strings.TrimSpace(name) == "" {
		return store.Product{}, fmt.Errorf("product name required")
	}
	normalized := NormalizeName(name)

	if r.store != nil {
		existing, found, err := r.store.GetProduct(normalized)
		if err != nil {
			return store.Product{}, fmt.Errorf("registry lookup: %w", err)
		}
		if found {
			return existing, nil
		}
	}

	logging.Info("discovering product", "name", name)
	p := store.Product{Name: name, NormalizedName: normalized}

	if ids, ok := r.lookup(ctx, name); ok {
		p.PlayStoreID = ids.PlayStore
		p.AppStoreID = ids.AppStore
	}

	if p.PlayStoreID == "" {
		if id, err := r.searchPlayStore(ctx, name); err != nil {
			logging.Warn("play store discovery failed", "name", name, "error", err)
		} else {
			p.PlayStoreID = id
		}
	}

	if p.AppStoreID == "" {
		if meta, err := r.searchAppStore(ctx, name); err != nil {
			logging.Warn("app store discovery failed", "name", name, "error", err)
		} else {
			p.AppStoreID = meta.id
			p.AppStoreRating = meta.rating
			if p.Category == "" {
				p.Category = meta.genre
			}
		}
	}

	if r.store != nil {
		if err := r.store.SaveProduct(p); err != nil {
			return store.Product{}, fmt.Errorf("save product: %w", err)
		}
		saved, _, err := r.store.GetProduct(normalized)
		if err == nil {
			return saved, nil
		}
	}
	return p, nil
}

type appStoreMeta struct {
	id     string
	rating float64
	genre  string
}

// searchAppStore queries the iTunes search API and takes the top software
// result.
func (r *Registry) searchAppStore(ctx context.Context, name string) (appStoreMeta, error) {
	q := url.Values{}
	q.Set("term", name)
	q.Set("entity", "software")
	q.Set("country", "us")
	q.Set("limit", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.itunesURL+"?"+q.Encode(), nil)
	if err != nil {
		return appStoreMeta{}, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return appStoreMeta{}, fmt.Errorf("itunes search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return appStoreMeta{}, fmt.Errorf("itunes search: status %d", resp.StatusCode)
	}

	var payload struct {
		ResultCount int `json:"resultCount"`
		Results     []struct {
			TrackID           int64   `json:"trackId"`
			AverageUserRating float64 `json:"averageUserRating"`
			PrimaryGenreName  string  `json:"primaryGenreName"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return appStoreMeta{}, fmt.Errorf("itunes search: decode: %w", err)
	}
	if payload.ResultCount == 0 || len(payload.Results) == 0 {
		return appStoreMeta{}, fmt.Errorf("itunes search: no results for %q", name)
	}

	top := payload.Results[0]
	return appStoreMeta{
		id:     strconv.FormatInt(top.TrackID, 10),
		rating: top.AverageUserRating,
		genre:  top.PrimaryGenreName,
	}, nil
}

// searchPlayStore scrapes the Play Store search page and takes the first
// app detail link.
func (r *Registry) searchPlayStore(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("c", "apps")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.playSearch+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("play search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("play search: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("play search: parse: %w", err)
	}

	var appID string
	doc.Find(`a[href^="/store/apps/details?id="]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		if id := u.Query().Get("id"); id != "" {
			appID = id
			return false
		}
		return true
	})
	if appID == "" {
		return "", fmt.Errorf("play search: no results for %q", name)
	}
	return appID, nil
}
