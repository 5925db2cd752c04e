// Package compare maps free-form theme names onto a fixed taxonomy and
// computes head-to-head friction gaps between a product and its competitors.
package compare

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

// Canonical taxonomy buckets. LLM theme names are free text, so comparisons
// run over these instead.
const (
	BucketStability    = "stability"
	BucketPerformance  = "performance"
	BucketUX           = "ux"
	BucketSync         = "sync"
	BucketMonetization = "monetization"
	BucketFeatureGaps  = "feature-gaps"
	BucketAI           = "ai"
	BucketPlatform     = "platform"
	BucketOther        = "other"
)

// bucketKeywords maps substrings of a theme name to a bucket. Order matters:
// first bucket whose keyword matches wins.
var bucketKeywords = []struct {
	bucket   string
	keywords []string
}{
	{BucketSync, []string{"sync", "offline", "conflict", "data loss", "lost data", "lost note", "lost work"}},
	{BucketStability, []string{"crash", "freez", "bug", "broken", "unstable", "error", "corrupt"}},
	{BucketPerformance, []string{"slow", "lag", "performance", "load", "speed", "latency", "memory"}},
	{BucketMonetization, []string{"price", "pricing", "cost", "expensive", "subscription", "billing", "paywall", "trial"}},
	{BucketAI, []string{"ai ", " ai", "assistant", "copilot", "llm", "hallucin", "autocomplete"}},
	{BucketPlatform, []string{"mobile", "android", "ios", "ipad", "desktop", "browser", "tablet", "app version"}},
	{BucketUX, []string{"navigat", "confus", "onboard", "ux", "interface", "usability", "discover", "clutter", "menu", "design"}},
	{BucketFeatureGaps, []string{"missing", "lack", "no support", "limited", "feature", "request", "wish"}},
}

// CanonicalTheme maps a free-form theme name onto a taxonomy bucket.
// Unmatched names land in "other".
func CanonicalTheme(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range bucketKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.bucket
			}
		}
	}
	return BucketOther
}

// Dimension is one taxonomy bucket gap between two products. Positive Gap
// means the product has more friction there than the competitor.
type Dimension struct {
	Bucket         string  `json:"bucket"`
	ProductFreq    int     `json:"product_frequency"`
	CompetitorFreq int     `json:"competitor_frequency"`
	Gap            int     `json:"gap"`
	Intensity      float64 `json:"intensity"`
}

// Comparison is the head-to-head result of a product against one competitor.
type Comparison struct {
	Product                string      `json:"product"`
	Competitor             string      `json:"competitor"`
	ProductPFI             float64     `json:"product_pfi"`
	CompetitorPFI          float64     `json:"competitor_pfi"`
	PFIDelta               float64     `json:"pfi_delta"`
	ProductNegativeRate    float64     `json:"product_negative_rate"`
	CompetitorNegativeRate float64     `json:"competitor_negative_rate"`
	NegativeRateDelta      float64     `json:"negative_rate_delta"`
	Dimensions             []Dimension `json:"dimensions"`
	ProductWeek            string      `json:"product_week"`
	CompetitorWeek         string      `json:"competitor_week"`
}

// maxDimensions caps how many bucket gaps a comparison reports.
const maxDimensions = 5

// SnapshotSource is the slice of the store the comparator needs.
type SnapshotSource interface {
	LatestSnapshot(product string) (store.WeeklySnapshot, error)
	ThemeSnapshots(product, weekID string) ([]store.ThemeSnapshot, error)
}

// Products compares a product against one competitor using their latest
// snapshots. Errors from missing snapshots propagate so callers can name
// which product has never been analyzed.
func Products(src SnapshotSource, product, competitor string) (Comparison, error) {
	prodSnap, err := src.LatestSnapshot(product)
	if err != nil {
		return Comparison{}, fmt.Errorf("product %q: %w", product, err)
	}
	compSnap, err := src.LatestSnapshot(competitor)
	if err != nil {
		return Comparison{}, fmt.Errorf("competitor %q: %w", competitor, err)
	}

	prodThemes, err := src.ThemeSnapshots(product, prodSnap.WeekID)
	if err != nil {
		return Comparison{}, fmt.Errorf("themes for %q: %w", product, err)
	}
	compThemes, err := src.ThemeSnapshots(competitor, compSnap.WeekID)
	if err != nil {
		return Comparison{}, fmt.Errorf("themes for %q: %w", competitor, err)
	}

	return Comparison{
		Product:                product,
		Competitor:             competitor,
		ProductPFI:             prodSnap.PFI,
		CompetitorPFI:          compSnap.PFI,
		PFIDelta:               prodSnap.PFI - compSnap.PFI,
		ProductNegativeRate:    prodSnap.NegativeRate,
		CompetitorNegativeRate: compSnap.NegativeRate,
		NegativeRateDelta:      prodSnap.NegativeRate - compSnap.NegativeRate,
		Dimensions:             dimensions(prodThemes, compThemes),
		ProductWeek:            prodSnap.WeekID,
		CompetitorWeek:         compSnap.WeekID,
	}, nil
}

// dimensions buckets both theme sets and keeps the top gaps by absolute
// size. Ties break alphabetically by bucket so output is deterministic.
func dimensions(product, competitor []store.ThemeSnapshot) []Dimension {
	type tally struct {
		prodFreq, compFreq int
		intensitySum       float64
		intensityN         int
	}
	buckets := map[string]*tally{}

	add := func(themes []store.ThemeSnapshot, isProduct bool) {
		for _, th := range themes {
			bucket := CanonicalTheme(th.ThemeName)
			t := buckets[bucket]
			if t == nil {
				t = &tally{}
				buckets[bucket] = t
			}
			if isProduct {
				t.prodFreq += th.Frequency
			} else {
				t.compFreq += th.Frequency
			}
			t.intensitySum += th.Intensity
			t.intensityN++
		}
	}
	add(product, true)
	add(competitor, false)

	dims := make([]Dimension, 0, len(buckets))
	for bucket, t := range buckets {
		d := Dimension{
			Bucket:         bucket,
			ProductFreq:    t.prodFreq,
			CompetitorFreq: t.compFreq,
			Gap:            t.prodFreq - t.compFreq,
		}
		if t.intensityN > 0 {
			d.Intensity = t.intensitySum / float64(t.intensityN)
		}
		dims = append(dims, d)
	}

	sort.SliceStable(dims, func(i, j int) bool {
		gi, gj := math.Abs(float64(dims[i].Gap)), math.Abs(float64(dims[j].Gap))
		if gi != gj {
			return gi > gj
		}
		return dims[i].Bucket < dims[j].Bucket
	})

	if len(dims) > maxDimensions {
		dims = dims[:maxDimensions]
	}
	return dims
}

// ThemeSets splits two theme lists by name into shared and unique sets.
// Names compare case-insensitively; output keeps the product-side casing
// and is sorted for stable rendering.
func ThemeSets(product, competitor []signal.Theme) signal.ThemeComparison {
	prodNames := map[string]string{}
	for _, th := range product {
		prodNames[strings.ToLower(th.Name)] = th.Name
	}
	compNames := map[string]string{}
	for _, th := range competitor {
		compNames[strings.ToLower(th.Name)] = th.Name
	}

	var cmp signal.ThemeComparison
	for key, name := range prodNames {
		if _, ok := compNames[key]; ok {
			cmp.Shared = append(cmp.Shared, name)
		} else {
			cmp.UniqueToProduct = append(cmp.UniqueToProduct, name)
		}
	}
	for key, name := range compNames {
		if _, ok := prodNames[key]; !ok {
			cmp.UniqueToCompetitor = append(cmp.UniqueToCompetitor, name)
		}
	}

	sort.Strings(cmp.Shared)
	sort.Strings(cmp.UniqueToProduct)
	sort.Strings(cmp.UniqueToCompetitor)
	return cmp
}
