package compare

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

func TestCanonicalTheme(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Sync conflicts destroy work", BucketSync},
		{"App crashes on launch", BucketStability},
		{"Slow page load on big docs", BucketPerformance},
		{"Subscription pricing backlash", BucketMonetization},
		{"AI assistant hallucinates", BucketAI},
		{"Android app feels abandoned", BucketPlatform},
		{"Confusing navigation", BucketUX},
		{"Missing table export", BucketFeatureGaps},
		{"General vibes", BucketOther},
		{"OFFLINE MODE UNRELIABLE", BucketSync},
	}
	for _, c := range cases {
		if got := CanonicalTheme(c.name); got != c.want {
			t.Errorf("CanonicalTheme(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

// fakeSource serves canned snapshots keyed by product name.
type fakeSource struct {
	snaps  map[string]store.WeeklySnapshot
	themes map[string][]store.ThemeSnapshot
}

func (f fakeSource) LatestSnapshot(product string) (store.WeeklySnapshot, error) {
	snap, ok := f.snaps[product]
	if !ok {
		return store.WeeklySnapshot{}, fmt.Errorf("%w: %s", store.ErrMissingSnapshot, product)
	}
	return snap, nil
}

func (f fakeSource) ThemeSnapshots(product, weekID string) ([]store.ThemeSnapshot, error) {
	return f.themes[product], nil
}

func TestProducts(t *testing.T) {
	src := fakeSource{
		snaps: map[string]store.WeeklySnapshot{
			"notion":   {Product: "notion", WeekID: "2026-W36", PFI: 7.0, NegativeRate: 0.5},
			"obsidian": {Product: "obsidian", WeekID: "2026-W35", PFI: 4.5, NegativeRate: 0.3},
		},
		themes: map[string][]store.ThemeSnapshot{
			"notion": {
				{ThemeName: "Sync conflicts", Frequency: 12, Intensity: 8},
				{ThemeName: "Slow loading", Frequency: 6, Intensity: 6},
			},
			"obsidian": {
				{ThemeName: "Sync setup confusion", Frequency: 3, Intensity: 5},
				{ThemeName: "iPad layout issues", Frequency: 4, Intensity: 6},
			},
		},
	}

	cmp, err := Products(src, "notion", "obsidian")
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if math.Abs(cmp.PFIDelta-2.5) > 1e-9 {
		t.Errorf("PFIDelta = %v, want 2.5", cmp.PFIDelta)
	}
	if math.Abs(cmp.NegativeRateDelta-0.2) > 1e-9 {
		t.Errorf("NegativeRateDelta = %v, want 0.2", cmp.NegativeRateDelta)
	}
	if cmp.ProductWeek != "2026-W36" || cmp.CompetitorWeek != "2026-W35" {
		t.Errorf("weeks = %q vs %q", cmp.ProductWeek, cmp.CompetitorWeek)
	}

	// sync: 12-3=9, performance: 6-0=6, platform: 0-4=-4
	if len(cmp.Dimensions) != 3 {
		t.Fatalf("expected 3 dimensions, got %d: %+v", len(cmp.Dimensions), cmp.Dimensions)
	}
	if cmp.Dimensions[0].Bucket != BucketSync || cmp.Dimensions[0].Gap != 9 {
		t.Errorf("top dimension = %+v, want sync gap 9", cmp.Dimensions[0])
	}
	if cmp.Dimensions[2].Bucket != BucketPlatform || cmp.Dimensions[2].Gap != -4 {
		t.Errorf("third dimension = %+v, want platform gap -4", cmp.Dimensions[2])
	}
}

func TestProductsMissingSnapshot(t *testing.T) {
	src := fakeSource{
		snaps: map[string]store.WeeklySnapshot{
			"notion": {Product: "notion", WeekID: "2026-W36"},
		},
	}

	if _, err := Products(src, "ghost", "notion"); !errors.Is(err, store.ErrMissingSnapshot) {
		t.Errorf("missing product: got %v", err)
	}
	if _, err := Products(src, "notion", "ghost"); !errors.Is(err, store.ErrMissingSnapshot) {
		t.Errorf("missing competitor: got %v", err)
	}
}

func TestDimensionsCapAndTieBreak(t *testing.T) {
	// Six buckets with the same absolute gap. Only five survive, chosen
	// alphabetically.
	product := []store.ThemeSnapshot{
		{ThemeName: "crash loop", Frequency: 2},
		{ThemeName: "slow search", Frequency: 2},
		{ThemeName: "sync drops edits", Frequency: 2},
		{ThemeName: "pricing complaints", Frequency: 2},
		{ThemeName: "confusing menus", Frequency: 2},
		{ThemeName: "missing export feature", Frequency: 2},
	}

	dims := dimensions(product, nil)
	if len(dims) != maxDimensions {
		t.Fatalf("expected %d dimensions, got %d", maxDimensions, len(dims))
	}
	var got []string
	for _, d := range dims {
		got = append(got, d.Bucket)
	}
	want := []string{BucketFeatureGaps, BucketMonetization, BucketPerformance, BucketStability, BucketSync}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buckets = %v, want %v", got, want)
	}
}

func TestThemeSets(t *testing.T) {
	product := []signal.Theme{
		{Name: "Sync Conflicts"},
		{Name: "Slow loading"},
		{Name: "Pricing backlash"},
	}
	competitor := []signal.Theme{
		{Name: "sync conflicts"},
		{Name: "Plugin instability"},
	}

	cmp := ThemeSets(product, competitor)
	if !reflect.DeepEqual(cmp.Shared, []string{"Sync Conflicts"}) {
		t.Errorf("Shared = %v", cmp.Shared)
	}
	if !reflect.DeepEqual(cmp.UniqueToProduct, []string{"Pricing backlash", "Slow loading"}) {
		t.Errorf("UniqueToProduct = %v", cmp.UniqueToProduct)
	}
	if !reflect.DeepEqual(cmp.UniqueToCompetitor, []string{"Plugin instability"}) {
		t.Errorf("UniqueToCompetitor = %v", cmp.UniqueToCompetitor)
	}
}
