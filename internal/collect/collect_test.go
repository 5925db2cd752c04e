package collect

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/infblueocean/briefd/internal/ingress"
	"github.com/infblueocean/briefd/internal/signal"
)

func TestDedupeAndCapRemovesDuplicateURLs(t *testing.T) {
	lists := [][]signal.Raw{
		{
			{URL: "http://a", Score: 1},
			{URL: "http://b", Score: 2},
		},
		{
			{URL: "http://a", Score: 9}, // duplicate, first occurrence wins
			{URL: "http://c", Score: 3},
		},
	}

	got := DedupeAndCap(lists, 200)
	if len(got) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(got))
	}
	for _, s := range got {
		if s.URL == "http://a" && s.Score != 1 {
			t.Errorf("duplicate kept the wrong occurrence: score %f", s.Score)
		}
	}
}

func TestDedupeAndCapKeylessNeverCollide(t *testing.T) {
	lists := [][]signal.Raw{
		{
			{URL: "", Text: "same text", Score: 1},
			{URL: "", Text: "same text", Score: 1},
		},
	}

	got := DedupeAndCap(lists, 200)
	if len(got) != 2 {
		t.Errorf("keyless signals must both survive, got %d", len(got))
	}
}

func TestDedupeAndCapStableOrdering(t *testing.T) {
	lists := [][]signal.Raw{
		{
			{URL: "http://a", Title: "A", Score: 5},
			{URL: "http://b", Title: "B", Score: 5},
			{URL: "http://c", Title: "C", Score: 3},
		},
	}

	got := DedupeAndCap(lists, 200)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	if !reflect.DeepEqual(titles, []string{"A", "B", "C"}) {
		t.Errorf("expected stable order [A B C], got %v", titles)
	}
}

func TestDedupeAndCapSortsByScoreDescending(t *testing.T) {
	lists := [][]signal.Raw{
		{
			{URL: "http://low", Score: 1},
			{URL: "http://high", Score: 10},
			{URL: "http://mid", Score: 5},
		},
	}

	got := DedupeAndCap(lists, 200)
	if got[0].URL != "http://high" || got[1].URL != "http://mid" || got[2].URL != "http://low" {
		t.Errorf("unexpected order: %v, %v, %v", got[0].URL, got[1].URL, got[2].URL)
	}
}

func TestDedupeAndCapIdempotent(t *testing.T) {
	lists := [][]signal.Raw{
		{
			{URL: "http://a", Score: 2},
			{URL: "", Text: "keyless", Score: 7},
			{URL: "http://a", Score: 9},
			{URL: "http://b", Score: 4},
		},
	}

	once := DedupeAndCap(lists, 200)
	twice := DedupeAndCap([][]signal.Raw{once}, 200)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedup is not idempotent:\n once: %v\ntwice: %v", once, twice)
	}
}

func TestDedupeAndCapHonorsCap(t *testing.T) {
	var list []signal.Raw
	for i := 0; i < 50; i++ {
		list = append(list, signal.Raw{URL: "", Score: float64(i)})
	}

	got := DedupeAndCap([][]signal.Raw{list}, 10)
	if len(got) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(got))
	}
	// Every element of the output appears in the input.
	for _, s := range got {
		if s.Score < 0 || s.Score > 49 {
			t.Errorf("output element not from input: %v", s)
		}
	}
}

func TestDedupeAndCapEmptyInput(t *testing.T) {
	if got := DedupeAndCap(nil, 200); len(got) != 0 {
		t.Errorf("expected empty output, got %d", len(got))
	}
}

type stubSource struct {
	name string
	sigs map[string][]signal.Raw
	err  error
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) Fetch(_ context.Context, term string) ([]signal.Raw, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sigs[term], nil
}

func asSources(stubs ...stubSource) []ingress.Source {
	srcs := make([]ingress.Source, len(stubs))
	for i, s := range stubs {
		srcs[i] = s
	}
	return srcs
}

func TestGatherDeterministicOrder(t *testing.T) {
	a := stubSource{name: "a", sigs: map[string][]signal.Raw{
		"x": {{URL: "http://a/x"}},
		"y": {{URL: "http://a/y"}},
	}}
	b := stubSource{name: "b", sigs: map[string][]signal.Raw{
		"x": {{URL: "http://b/x"}},
		"y": {{URL: "http://b/y"}},
	}}

	lists := Gather(context.Background(), asSources(a, b), []string{"x", "y"})
	if len(lists) != 4 {
		t.Fatalf("expected 4 lists, got %d", len(lists))
	}

	want := []string{"http://a/x", "http://a/y", "http://b/x", "http://b/y"}
	for i, list := range lists {
		if len(list) != 1 || list[0].URL != want[i] {
			t.Errorf("list %d: expected %s, got %v", i, want[i], list)
		}
	}
}

func TestGatherFailedSourceYieldsEmptyList(t *testing.T) {
	ok := stubSource{name: "ok", sigs: map[string][]signal.Raw{
		"x": {{URL: "http://ok/x"}},
	}}
	broken := stubSource{name: "broken", err: errors.New("boom")}

	lists := Gather(context.Background(), asSources(ok, broken), []string{"x"})
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if len(lists[0]) != 1 {
		t.Errorf("healthy source result missing")
	}
	if len(lists[1]) != 0 {
		t.Errorf("failed source should contribute an empty list")
	}
}
