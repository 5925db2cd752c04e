// Package collect gathers raw signals from every source and term, then
// merges, deduplicates and caps them into the ordered working set the rest
// of the pipeline consumes. All dedup state is call-scoped; nothing persists
// across runs.
package collect

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/infblueocean/briefd/internal/ingress"
	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
)

// DefaultMaxSignals is the post-dedup signal cap.
const DefaultMaxSignals = 200

// fetchTimeout bounds each source/term fetch. A timed-out fetch loses only
// its own unit of work; sibling results are still used.
const fetchTimeout = 30 * time.Second

// maxConcurrentFetches limits parallel fetch operations.
const maxConcurrentFetches = 5

// Gather fetches signals for every (source, term) pair concurrently and
// returns one list per pair in deterministic (source-major, term-minor)
// order, so concurrency never leaks into downstream ordering. A failed
// fetch contributes an empty list and is logged, never propagated.
func Gather(ctx context.Context, sources []ingress.Source, terms []string) [][]signal.Raw {
	lists := make([][]signal.Raw, len(sources)*len(terms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for si, src := range sources {
		for ti, term := range terms {
			idx := si*len(terms) + ti
			src, term := src, term
			g.Go(func() error {
				fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
				defer cancel()

				sigs, err := src.Fetch(fetchCtx, term)
				if err != nil {
					logging.Warn("Source fetch failed",
						"source", src.Name(), "term", term, "error", err)
					return nil // failure of one unit never aborts the gather
				}
				lists[idx] = sigs
				return nil
			})
		}
	}

	g.Wait()
	return lists
}

// DedupeAndCap merges signal lists preserving source order, removes
// duplicates by URL key, orders by score descending and truncates to max.
//
// Signals with an empty URL are always kept and never collapse against
// anything, including each other. The sort is stable, so score ties keep
// first-seen (source-list) order.
func DedupeAndCap(lists [][]signal.Raw, max int) []signal.Raw {
	if max <= 0 {
		max = DefaultMaxSignals
	}

	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]bool, total)
	deduped := make([]signal.Raw, 0, total)

	for _, list := range lists {
		for _, s := range list {
			if s.URL != "" {
				if seen[s.URL] {
					continue
				}
				seen[s.URL] = true
			}
			deduped = append(deduped, s)
		}
	}

	afterDedup := len(deduped)

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if len(deduped) > max {
		deduped = deduped[:max]
	}

	logging.Info("Signals collected",
		"before_dedup", total,
		"after_dedup", afterDedup,
		"final", len(deduped))

	return deduped
}
