// Package ingress provides the uniform interface over heterogeneous feedback
// feed sources. Each source fetches raw candidate signals for a search term
// with the recency cutoff already applied, and is independently rate limited
// and independently allowed to fail.
package ingress

import (
	"context"
	"time"

	"github.com/infblueocean/briefd/internal/signal"
)

// maxTextLen caps the free text carried by a signal.
const maxTextLen = 2000

// Source fetches raw signals for one search term.
// An error means "zero signals from this source for this term" to the
// caller; it never aborts the run.
type Source interface {
	Name() string
	Fetch(ctx context.Context, term string) ([]signal.Raw, error)
}

// AppRegistry resolves product names to store-specific app IDs.
// Implemented by the discovery package.
type AppRegistry interface {
	PlayStoreID(ctx context.Context, name string) (string, bool)
	AppStoreID(ctx context.Context, name string) (string, bool)
}

// cutoff returns the recency boundary for a source.
func cutoff(days int) time.Time {
	if days <= 0 {
		days = 7
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}

// truncate caps s at n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(string(runes)) > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
