// Package ui provides the Bubble Tea TUI for briefd.
package ui

import (
	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

// ReportReady is sent when a pipeline run for a product finishes.
type ReportReady struct {
	Product string
	Report  signal.Report
	Err     error
}

// TrendLoaded is sent when snapshot history has been read for the
// current product. Trend is nil when fewer than two snapshots exist.
type TrendLoaded struct {
	Product string
	Trend   *store.Trend
	Err     error
}
