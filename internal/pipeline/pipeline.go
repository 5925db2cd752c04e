// Package pipeline orchestrates a full briefd run: gather signals from all
// configured sources, classify them, synthesize friction themes, detect
// risks and opportunities, and persist the weekly snapshot.
//
// Every stage degrades instead of aborting. An oracle outage yields a report
// with unclassified signals and no themes; a persistence failure yields the
// report without the snapshot. Run only errors when it cannot even start.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/infblueocean/briefd/internal/classify"
	"github.com/infblueocean/briefd/internal/collect"
	"github.com/infblueocean/briefd/internal/compare"
	"github.com/infblueocean/briefd/internal/config"
	"github.com/infblueocean/briefd/internal/ingress"
	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
	"github.com/infblueocean/briefd/internal/themes"
)

// Pipeline wires sources, the oracle and the store into one runnable unit.
type Pipeline struct {
	sources []ingress.Source
	oracle  *oracle.Manager
	store   *store.Store // nil disables persistence
	cfg     config.PipelineConfig
}

// New creates a pipeline. A nil store disables persistence; a nil or empty
// oracle manager disables classification and synthesis but the run still
// produces a report.
func New(sources []ingress.Source, mgr *oracle.Manager, st *store.Store, cfg config.PipelineConfig) *Pipeline {
	if cfg.MaxSignals <= 0 {
		cfg.MaxSignals = collect.DefaultMaxSignals
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = classify.DefaultBatchSize
	}
	if cfg.MaxThemes <= 0 {
		cfg.MaxThemes = themes.DefaultMaxThemes
	}
	if cfg.MaxQuotes <= 0 {
		cfg.MaxQuotes = themes.DefaultMaxQuotes
	}
	return &Pipeline{sources: sources, oracle: mgr, store: st, cfg: cfg}
}

// Run executes the full pipeline for one product. Terms default to the
// product name when empty.
func (p *Pipeline) Run(ctx context.Context, product string, terms []string) (signal.Report, error) {
	if product == "" {
		return signal.Report{}, fmt.Errorf("product name required")
	}
	if len(terms) == 0 {
		terms = []string{product}
	}

	runID := uuid.NewString()
	logging.Info("pipeline run starting", "product", product, "run_id", runID, "terms", len(terms))

	lists := collect.Gather(ctx, p.sources, terms)
	sigs := collect.DedupeAndCap(lists, p.cfg.MaxSignals)
	logging.Info("signals gathered", "product", product, "count", len(sigs))

	provider := p.oracle.Pick()
	classifier := classify.New(provider, p.cfg.BatchSize, p.cfg.OracleTokens)
	sigs = classifier.Classify(ctx, sigs)

	negatives := signal.FilterNegative(sigs)
	synth := themes.New(provider, p.cfg.MaxThemes, p.cfg.MaxQuotes, p.cfg.OracleTokens)
	themeList := synth.Synthesize(ctx, negatives)

	report := signal.Report{
		Themes:        themeList,
		EmergingRisks: themes.EmergingRisks(themeList),
		Opportunities: themes.Opportunities(sigs),
		Summary:       summarize(sigs, negatives),
		SignalCount:   len(sigs),
	}

	p.persist(product, runID, sigs, report)

	logging.Info("pipeline run complete", "product", product, "run_id", runID,
		"themes", len(report.Themes), "risks", len(report.EmergingRisks))
	return report, nil
}

// RunCompetitive runs the pipeline for the product and each competitor, then
// attaches theme set comparisons. A failed competitor run is logged and
// skipped; the product run itself must succeed.
func (p *Pipeline) RunCompetitive(ctx context.Context, product string, competitors []string) (signal.CompetitiveReport, error) {
	prodReport, err := p.Run(ctx, product, nil)
	if err != nil {
		return signal.CompetitiveReport{}, err
	}

	rep := signal.CompetitiveReport{
		Product:     signal.ProductResult{Themes: prodReport.Themes, Summary: prodReport.Summary},
		Competitors: make(map[string]signal.ProductResult),
		Comparisons: make(map[string]signal.ThemeComparison),
	}

	for _, comp := range competitors {
		if comp == "" || comp == product {
			continue
		}
		compReport, err := p.Run(ctx, comp, nil)
		if err != nil {
			logging.Warn("competitor run failed", "competitor", comp, "error", err)
			continue
		}
		rep.Competitors[comp] = signal.ProductResult{Themes: compReport.Themes, Summary: compReport.Summary}
		rep.Comparisons[comp] = compare.ThemeSets(prodReport.Themes, compReport.Themes)
	}

	return rep, nil
}

// persist writes the raw signals and the weekly snapshot. Failures are
// logged and swallowed so a broken disk never costs the caller the report.
func (p *Pipeline) persist(product, runID string, sigs []signal.Raw, report signal.Report) {
	if p.store == nil {
		return
	}

	rows := make([]store.SignalRow, 0, len(sigs))
	for _, s := range sigs {
		rows = append(rows, store.SignalRow{
			Product:   product,
			Source:    s.Source,
			Term:      s.Term,
			Text:      s.Text,
			URL:       s.URL,
			Sentiment: s.Sentiment,
		})
	}
	if err := p.store.InsertSignals(rows); err != nil {
		logging.Error("persist signals failed", "product", product, "error", err)
	}

	weekID := WeekID(time.Now())
	if err := p.store.SaveSnapshot(product, weekID, runID, report.Summary, report.Themes); err != nil {
		logging.Error("persist snapshot failed", "product", product, "week", weekID, "error", err)
	}
}

// summarize computes the signal-health rollup.
func summarize(sigs, negatives []signal.Raw) signal.Summary {
	sum := signal.Summary{Total: len(sigs)}
	if sum.Total > 0 {
		sum.NegativeRate = math.Round(float64(len(negatives))/float64(sum.Total)*1000) / 10
	}
	for _, s := range sigs {
		if s.Category == signal.CategoryPerformance {
			sum.PerformanceCount++
		}
		if s.Context == signal.ContextMobile {
			sum.MobileCount++
		}
	}
	return sum
}

// WeekID formats a time as an ISO week identifier, e.g. "2026-W36".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
