package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/briefd/internal/store"
	"github.com/infblueocean/briefd/internal/ui"
)

func runUI() {
	fs := flag.NewFlagSet("ui", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	st := openDB()
	defer st.Close()
	p := buildPipeline(cfg, st)

	runReport := func(product string) tea.Cmd {
		return func() tea.Msg {
			report, err := p.Run(context.Background(), product, nil)
			return ui.ReportReady{Product: product, Report: report, Err: err}
		}
	}
	loadTrend := func(product string) tea.Cmd {
		return func() tea.Msg {
			trend, err := st.Trend(product)
			if errors.Is(err, store.ErrInsufficientHistory) || errors.Is(err, store.ErrMissingSnapshot) {
				return ui.TrendLoaded{Product: product}
			}
			if err != nil {
				return ui.TrendLoaded{Product: product, Err: err}
			}
			return ui.TrendLoaded{Product: product, Trend: &trend}
		}
	}

	prog := tea.NewProgram(ui.NewApp(runReport, loadTrend), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
