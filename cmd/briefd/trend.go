package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/infblueocean/briefd/internal/store"
)

func runTrend() {
	fs := flag.NewFlagSet("trend", flag.ExitOnError)
	weeks := fs.Int("weeks", 8, "How many snapshots of history to print")
	fs.Parse(os.Args[1:])

	product := strings.TrimSpace(fs.Arg(0))
	if product == "" {
		fmt.Fprintln(os.Stderr, "usage: briefd trend [flags] <product>")
		os.Exit(1)
	}

	st := openDB()
	defer st.Close()

	trend, err := st.Trend(product)
	switch {
	case errors.Is(err, store.ErrInsufficientHistory), errors.Is(err, store.ErrMissingSnapshot):
		fmt.Printf("%s: not enough history for a trend yet. Run 'briefd run %s' across two weeks.\n", product, product)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	default:
		direction := "improving"
		if trend.PFIChange > 0 {
			direction = "worsening"
		} else if trend.PFIChange == 0 {
			direction = "flat"
		}
		fmt.Printf("%s friction: %+.1f (%s), negative rate %+.1f%%\n",
			product, trend.PFIChange, direction, trend.NegativeRateChange)
	}

	snaps, err := st.RecentSnapshots(product, *weeks)
	if err != nil || len(snaps) == 0 {
		return
	}
	fmt.Println("\nweek      pfi    neg%   signals")
	for _, s := range snaps {
		fmt.Printf("%-9s %-6.1f %-6.1f %d\n", s.WeekID, s.PFI, s.NegativeRate, s.TotalSignals)
	}
}
