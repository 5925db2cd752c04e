package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/infblueocean/briefd/internal/compare"
	"github.com/infblueocean/briefd/internal/store"
)

func runCompare() {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit the comparison as JSON")
	fs.Parse(os.Args[1:])

	product := strings.TrimSpace(fs.Arg(0))
	competitor := strings.TrimSpace(fs.Arg(1))
	if product == "" || competitor == "" {
		fmt.Fprintln(os.Stderr, "usage: briefd compare [flags] <product> <competitor>")
		os.Exit(1)
	}

	st := openDB()
	defer st.Close()

	cmp, err := compare.Products(st, product, competitor)
	if errors.Is(err, store.ErrMissingSnapshot) {
		fmt.Fprintf(os.Stderr, "error: %v\nRun 'briefd run <product>' for both products first.\n", err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(cmp)
		return
	}

	fmt.Printf("%s (%s) vs %s (%s)\n", product, cmp.ProductWeek, competitor, cmp.CompetitorWeek)
	fmt.Printf("friction delta: %+.1f  negative rate delta: %+.1f%%\n\n", cmp.PFIDelta, cmp.NegativeRateDelta)

	if len(cmp.Dimensions) == 0 {
		fmt.Println("No theme history on either side yet.")
		return
	}
	fmt.Println("dimension      you  them  gap")
	for _, d := range cmp.Dimensions {
		fmt.Printf("%-14s %-4d %-5d %+d\n", d.Bucket, d.ProductFreq, d.CompetitorFreq, d.Gap)
	}
}
