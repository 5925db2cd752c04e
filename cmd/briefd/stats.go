package main

import (
	"flag"
	"fmt"
	"os"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	products, err := st.Products()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(products) == 0 {
		fmt.Println("No products tracked yet. Start with 'briefd run <product>'.")
		return
	}

	fmt.Printf("Tracked products: %d\n\n", len(products))
	fmt.Println("product          signals  latest week  pfi    neg%")
	for _, p := range products {
		n, _ := st.CountSignals(p.Name)
		snap, err := st.LatestSnapshot(p.Name)
		if err != nil {
			fmt.Printf("%-16s %-8d -\n", p.Name, n)
			continue
		}
		fmt.Printf("%-16s %-8d %-12s %-6.1f %.1f\n",
			p.Name, n, snap.WeekID, snap.PFI, snap.NegativeRate)
	}
}
