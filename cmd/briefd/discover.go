package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/infblueocean/briefd/internal/discovery"
)

func runDiscover() {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: briefd discover <product>")
		os.Exit(1)
	}

	cfg := loadConfig()
	st := openDB()
	defer st.Close()

	registry := discovery.NewRegistry(st, cfg.KnownApps, cfg.Sources.UserAgent)
	p, err := registry.Discover(context.Background(), name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", p.Name, p.NormalizedName)
	if p.Category != "" {
		fmt.Printf("  category:   %s\n", p.Category)
	}
	if p.PlayStoreID != "" {
		fmt.Printf("  play store: %s\n", p.PlayStoreID)
	} else {
		fmt.Println("  play store: not found")
	}
	if p.AppStoreID != "" {
		fmt.Printf("  app store:  %s", p.AppStoreID)
		if p.AppStoreRating > 0 {
			fmt.Printf(" (%.1f stars)", p.AppStoreRating)
		}
		fmt.Println()
	} else {
		fmt.Println("  app store:  not found")
	}
}
