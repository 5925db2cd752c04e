package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/infblueocean/briefd/internal/signal"
)

func runRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit the report as JSON")
	vs := fs.String("vs", "", "Comma-separated competitors to compare against (max 3)")
	fs.Parse(os.Args[1:])

	product := strings.TrimSpace(fs.Arg(0))
	if product == "" {
		fmt.Fprintln(os.Stderr, "usage: briefd run [flags] <product>")
		os.Exit(1)
	}

	var competitors []string
	if *vs != "" {
		for _, c := range strings.Split(*vs, ",") {
			if c = strings.TrimSpace(c); c != "" {
				competitors = append(competitors, c)
			}
		}
	}
	if len(competitors) > 3 {
		fmt.Fprintln(os.Stderr, "error: at most 3 competitors")
		os.Exit(1)
	}

	cfg := loadConfig()
	st := openDB()
	defer st.Close()
	p := buildPipeline(cfg, st)
	ctx := context.Background()

	if len(competitors) > 0 {
		rep, err := p.RunCompetitive(ctx, product, competitors)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if *jsonOut {
			printJSON(rep)
			return
		}
		printCompetitiveReport(product, rep)
		return
	}

	rep, err := p.Run(ctx, product, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *jsonOut {
		printJSON(rep)
		return
	}
	printReport(product, rep)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func printReport(product string, rep signal.Report) {
	fmt.Printf("%s: %d signals, %.1f%% negative\n", product, rep.Summary.Total, rep.Summary.NegativeRate)
	fmt.Printf("performance mentions: %d, mobile mentions: %d\n\n",
		rep.Summary.PerformanceCount, rep.Summary.MobileCount)

	if len(rep.Themes) == 0 {
		fmt.Println("No friction themes synthesized (no oracle, or nothing negative this week).")
	}
	for i, th := range rep.Themes {
		fmt.Printf("%d. %s\n", i+1, th.Name)
		fmt.Printf("   freq %d, intensity %d/10, criticality %d/10, impact %.1f\n",
			th.Frequency, th.EmotionalIntensity, th.JourneyCriticality, th.BusinessImpactScore)
		if th.RootCauseHypothesis != "" {
			fmt.Printf("   root cause: %s\n", th.RootCauseHypothesis)
		}
		for _, q := range th.EvidenceQuotes {
			fmt.Printf("   > %s\n", q)
		}
		for _, a := range th.RecommendedActions {
			fmt.Printf("   * %s\n", a)
		}
	}

	if len(rep.EmergingRisks) > 0 {
		fmt.Println("\nEmerging risks:")
		for _, th := range rep.EmergingRisks {
			fmt.Printf("  ! %s (intensity %d, freq %d)\n", th.Name, th.EmotionalIntensity, th.Frequency)
		}
	}
	if len(rep.Opportunities) > 0 {
		fmt.Println("\nOpportunities:")
		for _, op := range rep.Opportunities {
			fmt.Printf("  + %s\n", op)
		}
	}
}

func printCompetitiveReport(product string, rep signal.CompetitiveReport) {
	fmt.Printf("%s: %d signals, %.1f%% negative\n\n",
		product, rep.Product.Summary.Total, rep.Product.Summary.NegativeRate)

	for name, res := range rep.Competitors {
		fmt.Printf("vs %s: %d signals, %.1f%% negative\n",
			name, res.Summary.Total, res.Summary.NegativeRate)
		cmp := rep.Comparisons[name]
		if len(cmp.Shared) > 0 {
			fmt.Printf("  shared pain: %s\n", strings.Join(cmp.Shared, ", "))
		}
		if len(cmp.UniqueToProduct) > 0 {
			fmt.Printf("  only %s: %s\n", product, strings.Join(cmp.UniqueToProduct, ", "))
		}
		if len(cmp.UniqueToCompetitor) > 0 {
			fmt.Printf("  only %s: %s\n", name, strings.Join(cmp.UniqueToCompetitor, ", "))
		}
		fmt.Println()
	}
}
