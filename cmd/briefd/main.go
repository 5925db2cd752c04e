// Command briefd is the signal synthesis CLI: it listens for user feedback
// about a product across app stores, Reddit and forums, distills it into
// friction themes, and tracks how friction moves week over week.
//
// Usage:
//
//	briefd                       Show help
//	briefd run <product>         Run the full pipeline for a product
//	briefd compare <a> <b>       Head-to-head friction comparison
//	briefd trend <product>       Week-over-week friction trend
//	briefd discover <product>    Resolve app store identities
//	briefd serve                 Start the HTTP API
//	briefd ui                    Interactive terminal report
//	briefd stats                 Database statistics
package main

import (
	"fmt"
	"os"

	"github.com/infblueocean/briefd/internal/logging"
)

const usage = `briefd — user feedback signal synthesis

Usage:
  briefd <command> [flags]

Commands:
  run         Run the full pipeline for a product (gather, classify, synthesize)
  compare     Head-to-head friction comparison of two products
  trend       Week-over-week friction trend for a product
  discover    Resolve a product's app store identities
  serve       Start the HTTP API
  ui          Interactive terminal report
  stats       Database statistics

Environment:
  ANTHROPIC_API_KEY   Claude API key (preferred oracle)
  OLLAMA_HOST         Ollama endpoint (fallback oracle)
  REDDIT_USER_AGENT   Override the Reddit user agent

Run 'briefd <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "briefd: logging init: %v\n", err)
	}
	defer logging.Close()

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "run":
		runRun()
	case "compare":
		runCompare()
	case "trend":
		runTrend()
	case "discover":
		runDiscover()
	case "serve":
		runServe()
	case "ui":
		runUI()
	case "stats":
		runStats()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "briefd: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
