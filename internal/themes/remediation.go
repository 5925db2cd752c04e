package themes

import "strings"

// remediationRule maps root-cause keywords to discovery actions. This is a
// deterministic lookup, not a model call.
type remediationRule struct {
	keywords []string
	actions  []string
}

var remediationRules = []remediationRule{
	{
		keywords: []string{"performance", "latency", "slow", "lag"},
		actions: []string{
			"Instrument the affected flows with real-user performance timings",
			"Profile the p95 path and set a latency budget before redesigning",
			"Reproduce on low-end devices and constrained networks",
		},
	},
	{
		keywords: []string{"navigation", "find", "menu", "discover"},
		actions: []string{
			"Run moderated usability sessions on the affected journeys",
			"Card-sort the information architecture with recent churned users",
			"Add funnel analytics to locate the abandonment step",
		},
	},
	{
		keywords: []string{"crash", "bug", "broken", "stability", "data loss"},
		actions: []string{
			"Correlate crash reports with the quoted user sessions",
			"Add regression coverage for the failing paths before shipping fixes",
			"Triage stability issues against release timeline",
		},
	},
	{
		keywords: []string{"price", "pricing", "cost", "billing", "subscription"},
		actions: []string{
			"Interview recent downgrades about perceived value",
			"Benchmark the plan structure against the named competitors",
			"Test value messaging before touching price points",
		},
	},
}

var defaultActions = []string{
	"Schedule discovery interviews with the affected segment",
	"Quantify reach with a targeted in-product survey",
	"Draft an opportunity-solution tree before committing roadmap time",
}

// RecommendActions selects remediation guidance by matching keywords in the
// root-cause hypothesis.
func RecommendActions(rootCause string) []string {
	lower := strings.ToLower(rootCause)
	for _, rule := range remediationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.actions
			}
		}
	}
	return defaultActions
}
