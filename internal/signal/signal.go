// Package signal defines the core data model for the briefd pipeline:
// raw feedback signals, classification annotations, friction themes,
// and the report shapes the pipeline produces.
package signal

// Sentiment labels assigned by the classification stage. The empty string
// means the signal was never classified (oracle outage or skipped batch).
const (
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
	SentimentPositive = "positive"
)

// Category labels for classified signals.
const (
	CategoryBug            = "bug"
	CategoryUX             = "ux"
	CategoryPerformance    = "performance"
	CategoryPricing        = "pricing"
	CategoryFeatureRequest = "feature-request"
	CategoryPraise         = "praise"
	CategoryOther          = "other"
)

// Context tags for classified signals.
const (
	ContextMobile     = "mobile"
	ContextDesktop    = "desktop"
	ContextOnboarding = "onboarding"
	ContextAI         = "ai"
	ContextGeneral    = "general"
)

// Raw is one observed feedback item from a feed source.
// Sentiment, Category and Context start empty and are filled in by the
// classification stage; everything else is immutable after ingestion.
type Raw struct {
	Source string  // "reddit", "playstore", "appstore", "forum"
	Term   string  // search term that produced this signal
	Text   string  // title + body, capped by the source
	Title  string  // original title, may be empty for reviews
	Score  float64 // engagement/relevance score from the source
	URL    string  // canonical dedup key; empty means never deduplicated
	Date   string  // observation date, YYYY-MM-DD

	// Annotations added by the classification stage.
	Sentiment string
	Category  string
	Context   string
}

// Theme is a clustered friction insight produced by one synthesis run.
type Theme struct {
	Name                string   `json:"name"`
	Frequency           int      `json:"frequency"`
	EmotionalIntensity  int      `json:"emotional_intensity"`
	PrimarySegment      string   `json:"primary_segment"`
	RootCauseHypothesis string   `json:"root_cause_hypothesis"`
	JourneyCriticality  int      `json:"journey_criticality"`
	EvidenceQuotes      []string `json:"evidence_quotes"`
	BusinessImpactScore float64  `json:"business_impact_score"`
	RecommendedActions  []string `json:"recommended_actions"`
}

// Summary is the signal-health rollup attached to a report.
type Summary struct {
	Total            int     `json:"total"`
	NegativeRate     float64 `json:"negative_rate"` // percent, one decimal
	PerformanceCount int     `json:"performance_count"`
	MobileCount      int     `json:"mobile_count"`
}

// Report is the single-product pipeline output.
type Report struct {
	Themes        []Theme  `json:"themes"`
	EmergingRisks []Theme  `json:"emerging_risks"`
	Opportunities []string `json:"opportunities"`
	Summary       Summary  `json:"summary"`
	SignalCount   int      `json:"signal_count"`
}

// ProductResult is one product's slice of a competitive report.
type ProductResult struct {
	Themes  []Theme `json:"themes"`
	Summary Summary `json:"summary"`
}

// ThemeComparison is the set difference between two products' theme names.
type ThemeComparison struct {
	Shared             []string `json:"shared"`
	UniqueToProduct    []string `json:"unique_to_product"`
	UniqueToCompetitor []string `json:"unique_to_competitor"`
}

// CompetitiveReport is the extended pipeline output when competitors are
// supplied.
type CompetitiveReport struct {
	Product     ProductResult              `json:"product"`
	Competitors map[string]ProductResult   `json:"competitors"`
	Comparisons map[string]ThemeComparison `json:"comparisons"`
}
