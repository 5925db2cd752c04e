// Package themes clusters negative signals into named friction themes via a
// single oracle call, scores them for business impact, and derives emerging
// risks and opportunity signals.
package themes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/signal"
)

// DefaultMaxThemes caps the themes kept per synthesis run.
const DefaultMaxThemes = 8

// DefaultMaxQuotes caps evidence quotes per theme.
const DefaultMaxQuotes = 8

const systemPrompt = `You cluster user complaints about a software product ` +
	`into structural friction themes. Respond with ONLY a JSON array, no prose.`

// Synthesizer runs the theme synthesis stage.
type Synthesizer struct {
	provider  oracle.Provider
	maxThemes int
	maxQuotes int
	maxTokens int
}

// New creates a Synthesizer. A nil provider yields empty theme lists.
func New(provider oracle.Provider, maxThemes, maxQuotes, maxTokens int) *Synthesizer {
	if maxThemes <= 0 {
		maxThemes = DefaultMaxThemes
	}
	if maxQuotes <= 0 {
		maxQuotes = DefaultMaxQuotes
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Synthesizer{
		provider:  provider,
		maxThemes: maxThemes,
		maxQuotes: maxQuotes,
		maxTokens: maxTokens,
	}
}

// themeEntry is the wire shape of one clustered theme. The oracle has two
// evolving response variants: quotes-embedded and indices-referencing. Both
// are accepted here and normalized immediately; the variance never leaves
// this parser.
type themeEntry struct {
	Name                string   `json:"name"`
	Frequency           int      `json:"frequency"`
	EmotionalIntensity  int      `json:"emotional_intensity"`
	PrimarySegment      string   `json:"primary_segment"`
	RootCauseHypothesis string   `json:"root_cause_hypothesis"`
	JourneyCriticality  int      `json:"journey_criticality"`
	Quotes              []string `json:"quotes,omitempty"`
	Indices             []int    `json:"indices,omitempty"`
}

// Synthesize clusters the negative-sentiment subset into ranked themes.
// Any oracle or parse failure returns an empty list: themes are
// all-or-nothing per call, never partial.
func (s *Synthesizer) Synthesize(ctx context.Context, negatives []signal.Raw) []signal.Theme {
	if len(negatives) == 0 {
		return nil
	}
	if s.provider == nil || !s.provider.Available() {
		logging.Warn("No oracle provider for theme synthesis")
		return nil
	}

	resp, err := s.provider.Generate(ctx, oracle.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   s.buildPrompt(negatives),
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		logging.Warn("Theme synthesis oracle call failed", "error", err)
		return nil
	}

	raw, err := oracle.ExtractJSONArray(resp.Content)
	if err != nil {
		logging.Warn("Theme synthesis response malformed", "error", err)
		return nil
	}

	var entries []themeEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logging.Warn("Theme synthesis response malformed", "error", err)
		return nil
	}

	if len(entries) > s.maxThemes {
		entries = entries[:s.maxThemes]
	}

	themes := make([]signal.Theme, 0, len(entries))
	for _, e := range entries {
		themes = append(themes, s.normalize(e, negatives))
	}

	// Stable sort by impact descending; equal scores keep oracle order.
	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].BusinessImpactScore > themes[j].BusinessImpactScore
	})

	logging.Info("Themes synthesized", "count", len(themes), "negatives", len(negatives))
	return themes
}

// normalize converts a wire entry into the canonical Theme, resolving the
// quotes-vs-indices variance and computing derived fields.
func (s *Synthesizer) normalize(e themeEntry, negatives []signal.Raw) signal.Theme {
	var quotes []string
	frequency := e.Frequency

	if len(e.Indices) > 0 {
		// Canonical variant: frequency is derived from the contributing
		// signals, not trusted from the model.
		valid := 0
		for _, idx := range e.Indices {
			if idx < 0 || idx >= len(negatives) {
				continue
			}
			valid++
			if len(quotes) < s.maxQuotes {
				quotes = append(quotes, negatives[idx].Text)
			}
		}
		frequency = valid
	} else if len(e.Quotes) > 0 {
		quotes = e.Quotes
		if len(quotes) > s.maxQuotes {
			quotes = quotes[:s.maxQuotes]
		}
		if frequency == 0 {
			frequency = len(e.Quotes)
		}
	}

	intensity := clamp(e.EmotionalIntensity, 1, 10)
	criticality := clamp(e.JourneyCriticality, 1, 10)

	return signal.Theme{
		Name:                strings.TrimSpace(e.Name),
		Frequency:           frequency,
		EmotionalIntensity:  intensity,
		PrimarySegment:      strings.TrimSpace(e.PrimarySegment),
		RootCauseHypothesis: strings.TrimSpace(e.RootCauseHypothesis),
		JourneyCriticality:  criticality,
		EvidenceQuotes:      quotes,
		BusinessImpactScore: ImpactScore(frequency, len(negatives), intensity, criticality),
		RecommendedActions:  RecommendActions(e.RootCauseHypothesis),
	}
}

// ImpactScore is the weighted business impact of a theme: normalized
// frequency, emotional intensity and journey criticality. Defined for every
// input; an empty negative set zeroes the frequency term.
func ImpactScore(frequency, totalNegatives, intensity, criticality int) float64 {
	freqTerm := 0.0
	if totalNegatives > 0 {
		freqTerm = 0.4 * 10 * (float64(frequency) / float64(totalNegatives))
	}
	return freqTerm + 0.3*float64(intensity) + 0.3*float64(criticality)
}

// buildPrompt renders the indexed representation of the negative subset.
func (s *Synthesizer) buildPrompt(negatives []signal.Raw) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cluster these %d complaints into at most %d friction themes. ", len(negatives), s.maxThemes)
	b.WriteString("For each theme return ")
	b.WriteString(`{"name": <short name>, "emotional_intensity": 1-10, `)
	b.WriteString(`"primary_segment": <audience>, "root_cause_hypothesis": <one sentence>, `)
	b.WriteString(`"journey_criticality": 1-10, "indices": [<contributing item numbers>]}. `)
	b.WriteString("Respond with a JSON array only.\n\n")

	for i, sig := range negatives {
		text := sig.Text
		if len(text) > 300 {
			text = text[:300]
		}
		fmt.Fprintf(&b, "%d. %s\n", i, text)
	}

	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
