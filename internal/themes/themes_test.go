package themes

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/signal"
)

type cannedProvider struct {
	content string
	err     error
}

func (p cannedProvider) Name() string    { return "canned" }
func (p cannedProvider) Available() bool { return true }
func (p cannedProvider) Generate(_ context.Context, _ oracle.Request) (oracle.Response, error) {
	if p.err != nil {
		return oracle.Response{}, p.err
	}
	return oracle.Response{Content: p.content}, nil
}

func negatives(n int) []signal.Raw {
	sigs := make([]signal.Raw, n)
	for i := range sigs {
		sigs[i] = signal.Raw{
			Text:      "complaint number " + string(rune('a'+i)),
			Sentiment: signal.SentimentNegative,
		}
	}
	return sigs
}

func TestSynthesizeIndicesVariant(t *testing.T) {
	p := cannedProvider{content: `Here are the themes:
[{"name": "Sync data loss", "emotional_intensity": 9, "primary_segment": "Mobile users",
  "root_cause_hypothesis": "Conflict resolution drops offline edits", "journey_criticality": 9,
  "indices": [0, 1, 2, 99]}]`}

	sigs := negatives(4)
	got := New(p, 8, 8, 0).Synthesize(context.Background(), sigs)

	if len(got) != 1 {
		t.Fatalf("expected 1 theme, got %d", len(got))
	}
	th := got[0]
	if th.Frequency != 3 {
		t.Errorf("frequency should count valid indices only, got %d", th.Frequency)
	}
	if len(th.EvidenceQuotes) != 3 {
		t.Errorf("expected 3 evidence quotes, got %d", len(th.EvidenceQuotes))
	}
	if th.EvidenceQuotes[0] != sigs[0].Text {
		t.Errorf("quotes should be verbatim signal texts")
	}
	if len(th.RecommendedActions) == 0 {
		t.Error("expected remediation actions")
	}
}

func TestSynthesizeQuotesVariant(t *testing.T) {
	p := cannedProvider{content: `[{"name": "Slow startup", "emotional_intensity": 6,
	  "journey_criticality": 7, "root_cause_hypothesis": "App performance degrades on large workspaces",
	  "quotes": ["takes forever to open", "startup is painful"]}]`}

	got := New(p, 8, 8, 0).Synthesize(context.Background(), negatives(10))

	if len(got) != 1 {
		t.Fatalf("expected 1 theme, got %d", len(got))
	}
	th := got[0]
	if th.Frequency != 2 {
		t.Errorf("quotes variant should derive frequency from quote count, got %d", th.Frequency)
	}
	if len(th.EvidenceQuotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(th.EvidenceQuotes))
	}
}

func TestSynthesizeSortsByImpactStable(t *testing.T) {
	p := cannedProvider{content: `[
	  {"name": "Minor", "emotional_intensity": 2, "journey_criticality": 2, "indices": [0]},
	  {"name": "Major", "emotional_intensity": 9, "journey_criticality": 9, "indices": [0, 1, 2]},
	  {"name": "AlsoMinor", "emotional_intensity": 2, "journey_criticality": 2, "indices": [0]}]`}

	got := New(p, 8, 8, 0).Synthesize(context.Background(), negatives(3))

	if len(got) != 3 {
		t.Fatalf("expected 3 themes, got %d", len(got))
	}
	if got[0].Name != "Major" {
		t.Errorf("highest impact first, got %s", got[0].Name)
	}
	// Equal scores keep oracle order.
	if got[1].Name != "Minor" || got[2].Name != "AlsoMinor" {
		t.Errorf("tie should preserve order: %s, %s", got[1].Name, got[2].Name)
	}
}

func TestSynthesizeCapsThemes(t *testing.T) {
	content := `[`
	for i := 0; i < 12; i++ {
		if i > 0 {
			content += ","
		}
		content += `{"name": "t", "emotional_intensity": 5, "journey_criticality": 5, "indices": [0]}`
	}
	content += `]`

	got := New(cannedProvider{content: content}, 8, 8, 0).Synthesize(context.Background(), negatives(2))
	if len(got) != 8 {
		t.Errorf("expected cap of 8 themes, got %d", len(got))
	}
}

func TestSynthesizeFailureYieldsEmpty(t *testing.T) {
	cases := map[string]cannedProvider{
		"oracle error":   {err: errors.New("timeout")},
		"no JSON":        {content: "I could not find any themes."},
		"unclosed array": {content: `[{"name": "x"`},
	}

	for name, p := range cases {
		if got := New(p, 8, 8, 0).Synthesize(context.Background(), negatives(3)); len(got) != 0 {
			t.Errorf("%s: expected empty themes, got %d", name, len(got))
		}
	}
}

func TestSynthesizeEmptyInput(t *testing.T) {
	p := cannedProvider{content: `[]`}
	if got := New(p, 8, 8, 0).Synthesize(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no themes for empty input")
	}
}

func TestImpactScore(t *testing.T) {
	// 0.4*10*(5/10) + 0.3*8 + 0.3*6 = 2 + 2.4 + 1.8
	got := ImpactScore(5, 10, 8, 6)
	if math.Abs(got-6.2) > 1e-9 {
		t.Errorf("expected 6.2, got %f", got)
	}
}

func TestImpactScoreZeroTotal(t *testing.T) {
	got := ImpactScore(0, 0, 0, 0)
	if got != 0 {
		t.Errorf("expected 0 for empty set, got %f", got)
	}
}

func TestEmergingRiskBoundary(t *testing.T) {
	cases := []struct {
		intensity, frequency int
		want                 bool
	}{
		{8, 3, true},
		{7, 3, false},
		{8, 4, false},
		{10, 1, true},
	}

	for _, c := range cases {
		ts := []signal.Theme{{Name: "t", EmotionalIntensity: c.intensity, Frequency: c.frequency}}
		got := len(EmergingRisks(ts)) == 1
		if got != c.want {
			t.Errorf("intensity=%d frequency=%d: emerging=%v, want %v",
				c.intensity, c.frequency, got, c.want)
		}
	}
}

func TestOpportunities(t *testing.T) {
	sigs := []signal.Raw{
		{Text: "I wish it had offline mode"},
		{Text: "works fine"},
		{Text: "Would LOVE a dark theme"},
	}

	got := Opportunities(sigs)
	if len(got) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(got))
	}
	if got[0] != "I wish it had offline mode" {
		t.Errorf("opportunities must be verbatim, got %q", got[0])
	}
}

func TestOpportunitiesCap(t *testing.T) {
	var sigs []signal.Raw
	for i := 0; i < 10; i++ {
		sigs = append(sigs, signal.Raw{Text: "I wish this did more"})
	}
	if got := Opportunities(sigs); len(got) != 5 {
		t.Errorf("expected cap of 5, got %d", len(got))
	}
}

func TestRecommendActionsKeywordRouting(t *testing.T) {
	perf := RecommendActions("Backend latency spikes under load")
	if perf[0] != remediationRules[0].actions[0] {
		t.Errorf("latency root cause should route to performance actions")
	}

	nav := RecommendActions("Users cannot find the export menu")
	if nav[0] != remediationRules[1].actions[0] {
		t.Errorf("navigation root cause should route to UX actions")
	}

	def := RecommendActions("Something entirely unrelated")
	if def[0] != defaultActions[0] {
		t.Errorf("unknown root cause should route to default actions")
	}
}
