package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/signal"
)

// scriptedProvider returns one canned response per call, in order.
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (p *scriptedProvider) Name() string    { return "scripted" }
func (p *scriptedProvider) Available() bool { return true }
func (p *scriptedProvider) Generate(_ context.Context, req oracle.Request) (oracle.Response, error) {
	i := p.calls
	p.calls++
	p.prompts = append(p.prompts, req.UserPrompt)
	if i < len(p.errs) && p.errs[i] != nil {
		return oracle.Response{}, p.errs[i]
	}
	if i < len(p.responses) {
		return oracle.Response{Content: p.responses[i]}, nil
	}
	return oracle.Response{Content: "[]"}, nil
}

func someSignals(n int) []signal.Raw {
	sigs := make([]signal.Raw, n)
	for i := range sigs {
		sigs[i] = signal.Raw{
			URL:  fmt.Sprintf("http://example.com/%d", i),
			Text: fmt.Sprintf("feedback item %d", i),
		}
	}
	return sigs
}

func TestClassifyAppliesAnnotations(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`Here you go:
[{"id": 0, "sentiment": "negative", "category": "bug", "context": "mobile"},
 {"id": 1, "sentiment": "positive", "category": "praise", "context": "general"}]`,
	}}

	sigs := someSignals(2)
	got := New(p, 25, 0).Classify(context.Background(), sigs)

	if len(got) != 2 {
		t.Fatalf("length changed: %d", len(got))
	}
	if got[0].Sentiment != signal.SentimentNegative || got[0].Category != "bug" || got[0].Context != "mobile" {
		t.Errorf("first signal not annotated: %+v", got[0])
	}
	if got[1].Sentiment != signal.SentimentPositive {
		t.Errorf("second signal not annotated: %+v", got[1])
	}
}

func TestClassifySkipsOutOfRangeAndMalformedIDs(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`[{"id": 0, "sentiment": "negative"},
		  {"id": 99, "sentiment": "negative"},
		  {"sentiment": "negative"},
		  {"id": 1, "sentiment": "angry"}]`,
	}}

	sigs := someSignals(2)
	got := New(p, 25, 0).Classify(context.Background(), sigs)

	if got[0].Sentiment != signal.SentimentNegative {
		t.Errorf("valid entry not applied")
	}
	if got[1].Sentiment != "" {
		t.Errorf("unknown sentiment label should be skipped, got %q", got[1].Sentiment)
	}
}

func TestClassifyBatchFailureLeavesSignalsUnannotated(t *testing.T) {
	p := &scriptedProvider{
		errs: []error{errors.New("network down"), nil},
		responses: []string{
			"",
			`[{"id": 0, "sentiment": "mixed"}]`,
		},
	}

	sigs := someSignals(4)
	got := New(p, 3, 0).Classify(context.Background(), sigs) // 2 batches: 3 + 1

	if len(got) != 4 {
		t.Fatalf("signals dropped: %d", len(got))
	}
	for i := 0; i < 3; i++ {
		if got[i].Sentiment != "" {
			t.Errorf("failed batch signal %d should stay unannotated", i)
		}
	}
	if got[3].Sentiment != signal.SentimentMixed {
		t.Errorf("second batch should still be classified, got %q", got[3].Sentiment)
	}
}

func TestClassifyMalformedResponseSkipsBatch(t *testing.T) {
	p := &scriptedProvider{responses: []string{"I cannot classify these, sorry."}}

	sigs := someSignals(2)
	got := New(p, 25, 0).Classify(context.Background(), sigs)

	for i, s := range got {
		if s.Sentiment != "" {
			t.Errorf("signal %d annotated from malformed response", i)
		}
	}
}

func TestClassifyNilProviderPassThrough(t *testing.T) {
	sigs := someSignals(3)
	got := New(nil, 25, 0).Classify(context.Background(), sigs)

	if len(got) != 3 {
		t.Fatalf("pass-through changed length: %d", len(got))
	}
	for _, s := range got {
		if s.Sentiment != "" {
			t.Errorf("pass-through should not annotate")
		}
	}
}

func TestClassifyBatchesBoundPromptSize(t *testing.T) {
	p := &scriptedProvider{}
	sigs := someSignals(60)
	New(p, 25, 0).Classify(context.Background(), sigs)

	if p.calls != 3 {
		t.Errorf("expected 3 batches for 60 signals, got %d", p.calls)
	}
}
