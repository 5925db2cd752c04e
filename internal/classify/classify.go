// Package classify annotates raw signals with sentiment, category and
// context via the oracle. It batches signals to bound prompt size and keep
// the failure blast radius small: a failed batch leaves its signals
// unannotated and the run continues.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/signal"
)

// DefaultBatchSize is the number of signals per oracle call.
const DefaultBatchSize = 25

// DefaultCharBudget caps the text carried per signal in the prompt.
const DefaultCharBudget = 300

const systemPrompt = `You label user feedback about software products. ` +
	`Respond with ONLY a JSON array, no prose.`

// Classifier runs the sentiment classification stage.
type Classifier struct {
	provider   oracle.Provider
	batchSize  int
	charBudget int
	maxTokens  int
}

// New creates a Classifier. A nil provider is allowed; classification then
// degrades to a pass-through and the lexical fallback carries the pipeline.
func New(provider oracle.Provider, batchSize, maxTokens int) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Classifier{
		provider:   provider,
		batchSize:  batchSize,
		charBudget: DefaultCharBudget,
		maxTokens:  maxTokens,
	}
}

// Classify annotates signals in place and returns the same slice: same
// length, same order, nothing dropped. It never returns an error; total
// oracle failure degrades to an all-unannotated pass-through.
func (c *Classifier) Classify(ctx context.Context, sigs []signal.Raw) []signal.Raw {
	if c.provider == nil || !c.provider.Available() {
		logging.Warn("No oracle provider for classification, passing signals through")
		return sigs
	}

	for start := 0; start < len(sigs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(sigs) {
			end = len(sigs)
		}
		if err := c.classifyBatch(ctx, sigs[start:end]); err != nil {
			logging.Warn("Classification batch skipped",
				"start", start, "size", end-start, "error", err)
		}
	}

	return sigs
}

// classifyBatch annotates one batch. The oracle contract is a JSON array of
// {id, sentiment, category, context} keyed by batch-local index; entries
// with out-of-range or malformed ids are skipped, not fatal.
func (c *Classifier) classifyBatch(ctx context.Context, batch []signal.Raw) error {
	resp, err := c.provider.Generate(ctx, oracle.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   c.buildPrompt(batch),
		MaxTokens:    c.maxTokens,
	})
	if err != nil {
		return fmt.Errorf("oracle call failed: %w", err)
	}

	raw, err := oracle.ExtractJSONArray(resp.Content)
	if err != nil {
		return err
	}

	var entries []struct {
		ID        *int   `json:"id"`
		Sentiment string `json:"sentiment"`
		Category  string `json:"category"`
		Context   string `json:"context"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return fmt.Errorf("%w: %v", oracle.ErrMalformedOutput, err)
	}

	applied := 0
	for _, e := range entries {
		if e.ID == nil || *e.ID < 0 || *e.ID >= len(batch) {
			continue
		}
		s := normalizeSentiment(e.Sentiment)
		if s == "" {
			continue
		}
		batch[*e.ID].Sentiment = s
		batch[*e.ID].Category = strings.ToLower(strings.TrimSpace(e.Category))
		batch[*e.ID].Context = strings.ToLower(strings.TrimSpace(e.Context))
		applied++
	}

	logging.Debug("Classification batch applied",
		"batch_size", len(batch), "entries", len(entries), "applied", applied)
	return nil
}

// buildPrompt renders the compact numbered-text representation of a batch.
func (c *Classifier) buildPrompt(batch []signal.Raw) string {
	var b strings.Builder
	b.WriteString("Classify each feedback item. For every item return ")
	b.WriteString(`{"id": <number>, "sentiment": "negative"|"mixed"|"positive", `)
	b.WriteString(`"category": "bug"|"ux"|"performance"|"pricing"|"feature-request"|"praise"|"other", `)
	b.WriteString(`"context": "mobile"|"desktop"|"onboarding"|"ai"|"general"}. `)
	b.WriteString("Respond with a JSON array only.\n\n")

	for i, s := range batch {
		text := s.Text
		if s.Title != "" && !strings.HasPrefix(text, s.Title) {
			text = s.Title + " " + text
		}
		if len(text) > c.charBudget {
			text = text[:c.charBudget]
		}
		fmt.Fprintf(&b, "%d. %s\n", i, text)
	}

	return b.String()
}

// normalizeSentiment maps an oracle label onto the known sentiment set,
// returning "" for anything unrecognized.
func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case signal.SentimentNegative:
		return signal.SentimentNegative
	case signal.SentimentMixed:
		return signal.SentimentMixed
	case signal.SentimentPositive:
		return signal.SentimentPositive
	}
	return ""
}
