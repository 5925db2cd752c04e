package signal

import "strings"

// negativeMarkers is the fixed lexical fallback set. A signal the oracle
// never labeled still counts as negative when its text contains one of
// these, so total oracle outage cannot hide an obviously unhappy corpus.
var negativeMarkers = []string{
	"bug",
	"slow",
	"broken",
	"confusing",
	"lost",
	"crash",
	"frustrating",
	"annoying",
	"terrible",
	"unusable",
	"glitch",
}

// IsNegative reports whether a signal counts as negative for downstream
// filtering. Labeled signals are trusted; unlabeled signals fall back to the
// lexical marker set. A signal labeled mixed or positive is never negative.
func IsNegative(s Raw) bool {
	if s.Sentiment != "" {
		return s.Sentiment == SentimentNegative
	}
	text := strings.ToLower(s.Text)
	for _, marker := range negativeMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// FilterNegative returns the negative subset of signals in input order.
func FilterNegative(sigs []Raw) []Raw {
	result := make([]Raw, 0, len(sigs))
	for _, s := range sigs {
		if IsNegative(s) {
			result = append(result, s)
		}
	}
	return result
}
