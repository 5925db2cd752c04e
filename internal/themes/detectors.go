package themes

import (
	"strings"

	"github.com/infblueocean/briefd/internal/signal"
)

// Emerging-risk boundary: high pain, low volume.
const (
	emergingIntensityMin = 8
	emergingFrequencyMax = 3
)

// maxOpportunities caps surfaced opportunity signals.
const maxOpportunities = 5

// aspirationalMarkers are the phrases that flag a signal as an opportunity.
// Lexical on purpose: opportunities are rare enough that precision beats
// recall here.
var aspirationalMarkers = []string{
	"wish",
	"would love",
	"would be great",
	"hope they add",
	"feature request",
}

// EmergingRisks filters themes that are high-intensity but still low
// frequency, flagging pain before it becomes volume. Order is preserved.
func EmergingRisks(ts []signal.Theme) []signal.Theme {
	result := make([]signal.Theme, 0, len(ts))
	for _, t := range ts {
		if t.EmotionalIntensity >= emergingIntensityMin && t.Frequency <= emergingFrequencyMax {
			result = append(result, t)
		}
	}
	return result
}

// Opportunities surfaces signals containing aspirational language, verbatim,
// capped to the first matches in input order.
func Opportunities(sigs []signal.Raw) []string {
	var result []string
	for _, s := range sigs {
		lower := strings.ToLower(s.Text)
		for _, marker := range aspirationalMarkers {
			if strings.Contains(lower, marker) {
				result = append(result, s.Text)
				break
			}
		}
		if len(result) >= maxOpportunities {
			break
		}
	}
	return result
}
