package analysis

import (
	"fmt"

	"github.com/yourusername/elo-advisor/internal/models"
)

// DefaultValueThreshold is the EV, in percentage points, a side must exceed to be a value bet
const DefaultValueThreshold = 5.0

// Recommendation is the qualitative outcome of comparing both sides' EV
type Recommendation struct {
	Verdict     models.Verdict
	Participant string
	EV          float64
	Text        string
}

// Recommend compares both expected values against threshold.
// On an exact EV tie below the threshold the first side is reported.
func Recommend(ev1, ev2 float64, name1, name2 string, threshold float64) Recommendation {
	switch {
	case ev1 > threshold && ev1 > ev2:
		return valueBet(name1, ev1)
	case ev2 > threshold && ev2 > ev1:
		return valueBet(name2, ev2)
	case ev1 < 0 && ev2 < 0:
		return Recommendation{
			Verdict: models.VerdictNoValue,
			EV:      max(ev1, ev2),
			Text:    "No value bet identified. Both players show negative expected value.",
		}
	}

	better, betterEV := name1, ev1
	if ev2 > ev1 {
		better, betterEV = name2, ev2
	}
	return Recommendation{
		Verdict:     models.VerdictBelowThreshold,
		Participant: better,
		EV:          betterEV,
		Text: fmt.Sprintf("%s shows the better EV (%.2f%%), but it is below the ideal threshold (%.0f%%). Proceed with caution.",
			better, betterEV, threshold),
	}
}

func valueBet(name string, ev float64) Recommendation {
	return Recommendation{
		Verdict:     models.VerdictValueBet,
		Participant: name,
		EV:          ev,
		Text: fmt.Sprintf("VALUE bet identified on %s. The positive expected value of %.2f%% indicates the odds are favourable.",
			name, ev),
	}
}
