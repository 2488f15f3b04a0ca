package analysis

import (
	"github.com/yourusername/elo-advisor/internal/models"
)

// Analyzer turns validated match input into an AnalysisResult
type Analyzer struct {
	threshold float64
}

// NewAnalyzer creates an analyzer using the given value threshold.
// A non-positive threshold falls back to DefaultValueThreshold.
func NewAnalyzer(threshold float64) *Analyzer {
	if threshold <= 0 {
		threshold = DefaultValueThreshold
	}
	return &Analyzer{threshold: threshold}
}

// Threshold returns the value threshold in percentage points
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Analyze computes probabilities, expected values and a recommendation.
// It is total over validated input and never fails.
func (a *Analyzer) Analyze(in models.MatchInput) models.AnalysisResult {
	prob1, prob2 := Probabilities(in.Rating1, in.Rating2)
	ev1 := ExpectedValue(prob1, in.Odds1)
	ev2 := ExpectedValue(prob2, in.Odds2)
	rec := Recommend(ev1, ev2, in.Player1, in.Player2, a.threshold)

	return models.AnalysisResult{
		Participant1:           in.Player1,
		Participant2:           in.Player2,
		Rating1:                in.Rating1,
		Rating2:                in.Rating2,
		Prob1:                  prob1 * 100,
		Prob2:                  prob2 * 100,
		EV1:                    ev1,
		EV2:                    ev2,
		Odds1:                  in.Odds1,
		Odds2:                  in.Odds2,
		Verdict:                rec.Verdict,
		RecommendedParticipant: rec.Participant,
		Recommendation:         rec.Text,
	}
}
