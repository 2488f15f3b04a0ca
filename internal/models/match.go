package models

// MatchInput is a validated pairing of two participants and their decimal odds
type MatchInput struct {
	Player1 string  `json:"player1"`
	Rating1 float64 `json:"rating1"`
	Odds1   float64 `json:"odds1"`
	Player2 string  `json:"player2"`
	Rating2 float64 `json:"rating2"`
	Odds2   float64 `json:"odds2"`
}

// Verdict classifies a recommendation
type Verdict string

const (
	// VerdictValueBet means one side clears the value threshold
	VerdictValueBet Verdict = "value_bet"
	// VerdictNoValue means both sides have negative expected value
	VerdictNoValue Verdict = "no_value"
	// VerdictBelowThreshold means the better side does not clear the threshold
	VerdictBelowThreshold Verdict = "below_threshold"
)

// AnalysisResult is the outcome of one match analysis.
// Probabilities and expected values are percentages.
type AnalysisResult struct {
	Participant1           string  `json:"participant1"`
	Participant2           string  `json:"participant2"`
	Rating1                float64 `json:"rating1"`
	Rating2                float64 `json:"rating2"`
	Prob1                  float64 `json:"prob1"`
	Prob2                  float64 `json:"prob2"`
	EV1                    float64 `json:"ev1"`
	EV2                    float64 `json:"ev2"`
	Odds1                  float64 `json:"odds1"`
	Odds2                  float64 `json:"odds2"`
	Verdict                Verdict `json:"verdict"`
	RecommendedParticipant string  `json:"recommendedParticipant,omitempty"`
	Recommendation         string  `json:"recommendation"`
}

// IsValueBet reports whether the analysis found a value bet
func (r *AnalysisResult) IsValueBet() bool {
	return r.Verdict == VerdictValueBet
}
