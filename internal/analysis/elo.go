// Package analysis implements the Elo match-outcome and betting-value model.
package analysis

import "math"

// EloScale is the rating difference at which the stronger side is a 10:1 favourite
const EloScale = 400.0

// Probabilities returns the win probabilities of both sides as fractions.
// prob2 is derived from prob1, so the pair always sums to one.
func Probabilities(rating1, rating2 float64) (prob1, prob2 float64) {
	if rating1 == rating2 {
		return 0.5, 0.5
	}
	prob1 = 1 / (1 + math.Pow(10, -(rating1-rating2)/EloScale))
	return prob1, 1 - prob1
}

// ExpectedValue returns the expected profit of a unit stake as a percentage.
// The caller guarantees probability in (0,1) and decimalOdds > 0.
func ExpectedValue(probability, decimalOdds float64) float64 {
	return (probability*decimalOdds - 1) * 100
}

// FairOdds returns the break-even decimal odds implied by probability
func FairOdds(probability float64) float64 {
	if probability <= 0 {
		return math.Inf(1)
	}
	return 1 / probability
}
