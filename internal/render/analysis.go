package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/yourusername/elo-advisor/internal/models"
)

// barWidth is the number of cells in a probability bar
const barWidth = 40

// RenderAnalysis writes a match report: ratings, a probability bar, EV per
// side and the recommendation.
func RenderAnalysis(w io.Writer, result models.AnalysisResult, theme Theme) error {
	name1, name2 := pad(result.Participant1, result.Participant2)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", theme.paint(theme.Header, fmt.Sprintf("%s (%.1f) vs %s (%.1f)",
		result.Participant1, result.Rating1, result.Participant2, result.Rating2)))

	b.WriteString(theme.paint(theme.Muted, "Win probability") + "\n")
	fmt.Fprintf(&b, "  %s  %s  %6.2f%%\n", name1, bar(result.Prob1, theme), result.Prob1)
	fmt.Fprintf(&b, "  %s  %s  %6.2f%%\n\n", name2, bar(result.Prob2, theme), result.Prob2)

	b.WriteString(theme.paint(theme.Muted, "Expected value") + "\n")
	fmt.Fprintf(&b, "  %s  @ %5.2f  EV %s\n", name1, result.Odds1, theme.signed(result.EV1, fmt.Sprintf("%+.2f%%", result.EV1)))
	fmt.Fprintf(&b, "  %s  @ %5.2f  EV %s\n\n", name2, result.Odds2, theme.signed(result.EV2, fmt.Sprintf("%+.2f%%", result.EV2)))

	style := theme.Muted
	switch result.Verdict {
	case models.VerdictValueBet:
		style = theme.Positive
	case models.VerdictNoValue:
		style = theme.Negative
	}
	b.WriteString(theme.paint(style, result.Recommendation) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bar draws prob (a percentage) as a fixed width bar
func bar(prob float64, theme Theme) string {
	filled := int(math.Round(prob / 100 * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return theme.paint(theme.Accent, strings.Repeat(theme.Filled, filled)) + strings.Repeat(theme.Empty, barWidth-filled)
}

// pad right-pads both names to the same display width
func pad(a, b string) (string, string) {
	la, lb := len([]rune(a)), len([]rune(b))
	if la < lb {
		a += strings.Repeat(" ", lb-la)
	} else {
		b += strings.Repeat(" ", la-lb)
	}
	return a, b
}
