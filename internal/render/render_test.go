package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elo-advisor/internal/models"
)

func testSnapshot(fetchedAt time.Time) *models.RankingSnapshot {
	return models.NewRankingSnapshot("tennis_abstract", []models.RankedEntity{
		{Rank: 1, Name: "Jannik Sinner", Rating: 2210.4},
		{Rank: 2, Name: "Carlos Alcaraz", Rating: 2185.9},
		{Rank: 3, Name: "Alexander Zverev", Rating: 2090},
		{Rank: 4, Name: "Novak Djokovic", Rating: 2101.2},
		{Rank: 5, Name: "Taylor Fritz", Rating: 1998.7},
	}, fetchedAt)
}

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"}, {"", "dark"}, {"LIGHT", "light"}, {" plain ", "plain"},
	}
	for _, tt := range tests {
		theme, err := ThemeByName(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, theme.Name)
	}

	_, err := ThemeByName("neon")
	assert.Error(t, err)
}

func TestRenderRankingPlain(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	require.NoError(t, renderRanking(&buf, testSnapshot(now.Add(-3*time.Minute)), 2, Plain, now))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Player")
	assert.Contains(t, lines[1], "Jannik Sinner")
	assert.Contains(t, lines[1], "2210.4")
	assert.Contains(t, lines[2], "Carlos Alcaraz")
	assert.Equal(t, "2 of 5 players from tennis_abstract, fetched 3 minutes ago", lines[3])

	// Columns are aligned
	assert.Equal(t, len(lines[1]), len(lines[2]))
}

func TestRenderRankingAllRowsAndColour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRanking(&buf, testSnapshot(time.Now()), 0, Dark))
	out := buf.String()

	assert.Contains(t, out, Dark.Header)
	assert.Contains(t, out, "Taylor Fritz")
	assert.Contains(t, out, "5 of 5 players")
}

func TestRenderRankingEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRanking(&buf, nil, 10, Plain))
	assert.Contains(t, buf.String(), "0 of 0 players")
}

func TestRenderAnalysis(t *testing.T) {
	result := models.AnalysisResult{
		Participant1: "Jannik Sinner", Participant2: "Casper Ruud",
		Rating1: 2200, Rating2: 2000,
		Prob1: 75.97, Prob2: 24.03,
		EV1: 36.75, EV2: -49.54,
		Odds1: 1.80, Odds2: 2.10,
		Verdict:                models.VerdictValueBet,
		RecommendedParticipant: "Jannik Sinner",
		Recommendation:         "VALUE bet identified on Jannik Sinner.",
	}

	var buf bytes.Buffer
	require.NoError(t, RenderAnalysis(&buf, result, Plain))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Jannik Sinner (2200.0) vs Casper Ruud (2000.0)")
	assert.Contains(t, out, strings.Repeat("#", 30)+strings.Repeat(".", 10))
	assert.Contains(t, out, " 75.97%")
	assert.Contains(t, out, "EV +36.75%")
	assert.Contains(t, out, "EV -49.54%")
	assert.Contains(t, out, "VALUE bet identified on Jannik Sinner.")

	buf.Reset()
	require.NoError(t, RenderAnalysis(&buf, result, Dark))
	assert.Contains(t, buf.String(), Dark.Positive+"+36.75%")
	assert.Contains(t, buf.String(), Dark.Negative+"-49.54%")
}

func TestBarBounds(t *testing.T) {
	assert.Equal(t, strings.Repeat(".", barWidth), bar(0, Plain))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(100, Plain))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(130, Plain))
	assert.Equal(t, strings.Repeat("#", 20)+strings.Repeat(".", 20), bar(50, Plain))
}
