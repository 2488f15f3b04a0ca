package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yourusername/elo-advisor/internal/models"
)

// highlightTop is how many leading rows get the accent style
const highlightTop = 3

// RenderRanking writes the first limit entities as a rank/name/Elo table.
// A limit <= 0 renders the whole snapshot.
func RenderRanking(w io.Writer, snapshot *models.RankingSnapshot, limit int, theme Theme) error {
	return renderRanking(w, snapshot, limit, theme, time.Now())
}

func renderRanking(w io.Writer, snapshot *models.RankingSnapshot, limit int, theme Theme, now time.Time) error {
	if limit <= 0 {
		limit = snapshot.Len()
	}
	entities := snapshot.Top(limit)

	// Align first, colour whole lines afterwards so ANSI codes never skew widths
	var table bytes.Buffer
	tw := tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tPlayer\tElo\t")
	for _, e := range entities {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t\n", e.Rank, e.Name, e.Rating)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to format ranking: %w", err)
	}

	var out strings.Builder
	lines := strings.Split(strings.TrimRight(table.String(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = theme.paint(theme.Header, line)
		case i <= highlightTop:
			line = theme.paint(theme.Accent, line)
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	footer := fmt.Sprintf("%s of %s players", humanize.Comma(int64(len(entities))), humanize.Comma(int64(snapshot.Len())))
	if snapshot != nil && snapshot.Source != "" {
		footer += " from " + snapshot.Source
	}
	if snapshot != nil && !snapshot.FetchedAt.IsZero() {
		footer += ", fetched " + humanize.RelTime(snapshot.FetchedAt, now, "ago", "from now")
	}
	out.WriteString(theme.paint(theme.Muted, footer))
	out.WriteByte('\n')

	_, err := io.WriteString(w, out.String())
	return err
}
