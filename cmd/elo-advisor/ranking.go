package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/elo-advisor/internal/render"
)

var (
	rankingTop  int
	rankingJSON bool
)

func init() {
	rankingCmd.Flags().IntVarP(&rankingTop, "top", "n", 25, "Number of players to show (0 for all)")
	rankingCmd.Flags().BoolVar(&rankingJSON, "json", false, "Print the ranking as JSON")
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Fetch and print the current Elo ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout())
		defer cancel()

		ranking, err := newRankingService()
		if err != nil {
			return err
		}
		snapshot, _, err := ranking.Snapshot(ctx)
		if err != nil {
			return err
		}

		if rankingJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"totalEntities": snapshot.Len(),
				"ranking":       snapshot.Top(topOrAll(rankingTop, snapshot.Len())),
			})
		}

		theme, err := selectTheme(os.Stdout)
		if err != nil {
			return err
		}
		return render.RenderRanking(os.Stdout, snapshot, rankingTop, theme)
	},
}

func topOrAll(n, total int) int {
	if n <= 0 {
		return total
	}
	return n
}
