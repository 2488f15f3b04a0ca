package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/render"
)

var (
	analyzeReq  analysis.MatchRequest
	rating1     float64
	rating2     float64
	odds1       string
	odds2       string
	analyzeJSON bool
)

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeReq.Player1, "player1", "", "First player")
	f.StringVar(&analyzeReq.Player2, "player2", "", "Second player")
	f.StringVar(&odds1, "odds1", "", "Decimal odds on the first player (1.85 or 1,85)")
	f.StringVar(&odds2, "odds2", "", "Decimal odds on the second player")
	f.Float64Var(&rating1, "rating1", 0, "Elo rating of the first player (looked up in the ranking when omitted)")
	f.Float64Var(&rating2, "rating2", 0, "Elo rating of the second player (looked up in the ranking when omitted)")
	f.BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a match for expected value",
	Example: `  elo-advisor analyze --player1 "Jannik Sinner" --player2 "Casper Ruud" --odds1 1.80 --odds2 2.10
  elo-advisor analyze --player1 A --player2 B --rating1 2000 --rating2 2000 --odds1 1.9 --odds2 1.9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := analyzeReq
		req.Odds1 = analysis.OddsInput(odds1)
		req.Odds2 = analysis.OddsInput(odds2)
		if cmd.Flags().Changed("rating1") {
			req.Rating1 = &rating1
		}
		if cmd.Flags().Changed("rating2") {
			req.Rating2 = &rating2
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout())
		defer cancel()

		ranking, err := newRankingService()
		if err != nil {
			return err
		}

		// The ranking is only fetched when a rating has to be looked up
		result, err := newAnalysisService(ranking).Analyze(ctx, req)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		theme, err := selectTheme(os.Stdout)
		if err != nil {
			return err
		}
		return render.RenderAnalysis(os.Stdout, result, theme)
	},
}
