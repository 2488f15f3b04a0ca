package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/config"
	"github.com/yourusername/elo-advisor/internal/datasource"
	"github.com/yourusername/elo-advisor/internal/logger"
	"github.com/yourusername/elo-advisor/internal/render"
	"github.com/yourusername/elo-advisor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	themeName  string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Terminal theme: dark, light or plain (default from config)")

	rootCmd.AddCommand(serveCmd, rankingCmd, analyzeCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:           "elo-advisor",
	Short:         "Elo tennis ranking and value bet advisor",
	Long:          `Scrapes a published Elo rating table and analyzes matches for expected value against bookmaker odds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogger(cmd)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

// setupLogger logs to stdout when serving; one-shot commands keep stdout for
// their output and only log warnings to stderr.
func setupLogger(cmd *cobra.Command) {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	if cmd == serveCmd {
		return
	}
	appLog.SetOutput(os.Stderr)
	if appLog.GetLevel() > logrus.WarnLevel {
		appLog.SetLevel(logrus.WarnLevel)
	}
}

// newRankingService wires the scraper, HTTP client and snapshot cache
func newRankingService() (*service.RankingService, error) {
	factory := datasource.NewFactory(cfg, appLog)
	source, err := factory.NewRankingSource(factory.NewHTTPClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking source: %w", err)
	}
	return service.NewRankingService(source, cfg.CacheTTL(), appLog), nil
}

func newAnalysisService(ranking *service.RankingService) *service.AnalysisService {
	return service.NewAnalysisService(ranking, analysis.NewAnalyzer(cfg.Analysis.ValueThreshold), appLog)
}

// selectTheme picks the --theme flag, then ui.theme. Output that is not a
// terminal is always plain.
func selectTheme(out *os.File) (render.Theme, error) {
	name := themeName
	if name == "" {
		name = cfg.UI.Theme
	}
	theme, err := render.ThemeByName(name)
	if err != nil {
		return render.Theme{}, err
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return render.Plain, nil
	}
	return theme, nil
}
