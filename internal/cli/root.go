package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the zerodesign CLI.
// It resolves the project directory, loads the merged configuration,
// wires up logging and tracing, and registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:          "zerodesign",
		Short:        "Garment carbon footprint calculator",
		Long:         "zerodesign: estimate garment CO2e, score sustainability and explore lower-impact alternatives",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cacheTTL, _ := cmd.Flags().GetInt("cache-ttl")
			if cacheTTL < 0 {
				return fmt.Errorf("cache-ttl must be >= 0, got %d", cacheTTL)
			}

			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			dir := config.ResolveProjectDir(cmd.Context(), projectDir, wd)
			config.SetResolvedProjectDir(dir)

			cfg := config.NewWithProjectDir(cmd.Context(), dir)
			if cacheTTL > 0 {
				cfg.RefData.CacheTTLSeconds = cacheTTL
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or ndjson (default from config)")
	cmd.PersistentFlags().
		StringVar(&projectDir, "project-dir", "", "project directory holding a .zerodesign overlay (default: search upwards)")
	cmd.PersistentFlags().
		Int("cache-ttl", 0, "reference cache TTL in seconds (0 = use config default)")

	cmd.AddCommand(
		NewCalcCmd(), NewScoreCmd(), NewSuggestCmd(), NewBreakdownCmd(), NewScenariosCmd(),
		newBenchmarkCmd(), newRefDataCmd(), newCardCmd(), newCollectionCmd(), newHistoryCmd(),
		newTUICmd(), newConfigCmd(), NewVersionCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Estimate a cotton/elastane tee
  zerodesign calc --name "Basic Tee" --fiber Pamuk=95 --fiber Elastan=5 --weight 180

  # Same garment from a file, as JSON
  zerodesign calc --file tee.yaml -o json

  # Compare lower-impact what-if variants
  zerodesign scenarios --file tee.yaml

  # Browse the benchmark products interactively
  zerodesign tui benchmark

  # Save a style card and optimise every saved card
  zerodesign card save --file tee.yaml
  zerodesign collection optimize --cards --target 20

  # Initialize configuration
  zerodesign config init

  # Set configuration values
  zerodesign config set output.default_format json`

// newBenchmarkCmd creates the benchmark command group.
func newBenchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "benchmark", Short: "Benchmark product commands"}
	cmd.AddCommand(NewBenchmarkListCmd(), NewBenchmarkTreeCmd())
	return cmd
}

// newRefDataCmd creates the refdata command group.
func newRefDataCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "refdata", Short: "Reference data commands"}
	cmd.AddCommand(
		NewRefDataFibersCmd(), NewRefDataProcessesCmd(), NewRefDataModelsCmd(),
		NewRefDataLookupCmd(), NewRefDataSeedCmd(), NewRefDataCacheCmd(),
	)
	return cmd
}

// newCardCmd creates the style card command group.
func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "card", Short: "Style card commands"}
	cmd.AddCommand(NewCardSaveCmd(), NewCardListCmd(), NewCardShowCmd(), NewCardDeleteCmd())
	return cmd
}

// newCollectionCmd creates the collection command group.
func newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "collection", Short: "Collection planning commands"}
	cmd.AddCommand(NewCollectionOptimizeCmd())
	return cmd
}

// newHistoryCmd creates the calculation history command group.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "history", Short: "Calculation history commands"}
	cmd.AddCommand(NewHistoryListCmd(), NewHistoryShowCmd())
	return cmd
}

// newTUICmd creates the interactive command group.
func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tui", Short: "Interactive terminal views"}
	cmd.AddCommand(NewTUICalcCmd(), NewTUIBenchmarkCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
