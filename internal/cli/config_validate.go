package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/history"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (global file, project file and
environment overrides) for syntax and semantic correctness.

This includes:
- Output format and precision range
- Logging level and format
- Reference cache TTL and fetch timeout
- Advisor endpoint, which is required when the advisor is enabled
- History database driver and DSN`,
		Example: `  # Validate current configuration
  zerodesign config validate

  # Validate and show detailed information
  zerodesign config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		cmd.Println("Configuration warnings:")
		for _, w := range warnings {
			cmd.Printf("  - %s\n", w)
		}
		cmd.Println()
	}
	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// configWarnings lists settings that are valid but probably unintended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string
	if cfg.RefData.FiberSource == "" {
		warnings = append(warnings, "refdata.fiber_source is empty, built-in fiber factors are used")
	}
	if cfg.RefData.CacheEnabled && cfg.RefData.CacheTTLSeconds == 0 {
		warnings = append(warnings, "refdata.cache_ttl_seconds is 0, cached sources expire immediately")
	}
	if !cfg.Advisor.Enabled && cfg.Advisor.Endpoint != "" {
		warnings = append(warnings, "advisor.endpoint is set but advisor.enabled is false")
	}
	if cfg.Storage.History.DSN == history.MemoryDSN {
		warnings = append(warnings, "storage.history.dsn is in-memory, history is lost on exit")
	}
	return warnings
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	printRefDataDetails(cmd, cfg)
	printStorageDetails(cmd, cfg)
}

// printRefDataDetails prints reference source and cache settings.
func printRefDataDetails(cmd *cobra.Command, cfg *config.Config) {
	sources := []struct{ name, value string }{
		{"Fiber source", cfg.RefData.FiberSource},
		{"Process source", cfg.RefData.ProcessSource},
		{"Models source", cfg.RefData.ModelsSource},
		{"Benchmark source", cfg.Benchmark.Source},
	}
	for _, s := range sources {
		value := s.value
		if value == "" {
			value = "(built-in)"
		}
		cmd.Printf("  %s: %s\n", s.name, value)
	}
	if cfg.RefData.CacheEnabled {
		cmd.Printf("  Cache: %s (TTL %s)\n", cfg.RefData.CacheDir, cfg.RefData.CacheTTL())
	} else {
		cmd.Println("  Cache: disabled")
	}
}

// printStorageDetails prints where cards and history are kept.
func printStorageDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Printf("  Style cards: %s\n", cfg.Storage.CardsFile)
	driver := cfg.Storage.History.Driver
	if driver == "" {
		driver = history.DriverSQLite
	}
	if driver == history.DriverPostgres {
		// The DSN may carry credentials.
		cmd.Printf("  History: %s\n", driver)
	} else {
		cmd.Printf("  History: %s (%s)\n", driver, cfg.Storage.History.DSN)
	}
	if cfg.Advisor.Enabled {
		cmd.Printf("  Advisor: %s\n", cfg.Advisor.Endpoint)
	}
}
