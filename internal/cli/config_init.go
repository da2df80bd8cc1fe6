package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
)

// NewConfigInitCmd creates the config init command. With --project, or
// inside a directory tree that already has a .zerodesign/ directory, it
// writes a project-local config.yaml and .gitignore. Otherwise it writes the
// global ~/.zerodesign/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		global  bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a zerodesign project (a directory tree with a .zerodesign/ directory,
or one named by --project-dir), creates $PROJECT/.zerodesign/config.yaml with a
.gitignore that keeps cards, history and the cache out of version control.
Use --project to start a project in the current directory and --global to
write the global configuration even inside a project.`,
		Example: `  # Start a project in the current directory
  zerodesign config init --project

  # Create global configuration
  zerodesign config init --global

  # Create configuration, overwriting existing
  zerodesign config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if global && project {
				return errors.New("--global and --project are mutually exclusive")
			}

			projectDir := config.GetResolvedProjectDir()
			if project && projectDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				projectDir = filepath.Join(wd, config.ProjectDirName)
			}

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")
	cmd.Flags().BoolVar(&project, "project", false, "create a project in the current directory if none is found")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	// Check if config already exists and force isn't set
	if !force {
		_, err := os.Stat(configPath)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", configPath, err)
		}
	}

	// Ensure the project .zerodesign/ directory exists
	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	// Project config starts from defaults, not the user's global overrides,
	// and keeps cards, history and the cache inside the project.
	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	cfg.Storage.CardsFile = filepath.Join(projectDir, "cards.json")
	cfg.Storage.History.DSN = filepath.Join(projectDir, "history.db")
	cfg.RefData.CacheDir = filepath.Join(projectDir, "cache")
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Create .gitignore (never overwrites existing)
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to protect user-specific data\n")
	}

	return nil
}

// initGlobalConfig creates global config at ~/.zerodesign/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Default()

	// Check if config already exists and force isn't set
	if !force {
		if _, err := os.Stat(cfg.ConfigPath()); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
		}
	}

	// Save the default configuration
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
