package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/zerodesign/internal/config"
)

// NewConfigSetCmd sets one dotted key in a config file.
func NewConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Sets a configuration value and saves the file. Inside a project that has
its own config.yaml the project file is updated; --global always targets
~/.zerodesign/config.yaml. The result is validated before it is written.`,
		Example: `  zerodesign config set output.default_format json
  zerodesign config set output.precision 2
  zerodesign config set advisor.endpoint https://advisor.example.com --global`,
		Args: cobra.ExactArgs(2), //nolint:mnd // KEY and VALUE.
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			path, err := configTarget(global)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if errors.Is(err, os.ErrNotExist) {
				cfg = config.Default()
				cfg.SetConfigPath(path)
			} else if err != nil {
				return err
			}

			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			logger.Info().Ctx(cmd.Context()).
				Str("operation", "config_set").
				Str("key", key).
				Str("path", path).
				Msg("configuration updated")
			cmd.Printf("Set %s = %s in %s\n", key, value, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "update the global configuration even inside a project")
	return cmd
}

// configTarget picks the file config set writes: the project config when
// one exists and global is false, else the global config.
func configTarget(global bool) (string, error) {
	if dir := config.GetResolvedProjectDir(); dir != "" && !global {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// NewConfigGetCmd prints the effective value of a dotted key.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get KEY",
		Short:   "Get a configuration value",
		Example: `  zerodesign config get output.precision`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			if m, ok := value.(map[string]any); ok {
				data, marshalErr := yaml.Marshal(m)
				if marshalErr != nil {
					return fmt.Errorf("marshaling %s: %w", args[0], marshalErr)
				}
				cmd.Print(string(data))
				return nil
			}
			cmd.Println(value)
			return nil
		},
	}
}

// NewConfigListCmd prints the effective configuration.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the effective configuration",
		Long: `Prints the configuration after merging defaults, the global file, the
project file and ZERODESIGN_* environment overrides. Table output is YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg := config.GetGlobalConfig()
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
