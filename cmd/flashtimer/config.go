package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/flashtimer/internal/config"
)

var configOpts struct {
	format string
	write  bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration flashtimer runs with: defaults overlaid with the
config file. Use --write to save it to the config file as a starting point.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVarP(&configOpts.format, "format", "f", "toml",
		"Output format (toml, yaml)")
	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Write the effective configuration to the config file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if configOpts.write {
		path := globalOpts.configPath
		if path == "" {
			var err error
			if path, err = config.ConfigPath(); err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		return nil
	}

	out := cmd.OutOrStdout()
	switch configOpts.format {
	case "toml":
		return toml.NewEncoder(out).Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want toml or yaml)", configOpts.format)
	}
}
