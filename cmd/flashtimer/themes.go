package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/flashtimer/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List bundled themes and user themes from ~/.config/flashtimer/themes.
A user theme with the same name as a bundled one replaces it.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	dir, err := theme.ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		dir = ""
	}

	themes, err := theme.ListAvailable(dir)
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, t := range themes {
		source := "bundled"
		if !t.IsBundled {
			source = t.Path
		}
		marker := " "
		if t.Name == cfg.Theme.Name {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\n", marker, t.Name, source)
	}
	return w.Flush()
}
