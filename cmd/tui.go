package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hmans/shelf/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive TUI",
	Long:  `Opens an interactive terminal user interface for browsing the catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(core)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
