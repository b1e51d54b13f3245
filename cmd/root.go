package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/config"
	"github.com/hmans/shelf/internal/logging"
)

var (
	configPath string
	seedPath   string

	cfg    *config.Config
	logger *zap.Logger
	core   *catalogcore.Core
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "An in-memory library catalog with a GraphQL API",
	Long: `Shelf keeps a small library catalog of books, authors and categories in
memory and exposes it through a GraphQL API. The catalog is seeded at startup,
either from the built-in dataset or from a YAML seed file, and is discarded
when the process exits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip catalog initialization for init command
		if cmd.Name() == "init" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if seedPath != "" {
			cfg.Catalog.Seed = seedPath
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}

		core = catalogcore.New(cfg)
		core.SetLogger(logger)
		if err := core.Load(); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if core != nil {
			core.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: "+config.ConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "Path to a YAML seed file (overrides config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
