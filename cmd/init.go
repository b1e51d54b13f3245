package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hmans/shelf/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Creates a ` + config.ConfigFile + ` config file with the default settings in the
current directory, or at the path given with --config.

If the file already exists you are asked before it is replaced. Use --force to
skip the question; without a terminal the command fails instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.ConfigFile
		}
		force := initForce
		if !force && fileExists(path) && term.IsTerminal(int(os.Stdin.Fd())) {
			confirmed, err := confirmOverwrite(path)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			force = true
		}
		if err := writeDefaultConfig(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

// writeDefaultConfig saves the default configuration to path. An existing file
// is only replaced when force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	return nil
}

// confirmOverwrite asks whether an existing config file may be replaced.
func confirmOverwrite(path string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Overwrite %s with the default settings?", path)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
