package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dverna/annet/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "annet",
	Short: "annet loads and configures automata-network models",
	Long: `annet loads discrete automata-network models from native or foreign
file formats (Boolean networks, SBML-qual), converting and simplifying them
through the external toolchain, and manages their initial state.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("output-dir", "gen", "Directory for downloads and generated files")
}

// newLogger builds the command logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
