// Package cli provides the command-line interface for kankatext.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/kankatext/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries state shared by all subcommands for one invocation.
type app struct {
	verbose    bool
	configPath string

	cfg     config.Config
	logger  *slog.Logger
	cleanup func() error
	theme   Theme
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kankatext",
		Short: "Convert a Kanka campaign export into plain text files",
		Long: `Kankatext converts a Kanka campaign export (one folder per entity type,
one JSON file per entity) into one consolidated narrative text file per type,
ready for text-based tools such as NotebookLM.

Mentions like [character:123] are resolved to "Name (Character)" using an
index built from the whole export.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.cleanup != nil {
				if err := a.cleanup(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close log file: %v\n", err)
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newCampaignsCmd(a))

	return rootCmd
}

// setup loads configuration and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}
	logger, cleanup := config.SetupLogger(cfg.LogFile, level)
	a.logger = logger.With("run", uuid.New().String()[:8])
	a.cleanup = cleanup
	a.theme = themeFor(cmd.OutOrStdout())
	return nil
}

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
