// ABOUTME: Command-line entrypoint: load a heap dump, start the console
// ABOUTME: The unreadable-primary-snapshot path is the only fatal one

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/viv-4/harb"
	"github.com/viv-4/harb/heapdump"
	"github.com/viv-4/harb/internal/config"
	"github.com/viv-4/harb/shell"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "harb <heap-dump.json>",
	Short: "harb - interactive Ruby heap-dump analyzer",
	Long: `harb loads a Ruby ObjectSpace heap dump (one JSON record per line)
and opens an interactive console for structural queries: object details,
immediate dominators, dominated sets, shortest paths to GC roots, per-type
memory summaries and diffs against later snapshots.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runConsole,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the harb version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(harb.Version)
	},
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Verbose && !verbose {
		verbose = true
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		// Without a primary graph no query is meaningful.
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	g, err := heapdump.Build(f, logger)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	return shell.New(g, os.Stdout, cfg, logger).Run()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.harb.yaml)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
