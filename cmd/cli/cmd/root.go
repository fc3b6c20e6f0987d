// Package cmd implements the hit-leiden command line interface.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/utils"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hit-leiden",
	Short: "Incremental hierarchical community detection",
	Long: `hit-leiden detects communities on large, dynamically evolving weighted
undirected graphs. Given a prior partition and a batch of edge insertions
and deletions it produces a new partition of comparable modularity to a
fresh Leiden run in a fraction of the time, by propagating only the
changes up a multi-level supergraph hierarchy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Run on an edge list with the default deterministic config
  ` + binName + ` run -i ./graph.edges

  # Parallel frontier execution with a persisted partition
  ` + binName + ` run -i ./delta.edges --mode throughput --state ./partition.bin

  # Replay a dynamic graph and compare against fresh baseline runs
  ` + binName + ` benchmark -i ./graph.edges --batch-size 1000 --rounds 10`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
