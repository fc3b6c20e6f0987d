package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/hit-leiden/internal/benchmark"
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/writer"
)

var (
	// Benchmark command flags
	benchInput        string
	benchInitialRatio float64
	benchBatchSize    int
	benchRounds       int
	benchSeed         int64
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Replay a dynamic graph and measure incremental speedup",
	Long: `Benchmark shuffles the input graph's edges with a fixed seed, builds an
initial static graph plus a schedule of update batches, and runs the solver
incrementally against a fresh cold-start baseline for every batch.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().StringVarP(&benchInput, "input", "i", "", "Input edge list file")
	benchmarkCmd.Flags().Float64Var(&benchInitialRatio, "initial-ratio", 0.8, "Fraction of edges in the initial graph")
	benchmarkCmd.Flags().IntVar(&benchBatchSize, "batch-size", 1000, "Edges per update batch")
	benchmarkCmd.Flags().IntVar(&benchRounds, "rounds", 10, "Number of update batches")
	benchmarkCmd.Flags().Int64Var(&benchSeed, "seed", 42, "Shuffle seed")
	benchmarkCmd.MarkFlagRequired("input")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	input, err := graph.LoadEdgeListFile(benchInput)
	if err != nil {
		return err
	}

	builder := benchmark.NewDynamicGraphBuilder(input)
	split := builder.PaperSplit(benchInitialRatio, benchBatchSize, benchRounds, benchSeed)

	logger.Info("Benchmark: %d initial edges, %d batches of %d",
		len(split.InitialGraph.Edges), split.Rounds, split.BatchSize)

	outcome, err := benchmark.RunIncremental(ctx, split, &cfg.Run)
	if err != nil {
		return err
	}

	for _, b := range outcome.Batches {
		logger.Info("Batch %d: +%d edges | total %d | inc %.2fms | base %.2fms | speedup %.2fx",
			b.BatchIdx, b.EdgesAdded, b.TotalEdges, b.IncrementalTimeMs, b.BaselineTimeMs, b.Speedup)
	}
	logger.Info("Cumulative speedup: %.2fx over %.2fs",
		outcome.CumulativeSpeedup, outcome.TotalTimeSeconds)

	return writer.WriteBenchmarkJSON(os.Stdout, outcome)
}
