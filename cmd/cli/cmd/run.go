package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/internal/partition"
	"github.com/hit-leiden/internal/repository"
	"github.com/hit-leiden/internal/solver"
	"github.com/hit-leiden/internal/storage"
	"github.com/hit-leiden/pkg/model"
	"github.com/hit-leiden/pkg/telemetry"
	"github.com/hit-leiden/pkg/writer"
)

var (
	// Run command flags
	runInput      string
	runOutput     string
	runMode       string
	runStateKey   string
	runSnapshotID string
	runSaveRecord bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run community detection on a graph or delta batch",
	Long: `Run executes one solver sweep. With --state, the named partition
snapshot is loaded first and saved back afterwards, so the input acts as an
incremental delta batch against the persisted partition; without it the
input is treated as a cold start.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Input edge list file")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Report file path (stdout if empty)")
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "", "Run mode: deterministic or throughput")
	runCmd.Flags().StringVar(&runStateKey, "state", "", "Partition snapshot key for incremental runs")
	runCmd.Flags().StringVar(&runSnapshotID, "snapshot", "", "Neo4j snapshot id to project instead of a file")
	runCmd.Flags().BoolVar(&runSaveRecord, "record", false, "Record the run in the database")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		logger.Warn("Failed to initialize telemetry: %v", err)
	} else {
		defer shutdown(ctx)
	}

	if runMode != "" {
		cfg.Run.Mode = runMode
	}

	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		return err
	}

	input, err := loadInput(ctx, store)
	if err != nil {
		return err
	}

	s, err := solver.New(&cfg.Run, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	var state *partition.State
	if runStateKey != "" {
		if loaded, err := partition.Load(ctx, store, runStateKey); err == nil {
			state = loaded
			logger.Info("Loaded partition snapshot %s (%d levels)", runStateKey, state.Levels)
		} else {
			logger.Warn("No usable snapshot at %s, starting cold: %v", runStateKey, err)
		}
	}
	if state == nil {
		state = partition.Identity(input.NodeCount)
	}

	outcome, err := s.Run(ctx, input, state)
	if err != nil {
		return err
	}

	if runStateKey != "" {
		if err := partition.Save(ctx, store, runStateKey, state); err != nil {
			return err
		}
		logger.Info("Saved partition snapshot %s", runStateKey)
	}

	if runSaveRecord {
		db, err := repository.NewGormDB(&cfg.Database)
		if err != nil {
			return err
		}
		repo := repository.NewGormRunRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return err
		}
		if err := repo.SaveOutcome(ctx, outcome, runStateKey); err != nil {
			return err
		}
	}

	logger.Info("Run %s: %d communities, Q=%.6f, %d iterations",
		outcome.Execution.RunID,
		outcome.Partition.CommunityCount,
		outcome.Partition.QualityScore,
		outcome.Partition.IterationCount)
	if outcome.Execution.FallbackReason != "" {
		logger.Warn("Fallback: %s", outcome.Execution.FallbackReason)
	}

	if runOutput != "" {
		return writer.WriteJSONFile(runOutput, outcome)
	}
	return writer.WriteJSON(os.Stdout, outcome)
}

// loadInput resolves the graph input from the configured source.
func loadInput(ctx context.Context, store storage.Storage) (*model.GraphInput, error) {
	source, err := cfg.Run.ParsedSource()
	if err != nil {
		return nil, err
	}

	switch source {
	case model.SourceNeo4jSnapshot:
		if runSnapshotID == "" {
			return nil, fmt.Errorf("--snapshot is required for graph_source=neo4j_snapshot")
		}
		return graph.ProjectFromNeo4jSnapshot(ctx, store, &graph.ProjectionConfig{SnapshotID: runSnapshotID})
	case model.SourceLiveNeo4j:
		return nil, fmt.Errorf("live Neo4j queries are not supported by the CLI; export a snapshot first")
	default:
		if runInput == "" {
			return nil, fmt.Errorf("--input is required")
		}
		return graph.LoadEdgeListFile(runInput)
	}
}
