package benchmark

import (
	"context"

	"github.com/hit-leiden/internal/partition"
	"github.com/hit-leiden/internal/solver"
	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/model"
	"github.com/hit-leiden/pkg/utils"
)

// RunIncremental replays an incremental split: the initial graph seeds the
// partition state, then every update batch runs incrementally against it
// while a fresh cold-start run of the accumulated graph provides the
// baseline timing.
func RunIncremental(ctx context.Context, split *IncrementalSplit, cfg *config.RunConfig) (*model.IncrementalOutcome, error) {
	s, err := solver.New(cfg)
	if err != nil {
		return nil, err
	}

	total := utils.NewTimer()

	state := partition.Identity(split.InitialGraph.NodeCount)
	if _, err := s.Run(ctx, split.InitialGraph, state); err != nil {
		return nil, err
	}

	accumulated := make([]model.Edge, len(split.InitialGraph.Edges))
	copy(accumulated, split.InitialGraph.Edges)

	outcome := &model.IncrementalOutcome{}
	var incTotalMs, baseTotalMs float64

	for idx, batch := range split.UpdateBatches {
		accumulated = append(accumulated, batch.Edges...)

		incTimer := utils.NewTimer()
		out, err := s.Run(ctx, batch, state)
		if err != nil {
			return nil, err
		}
		incMs := incTimer.ElapsedMs()

		baseTimer := utils.NewTimer()
		fresh := partition.Identity(split.InitialGraph.NodeCount)
		if _, err := s.Run(ctx, &model.GraphInput{
			DatasetID: batch.DatasetID + ":baseline",
			NodeCount: split.InitialGraph.NodeCount,
			Edges:     accumulated,
		}, fresh); err != nil {
			return nil, err
		}
		baseMs := baseTimer.ElapsedMs()

		speedup := 0.0
		if incMs > 0 {
			speedup = baseMs / incMs
		}

		incTotalMs += incMs
		baseTotalMs += baseMs

		outcome.Batches = append(outcome.Batches, model.BatchResult{
			BatchIdx:          idx,
			EdgesAdded:        len(batch.Edges),
			TotalEdges:        len(accumulated),
			NodesInGraph:      split.InitialGraph.NodeCount,
			IncrementalTimeMs: incMs,
			BaselineTimeMs:    baseMs,
			Speedup:           speedup,
			IterationCount:    out.Partition.IterationCount,
			Modularity:        out.Partition.QualityScore,
		})
	}

	outcome.TotalTimeSeconds = total.Elapsed().Seconds()
	if incTotalMs > 0 {
		outcome.CumulativeSpeedup = baseTotalMs / incTotalMs
	}
	if len(outcome.Batches) > 0 {
		sum := 0.0
		for _, b := range outcome.Batches {
			sum += b.Speedup
		}
		outcome.AvgSpeedup = sum / float64(len(outcome.Batches))
	}
	return outcome, nil
}
