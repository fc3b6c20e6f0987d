// Package solver implements the hierarchical incremental community
// detection core: movement, refinement and aggregation per level, the
// deferred update that projects coarse decisions back to the finest level,
// and the orchestrator that drives them against a persisted partition state.
package solver

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/hit-leiden/internal/accel"
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/internal/partition"
	"github.com/hit-leiden/pkg/collections"
	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/errors"
	"github.com/hit-leiden/pkg/model"
	"github.com/hit-leiden/pkg/telemetry"
	"github.com/hit-leiden/pkg/utils"
)

// Solver drives the per-level operators against a partition state. A solver
// is configured once; Run may be invoked repeatedly with deltas against the
// same state.
type Solver struct {
	configID      string
	mode          model.RunMode
	graphBackend  model.GraphBackend
	resolutionCfg model.ResolutionMetadata
	backend       accel.Backend
	resolution    float64
	tolerance     float64
	maxIterations int
	workers       int
	log           utils.Logger
	tracer        trace.Tracer
}

// Option customizes a Solver.
type Option func(*Solver)

// WithLogger sets the solver's logger.
func WithLogger(log utils.Logger) Option {
	return func(s *Solver) { s.log = log }
}

// New validates the configuration, resolves the acceleration backend (with
// CPU fallback) and returns a ready solver.
func New(cfg *config.RunConfig, opts ...Option) (*Solver, error) {
	if cfg == nil {
		cfg = config.DefaultRunConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "invalid run config", err)
	}

	mode, _ := cfg.ParsedMode()
	source, _ := cfg.ParsedSource()
	graphBackend, _ := cfg.ParsedBackend()
	target, _ := cfg.ParsedAcceleration()

	backend, resolved := accel.Resolve(source, graphBackend, target)

	s := &Solver{
		configID:      cfg.ConfigID,
		mode:          mode,
		graphBackend:  graphBackend,
		resolutionCfg: resolved,
		backend:       backend,
		resolution:    cfg.Resolution,
		tolerance:     cfg.QualityTolerance,
		maxIterations: cfg.MaxIterations,
		workers:       cfg.Workers,
		log:           &utils.NullLogger{},
		tracer:        telemetry.Tracer("solver"),
	}
	if s.resolution <= 0 {
		s.resolution = 1.0
	}
	if s.workers < 1 {
		s.workers = 1
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mode returns the solver's run mode.
func (s *Solver) Mode() model.RunMode {
	return s.mode
}

// Resolution returns the resolved source/backend/accel metadata.
func (s *Solver) Resolution() model.ResolutionMetadata {
	return s.resolutionCfg
}

// QualityTolerance returns the configured equivalence tolerance.
func (s *Solver) QualityTolerance() float64 {
	return s.tolerance
}

// buildGraph materializes a CSR graph for the configured graph backend.
func (s *Solver) buildGraph(in *model.GraphInput) (*graph.CSR, error) {
	if s.graphBackend == model.BackendMmap {
		mg, err := graph.NewMmapGraph(in)
		if err != nil {
			return nil, errors.Wrap(errors.CodeBackend, "failed to build mmap graph", err)
		}
		return mg.CSR, nil
	}
	return graph.FromInput(in), nil
}

// Run executes one incremental sweep of the hierarchy against the given
// partition state. The input is the delta graph (or the full graph on a
// cold start); the state is mutated in place and persists across runs.
func (s *Solver) Run(ctx context.Context, input *model.GraphInput, state *partition.State) (*model.RunOutcome, error) {
	startedAt := time.Now()

	if input == nil {
		return nil, errors.New(errors.CodeInvalidInput, "graph input is nil")
	}
	for _, e := range input.Edges {
		if e.U < 0 || e.U >= input.NodeCount || e.V < 0 || e.V >= input.NodeCount {
			return nil, errors.New(errors.CodeInvalidInput, "edge endpoint exceeds node_count")
		}
	}
	if state == nil {
		return nil, errors.New(errors.CodeInvalidInput, "partition state is nil")
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanRun, trace.WithAttributes(
		telemetry.AttrDatasetID.String(input.DatasetID),
		telemetry.AttrRunMode.String(s.mode.String()),
		telemetry.AttrNodeCount.Int(input.NodeCount),
		telemetry.AttrEdgeCount.Int(len(input.Edges)),
	))
	defer span.End()

	iterations, err := s.sweep(ctx, input, state)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now()
	execution := model.RunExecution{
		RunID:          fmt.Sprintf("run:%s", input.DatasetID),
		DatasetID:      input.DatasetID,
		ConfigID:       s.configID,
		StartedAt:      startedAt,
		CompletedAt:    &completedAt,
		Status:         model.StatusSucceeded,
		Resolution:     s.resolutionCfg,
		FallbackReason: s.resolutionCfg.FallbackReason,
	}

	assignments := make([]int, len(state.NodeToCommunity))
	copy(assignments, state.NodeToCommunity)

	quality := 0.0
	if state.Supergraphs[0] != nil {
		quality = Modularity(state.Supergraphs[0], assignments, s.resolution)
	}

	return &model.RunOutcome{
		Execution: execution,
		Partition: &model.PartitionResult{
			RunID:           execution.RunID,
			NodeToCommunity: assignments,
			CommunityCount:  CommunityCount(assignments),
			QualityScore:    quality,
			IterationCount:  iterations,
		},
	}, nil
}

// sweep runs movement, refinement and aggregation per level, then the two
// deferred updates that maintain the community and refined mappings.
func (s *Solver) sweep(ctx context.Context, input *model.GraphInput, state *partition.State) (int, error) {
	currentDelta := input
	levels := state.Levels

	changed := make([]*collections.Bitset, levels)
	refined := make([]*collections.Bitset, levels)
	iterations := 0

	var pool *accel.ScratchPool

	for p := 0; p < levels; p++ {
		// G_p absorbs the level's delta before any evaluation.
		if state.Supergraphs[p] == nil {
			if p == 0 {
				g, err := s.buildGraph(currentDelta)
				if err != nil {
					return 0, err
				}
				state.Supergraphs[p] = g
			} else {
				// Aggregated deltas may carry residual retirements; the
				// merge path drops edges that cancel to nothing.
				state.Supergraphs[p] = graph.FromDelta(currentDelta)
			}
		} else if !currentDelta.IsEmpty() {
			state.Supergraphs[p] = graph.ApplyDelta(state.Supergraphs[p], currentDelta)
		}
		g := state.Supergraphs[p]
		state.EnsureLevel(p, g.NodeCount())

		if pool == nil {
			// One scratch pair per worker, reused across every frontier
			// round of the run; released when the run returns.
			pool = accel.NewScratchPool(s.workers, g.NodeCount())
		}

		levelCtx, levelSpan := s.tracer.Start(ctx, telemetry.SpanLevel, trace.WithAttributes(
			telemetry.AttrLevel.Int(p),
			telemetry.AttrNodeCount.Int(g.NodeCount()),
		))

		move := s.movement(levelCtx, g, currentDelta,
			state.CommunityMapping[p], state.CurrSubcommunity[p], pool)
		changed[p] = move.changed
		if p == 0 {
			iterations = move.rounds
		}

		refined[p] = s.refinement(levelCtx, g,
			state.CommunityMapping[p], state.CurrSubcommunity[p], move.affected)

		if p < levels-1 {
			nextDelta, nextSPre := aggregation(g, currentDelta,
				state.PrevSubcommunity[p], state.CurrSubcommunity[p], refined[p])
			state.PrevSubcommunity[p] = nextSPre
			currentDelta = nextDelta
		}

		levelSpan.End()

		s.log.Debug("level %d: %d changed, %d refined", p, changed[p].Count(), refined[p].Count())
	}

	_, defSpan := s.tracer.Start(ctx, telemetry.SpanDeferredUpdate)
	deferredUpdate(state.CommunityMapping, state.CurrSubcommunity, changed, levels)
	deferredUpdate(state.RefinedMapping, state.CurrSubcommunity, refined, levels)
	defSpan.End()

	if len(state.NodeToCommunity) != len(state.CommunityMapping[0]) {
		state.NodeToCommunity = make([]int, len(state.CommunityMapping[0]))
	}
	copy(state.NodeToCommunity, state.CommunityMapping[0])

	return iterations, nil
}

// Run is the package-level convenience entry: it creates a fresh identity
// partition for the input and executes one full (cold start) run.
func Run(ctx context.Context, input *model.GraphInput, cfg *config.RunConfig) (*model.RunOutcome, *partition.State, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if input == nil {
		return nil, nil, errors.New(errors.CodeInvalidInput, "graph input is nil")
	}
	state := partition.Identity(input.NodeCount)
	out, err := s.Run(ctx, input, state)
	if err != nil {
		return nil, nil, err
	}
	return out, state, nil
}
