package montecarlo

import (
	"context"
	"log"
	"math"
	"sync/atomic"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"lotogrid/adapters/stats/extract"
	"lotogrid/domain/core"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// Params are the run parameters of one simulation. They fully determine the
// output: identical Params yield a bit-identical Baseline.
type Params struct {
	NSimulations        int   `json:"n_simulations"`
	NDrawsPerSimulation int   `json:"n_draws_per_simulation"`
	Seed                int64 `json:"seed"`
	// Shards is the worker count. Each shard derives its own stream as
	// Seed+shardIndex, so Shards is part of the determinism contract and
	// is recorded with the run.
	Shards int `json:"shards"`
	// RawSampleSize bounds the per-draw feature sample retained for
	// distribution-level tests (KS, Mann-Whitney). The sample is taken
	// from the first shard's stream, so it is as deterministic as the
	// rest of the run. Zero selects the default.
	RawSampleSize int `json:"raw_sample_size"`
}

// DefaultRawSampleSize bounds the retained per-draw sample when the caller
// does not choose one.
const DefaultRawSampleSize = 5000

// Validate checks the parameters support baseline computation.
func (p Params) Validate() error {
	if p.NSimulations < 2 {
		return core.InsufficientBaselineError("n_simulations must be at least 2 for percentile computation")
	}
	if p.NDrawsPerSimulation < 1 {
		return core.ConfigInvalid("n_draws_per_simulation must be positive")
	}
	if p.Shards < 1 {
		return core.ConfigInvalid("shards must be positive")
	}
	return nil
}

// Simulator generates synthetic uniformly random draws and summarizes their
// feature distributions into a Baseline. Safe for concurrent Run calls: all
// randomness lives in per-run, per-shard streams, never in process state.
type Simulator struct {
	shape     grid.Shape
	extractor *extract.Extractor
	positions []grid.Position // position lookup for every playable number

	// OnProgress, when set, receives the completed simulation count.
	// Advisory only; called from worker goroutines.
	OnProgress func(completed, total int)
}

// New creates a simulator for the given card shape.
func New(shape grid.Shape) (*Simulator, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	positions := make([]grid.Position, shape.TotalNumbers())
	for n := shape.MinNumber; n <= shape.MaxNumber; n++ {
		pos, err := shape.ToPosition(n)
		if err != nil {
			return nil, err
		}
		positions[n-shape.MinNumber] = pos
	}
	return &Simulator{
		shape:     shape,
		extractor: extract.New(shape),
		positions: positions,
	}, nil
}

// Run executes the full simulation and returns the Baseline: one mean
// feature vector per simulation plus per-feature summary statistics.
func (s *Simulator) Run(ctx context.Context, params Params) (*features.Baseline, error) {
	if params.Shards == 0 {
		params.Shards = 1
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Shards > params.NSimulations {
		params.Shards = params.NSimulations
	}
	if params.RawSampleSize == 0 {
		params.RawSampleSize = DefaultRawSampleSize
	}

	log.Printf("[Simulator] starting run: %d simulations x %d draws, seed %d, %d shards",
		params.NSimulations, params.NDrawsPerSimulation, params.Seed, params.Shards)

	shardMeans := make([][]features.Vector, params.Shards)
	var rawSample []features.Vector
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < params.Shards; shard++ {
		start, end := shardRange(params.NSimulations, params.Shards, shard)
		stream := params.Seed + int64(shard)
		// Only the first shard feeds the raw sample, keeping it
		// deterministic regardless of scheduling.
		rawCap := 0
		if shard == 0 {
			rawCap = params.RawSampleSize
		}
		g.Go(func() error {
			means, raw, err := s.runShard(ctx, stream, end-start, params.NDrawsPerSimulation, rawCap, &completed, params.NSimulations)
			if err != nil {
				return err
			}
			shardMeans[shard] = means
			if rawCap > 0 {
				rawSample = raw
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate in shard order so the table is independent of scheduling.
	table := features.NewTable(params.NSimulations)
	simID := 0
	for _, means := range shardMeans {
		for _, mean := range means {
			if err := table.Append(simID, mean); err != nil {
				return nil, err
			}
			simID++
		}
	}

	rawTable := features.NewTable(len(rawSample))
	for i, vec := range rawSample {
		if err := rawTable.Append(i, vec); err != nil {
			return nil, err
		}
	}

	baseline := &features.Baseline{
		Stats:           summarize(table),
		SimulationMeans: table,
		RawDrawSample:   rawTable,
	}
	log.Printf("[Simulator] run complete: %d simulations summarized over %d features",
		table.Len(), len(table.FeatureNames))
	return baseline, nil
}

// runShard computes the per-simulation mean vectors of one contiguous
// simulation range using a single seeded stream. Up to rawCap draw-level
// vectors are also retained for distribution-shape tests.
func (s *Simulator) runShard(ctx context.Context, seed int64, nSims, nDraws, rawCap int, completed *atomic.Int64, total int) ([]features.Vector, []features.Vector, error) {
	sampler := NewSampler(s.shape, seed)
	numbers := make([]int, s.shape.DrawSize)
	positions := make([]grid.Position, s.shape.DrawSize)
	scratch := features.NewVector()

	means := make([]features.Vector, 0, nSims)
	var raw []features.Vector
	for sim := 0; sim < nSims; sim++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		mean := features.NewVector()
		for d := 0; d < nDraws; d++ {
			sampler.Draw(numbers)
			for i, n := range numbers {
				positions[i] = s.positions[n-s.shape.MinNumber]
			}
			s.extractor.ExtractPositions(positions, scratch)
			for i, val := range scratch {
				mean[i] += val
			}
			if len(raw) < rawCap {
				vec := features.NewVector()
				copy(vec, scratch)
				raw = append(raw, vec)
			}
		}
		for i := range mean {
			mean[i] /= float64(nDraws)
		}
		means = append(means, mean)

		done := int(completed.Add(1))
		if s.OnProgress != nil {
			s.OnProgress(done, total)
		}
	}
	return means, raw, nil
}

// shardRange splits nSims into nShards contiguous ranges, front-loading the
// remainder.
func shardRange(nSims, nShards, shard int) (start, end int) {
	base := nSims / nShards
	extra := nSims % nShards
	start = shard*base + min(shard, extra)
	size := base
	if shard < extra {
		size++
	}
	return start, start + size
}

// summarize computes per-feature baseline statistics over the simulation
// means. Non-finite samples (an all-vertical draw pushes eccentricity to
// +Inf) are dropped per feature before aggregation, and SampleCount records
// what remained.
func summarize(table *features.Table) map[string]features.SummaryStat {
	out := make(map[string]features.SummaryStat, len(table.FeatureNames))
	for idx, name := range table.FeatureNames {
		col := table.Column(idx)
		finite := col[:0:0]
		for _, v := range col {
			if !math.IsInf(v, 0) && !math.IsNaN(v) {
				finite = append(finite, v)
			}
		}

		stat := features.SummaryStat{SampleCount: len(finite)}
		if len(finite) > 0 {
			stat.Mean, _ = stats.Mean(finite)
			stat.Std, _ = stats.StandardDeviationSample(finite)
			stat.P2p5, _ = stats.Percentile(finite, 2.5)
			stat.P50, _ = stats.Median(finite)
			stat.P97p5, _ = stats.Percentile(finite, 97.5)
			stat.Min, _ = stats.Min(finite)
			stat.Max, _ = stats.Max(finite)
		}
		out[name] = stat
	}
	return out
}
