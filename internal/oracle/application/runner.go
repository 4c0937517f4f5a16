package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

// Summary aggregates the outcome of one batch run.
type Summary struct {
	Processed int
	Accepted  int
	Discarded int
}

// Runner fans a batch of instances out over a worker pool. Instances are
// independent and the world is read-only, so workers need no coordination;
// results are reassembled in input order to keep batch output deterministic.
type Runner struct {
	pipeline *Pipeline
	logger   *slog.Logger
	workers  int
}

// NewRunner creates a batch runner. Workers below 1 run the batch serially.
func NewRunner(pipeline *Pipeline, logger *slog.Logger, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pipeline: pipeline, logger: logger, workers: workers}
}

// Run processes every instance and returns the accepted results in input
// order. Discarded instances produce no result and are logged with their
// diagnostic counts. A structural error on any instance cancels the batch.
func (r *Runner) Run(ctx context.Context, world *worldDomain.Definition, instances []domain.Instance) ([]domain.OracleResult, Summary, error) {
	type outcome struct {
		result *domain.OracleResult
		stats  Stats
	}
	outcomes := make([]outcome, len(instances))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, instance := range instances {
		i, instance := i, instance
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, stats, err := r.pipeline.ProcessInstance(world, instance)
			if err != nil {
				return err
			}
			outcomes[i] = outcome{result: result, stats: stats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Processed: len(instances)}
	results := make([]domain.OracleResult, 0, len(instances))
	for i, out := range outcomes {
		if out.stats.Discarded {
			summary.Discarded++
			r.logger.Debug("instance discarded",
				"instance_id", instances[i].InstanceID,
				"generated", out.stats.GeneratedCount,
				"post_filter", out.stats.PostFilterCount,
				"post_room_join", out.stats.PostRoomJoinCount,
				"requested", out.stats.RequestedCount,
			)
			continue
		}
		summary.Accepted++
		results = append(results, *out.result)
	}

	return results, summary, nil
}
