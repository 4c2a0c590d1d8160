package harness

import (
	"context"
	"fmt"
	"log/slog"
)

// Batch is a sequence of specs bound to one workload family.
type Batch interface {
	Name() string
	Len() int
	Run(ctx context.Context, logger *slog.Logger, runID string) ([]Metrics, error)
}

// NewBatch binds family to specs.
func NewBatch[S any, O Output[O], P any](family Family[S, O, P], specs []S) Batch {
	return &familyBatch[S, O, P]{
		family: family,
		specs:  specs,
	}
}

type familyBatch[S any, O Output[O], P any] struct {
	family Family[S, O, P]
	specs  []S
}

func (b *familyBatch[S, O, P]) Name() string {
	return b.family.Name()
}

func (b *familyBatch[S, O, P]) Len() int {
	return len(b.specs)
}

func (b *familyBatch[S, O, P]) Run(
	ctx context.Context,
	logger *slog.Logger,
	runID string,
) ([]Metrics, error) {
	return RunBatch(ctx, logger, b.family, b.specs, runID)
}

// RunBatch creates and runs one job per spec, strictly in order. The first
// failure aborts the batch; the metrics of jobs completed before it are
// returned together with a *BatchError.
func RunBatch[S any, O Output[O], P any](
	ctx context.Context,
	logger *slog.Logger,
	family Family[S, O, P],
	specs []S,
	runID string,
) ([]Metrics, error) {
	name := family.Name()
	logger = logger.With(slog.String("job_name", name))

	logger.InfoContext(ctx, "running jobs", slog.Int("jobs", len(specs)))

	all := make([]Metrics, 0, len(specs))

	for i, spec := range specs {
		size := family.SizeOf(spec)

		logger.InfoContext(ctx, "begin job",
			slog.Int("job_number", i),
			slog.Any("job_size", size),
		)

		job, err := family.Create(spec)
		if err != nil {
			return all, &BatchError{
				Family:    name,
				Completed: len(all),
				Index:     i,
				Err: &Violation{
					Kind:  KindSetup,
					Phase: PhaseInit,
					Job:   name,
					Size:  size,
					Err:   fmt.Errorf("%w: %w", ErrSetup, err),
				},
			}
		}

		m, err := RunJob(ctx, logger, name, size, job)
		if err != nil {
			return all, &BatchError{
				Family:    name,
				Completed: len(all),
				Index:     i,
				Err:       err,
			}
		}

		m.RunID = runID

		logger.InfoContext(ctx, "end job",
			slog.Int("job_number", i),
			slog.Any("metrics", m),
		)

		all = append(all, m)
	}

	logger.InfoContext(ctx, "finished jobs", slog.Int("jobs", len(all)))

	return all, nil
}
