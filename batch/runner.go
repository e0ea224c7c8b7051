package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoJobs indicates that no jobs were provided to Run.
var ErrNoJobs = errors.New("no jobs provided")

// Job pairs a name with a unit of work, typically a closure calling
// Handle on some *Driver[P, K]. Driver is generic per projection type, so a
// Runner driving several distinct projector instances concurrently cannot
// hold them as one typed slice; Job's closure is the type-erasure boundary,
// in the same spirit as the Session/Typed split in the projector package.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner orchestrates several independent projector instances concurrently.
// Spec §5 only forbids hidden parallelism *within* one projector; distinct
// instances with distinct caches and state keys are always safe to run
// side by side, which is what Runner does.
//
// Adapted from the teacher's projection/runner.Runner, which ran several
// (Projection, ProcessorRunner) pairs in their own goroutines with
// fail-fast cancellation; here each Job already closes over its own
// Driver and transaction source.
type Runner struct{}

// NewRunner constructs a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts every job in its own goroutine. If every job succeeds, Run
// waits for all of them and returns nil. If any job returns an error other
// than context.Canceled, Run cancels the shared context so the remaining
// jobs can stop early and returns that first error at once, without
// waiting for the remaining jobs to exit. If the incoming ctx is canceled
// first, Run returns ctx.Err(), likewise without waiting.
func (r *Runner) Run(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return ErrNoJobs
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(jobs))

	for _, job := range jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			if err := j.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errs <- fmt.Errorf("job %q failed: %w", j.Name, err)
			}
		}(job)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	select {
	case err, ok := <-errs:
		if ok && err != nil {
			cancel()
			return err
		}
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
