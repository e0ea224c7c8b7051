package batch

import (
	"context"

	"github.com/cairnlabs/esprojector/projector"
)

// retryState is shared across a bisection so attempts and individual-mode
// are tracked per original batch, not reset for each bisected sub-batch.
type retryState struct {
	attempts       int
	individualMode bool
}

// runWithRetry is the RetryController (C6) entry point for one top-level
// batch.
func (d *Driver[P, K]) runWithRetry(ctx context.Context, batch []projector.Transaction, isLastOfPage bool) error {
	return d.runWithRetryState(ctx, batch, isLastOfPage, &retryState{})
}

func (d *Driver[P, K]) runWithRetryState(ctx context.Context, batch []projector.Transaction, isLastOfPage bool, state *retryState) error {
	retrying := false

	for {
		state.attempts++
		err := d.projectBatch(ctx, batch, isLastOfPage || retrying)
		if err == nil {
			return nil
		}
		if isCancellation(err) {
			return err
		}

		pf, ok := projector.AsProjectionFailure(err)
		if !ok {
			return err
		}

		resolution, policyErr := d.opts.ExceptionPolicy(ctx, pf, state.attempts)
		if policyErr != nil {
			return policyErr
		}

		switch resolution {
		case projector.Abort:
			return pf

		case projector.Retry:
			retrying = true
			continue

		case projector.RetryIndividual:
			if state.individualMode {
				return projector.ErrRetryInconsistency
			}
			state.individualMode = true
			for _, tx := range batch {
				if err := d.runWithRetryState(ctx, []projector.Transaction{tx}, true, state); err != nil {
					return err
				}
			}
			return nil

		case projector.Ignore:
			return nil

		default:
			return &projector.ConfigurationError{Msg: "exception policy returned an unknown resolution"}
		}
	}
}
