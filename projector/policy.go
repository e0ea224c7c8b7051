package projector

import "context"

// Resolution is the outcome an ExceptionPolicy returns for a failed batch.
type Resolution int

const (
	// Abort rethrows the tagged ProjectionFailure to the caller of Handle.
	Abort Resolution = iota
	// Retry re-runs the same batch as a whole.
	Retry
	// RetryIndividual bisects the batch into single-transaction batches and
	// retries each one independently, in input order.
	RetryIndividual
	// Ignore swallows the failure and moves on to the next batch. The
	// checkpoint does not advance for the ignored batch.
	Ignore
)

func (r Resolution) String() string {
	switch r {
	case Abort:
		return "Abort"
	case Retry:
		return "Retry"
	case RetryIndividual:
		return "RetryIndividual"
	case Ignore:
		return "Ignore"
	default:
		return "Unknown"
	}
}

// ExceptionPolicy decides how a RetryController should respond to a failed
// batch. It is consulted with the original batch already attached to err via
// err.Batch, and with attempts counting from 1.
type ExceptionPolicy func(ctx context.Context, err *ProjectionFailure, attempts int) (Resolution, error)

// AlwaysAbort is the default ExceptionPolicy: it never retries.
func AlwaysAbort(context.Context, *ProjectionFailure, int) (Resolution, error) {
	return Abort, nil
}
