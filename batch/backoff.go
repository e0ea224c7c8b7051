package batch

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/cairnlabs/esprojector/projector"
)

// BackoffExceptionPolicy returns a ready-made ExceptionPolicy that lets a
// failed batch run up to maxAttempts attempts in total (so at most
// maxAttempts-1 retries), sleeping an exponentially increasing, jittered
// delay before each retry, and aborts once that many attempts have failed. Mirrors the backoff-before-redial idiom used around gRPC
// dialing elsewhere in the retrieval pack, applied here to batch retries
// instead of connection attempts.
func BackoffExceptionPolicy(maxAttempts int) projector.ExceptionPolicy {
	b := backoff.NewExponentialBackOff()

	return func(ctx context.Context, _ *projector.ProjectionFailure, attempts int) (projector.Resolution, error) {
		if attempts >= maxAttempts {
			return projector.Abort, nil
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return projector.Abort, nil
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			return projector.Retry, nil
		case <-ctx.Done():
			return projector.Abort, ctx.Err()
		}
	}
}
