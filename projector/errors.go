package projector

import (
	"errors"
	"fmt"
)

// ProjectionFailure is raised when a handler or store call fails while
// projecting an event, a transaction, or a batch. It accumulates origin
// information as it propagates: a child projector tags ChildProjectorID
// first, the transaction loop tags TransactionID/Event, and the batch driver
// tags ProjectorID/Batch last.
type ProjectionFailure struct {
	ProjectorID      string
	ChildProjectorID string
	TransactionID    string
	Event            *EventEnvelope
	Batch            []Transaction
	Cause            error
}

func (e *ProjectionFailure) Error() string {
	switch {
	case e.ChildProjectorID != "" && e.TransactionID != "":
		return fmt.Sprintf("child projector %q failed projecting transaction %q: %v", e.ChildProjectorID, e.TransactionID, e.Cause)
	case e.TransactionID != "":
		return fmt.Sprintf("projector %q failed projecting transaction %q: %v", e.ProjectorID, e.TransactionID, e.Cause)
	case e.ProjectorID != "":
		return fmt.Sprintf("projector %q failed projecting batch: %v", e.ProjectorID, e.Cause)
	default:
		return fmt.Sprintf("projection failed: %v", e.Cause)
	}
}

func (e *ProjectionFailure) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports invalid arguments at construction time: a nil
// projection factory or identity setter, a nil projector or session
// factory, an empty state key, a batch size below 1, a nil enrich hook or
// exception policy, and similar. A nil cache is not an error; it defaults
// to a passthrough cache. It is always raised synchronously and never
// swallowed.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// ErrRetryInconsistency is returned when an ExceptionPolicy resolves to
// RetryIndividual while the controller is already retrying individually.
// It is non-recoverable.
var ErrRetryInconsistency = errors.New("already retrying individually")

// AsProjectionFailure is a convenience wrapper around errors.As for the
// common case of inspecting a propagating error.
func AsProjectionFailure(err error) (*ProjectionFailure, bool) {
	var pf *ProjectionFailure
	ok := errors.As(err, &pf)
	return pf, ok
}
