// Package batch implements the BatchDriver and RetryController: splitting
// an ordered transaction list into batches, running each inside its own
// store transaction, deciding when to persist the projector's checkpoint,
// and retrying a failed batch per a user-supplied ExceptionPolicy.
//
// Grounded on the teacher's StoreConfig/StoreOption functional-option
// pattern (es/adapters/sqlite/store.go) for Options[P, K], and on its
// DBTX-style transaction-agnostic session handling for how a batch owns its
// store session for exactly one batch.
package batch
