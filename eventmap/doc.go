// Package eventmap builds the static routing table from event kind to
// create/update/delete/custom handler, exactly as spec'd: a Builder
// registers handlers (by event struct type, inferred once via reflection at
// registration time, never at dispatch time), and Build finalizes it against
// four dispatch shims supplied by the caller — ordinarily a
// dispatch.Dispatcher, which implements the load-or-cache and
// overwrite/create-if-missing policy the shims need to do their job.
//
// Go forbids additional type parameters on methods, so registering a
// differently-typed event per call uses package-level generic functions
// (Create, Update, Delete, Custom) rather than Builder methods.
package eventmap
