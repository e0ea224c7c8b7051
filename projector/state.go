package projector

import "time"

// State is the projector's own checkpoint row. Exactly one row exists per
// projector, keyed by a stable ID (the "state_key" in spec terms). Extra is
// an escape hatch for user extensions written by an EnrichState hook; it is
// opaque to the core and never interpreted by batch or checkpoint code.
type State struct {
	ID            string
	Checkpoint    int64
	LastUpdateUTC time.Time
	Extra         any
}
