package projector

import "time"

// Context is carried through every handler invocation for the events of a
// single transaction. It borrows the current Session, which is only valid
// for the enclosing batch.
//
// WasHandled is sticky: once true for a transaction it must never flip back
// to false, which is why it is only ever mutated through MarkHandled's OR.
type Context struct {
	TransactionID      string
	StreamID           string
	Checkpoint         int64
	TimestampUTC       time.Time
	TransactionHeaders map[string]any
	EventHeaders       map[string]any
	Session            Session

	wasHandled bool
}

// MarkHandled ORs handled into the sticky was-handled flag for this
// transaction. Callers must never assign WasHandled directly.
func (c *Context) MarkHandled(handled bool) {
	c.wasHandled = c.wasHandled || handled
}

// WasHandled reports whether any event so far in this transaction matched a
// registered handler.
func (c *Context) WasHandled() bool {
	return c.wasHandled
}
