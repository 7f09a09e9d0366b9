package ipc

import "encoding/json"

// Callback receives the outcome of one command. Exactly one of the two
// handlers fires, at most once, when the reply carrying the command's
// correlation token arrives. Either handler may be nil.
//
// Handlers run on the connection's reader goroutine; they must not block
// and must not call back into the client synchronously in ways that would
// wait on the reader itself.
type Callback struct {
	// OnSuccess receives the raw data object of a successful reply.
	OnSuccess func(data json.RawMessage)

	// OnError receives the peer-reported command failure.
	OnError func(err error)
}

// trivial reports whether the callback has no handlers at all. Trivial
// callbacks are never registered: fire-and-forget commands do not hold a
// registry slot.
func (c *Callback) trivial() bool {
	return c == nil || (c.OnSuccess == nil && c.OnError == nil)
}

// succeed invokes the success handler if set.
func (c *Callback) succeed(data json.RawMessage) {
	if c != nil && c.OnSuccess != nil {
		c.OnSuccess(data)
	}
}

// fail invokes the error handler if set.
func (c *Callback) fail(err error) {
	if c != nil && c.OnError != nil {
		c.OnError(err)
	}
}
