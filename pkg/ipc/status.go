package ipc

// Status describes where a client is in the connection lifecycle.
//
// Uninitialized and Connecting are client-level phases: no connection
// exists yet. A connection is born Connected and only moves forward from
// there; Closed and Disconnected are terminal for that connection. After a
// connection dies the client keeps reporting its terminal state until a
// fresh Connect succeeds.
type Status int

const (
	// StatusUninitialized is the state before the first Connect attempt.
	StatusUninitialized Status = iota

	// StatusConnecting covers discovery and handshake. Connect attempts
	// and data exchange are both rejected in this phase.
	StatusConnecting

	// StatusConnected is the only state in which frames may be sent.
	StatusConnected

	// StatusClosing is the short window between a local Close call and the
	// courtesy close frame going out.
	StatusClosing

	// StatusClosed is the terminal state after an orderly local close.
	StatusClosed

	// StatusDisconnected is the terminal state after the transport failed
	// or the stream ended without a close handshake.
	StatusDisconnected
)

// String returns the lowercase state name.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a connection's life. Terminal
// states never transition onward.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusDisconnected
}
