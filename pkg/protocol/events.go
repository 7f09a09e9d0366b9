package protocol

// Event names a DISPATCH notification delivered by the peer.
type Event string

// Events the peer dispatches over the pipe.
const (
	// EventReady is dispatched once, as the handshake reply.
	EventReady Event = "READY"
	// EventError marks a reply envelope carrying a command failure.
	EventError Event = "ERROR"
	// EventActivityJoin fires when the local user accepts an invite to join.
	EventActivityJoin Event = "ACTIVITY_JOIN"
	// EventActivitySpectate fires when the local user starts spectating.
	EventActivitySpectate Event = "ACTIVITY_SPECTATE"
	// EventActivityJoinRequest fires when another user asks to join the
	// local user's party.
	EventActivityJoinRequest Event = "ACTIVITY_JOIN_REQUEST"
)

// Subscribable reports whether the event may be named in a SUBSCRIBE
// command. READY and ERROR are lifecycle markers the peer emits on its own.
func (e Event) Subscribable() bool {
	switch e {
	case EventActivityJoin, EventActivitySpectate, EventActivityJoinRequest:
		return true
	}
	return false
}
