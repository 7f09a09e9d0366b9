package ipc

import (
	"encoding/json"
	"sync"

	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

// Listener receives connection-level events. Every field is optional; nil
// hooks are skipped. Hooks run on the connection's reader goroutine and
// should hand work off rather than block it.
type Listener struct {
	// OnReady fires when a READY dispatch arrives after the handshake.
	OnReady func()

	// OnActivityJoin fires when the local user accepted a game invite; the
	// secret identifies the session to join.
	OnActivityJoin func(secret string)

	// OnActivitySpectate fires when the local user chose to spectate.
	OnActivitySpectate func(secret string)

	// OnActivityJoinRequest fires when another user asks to join. Respond
	// with Client.RespondToJoinRequest.
	OnActivityJoinRequest func(secret string, user *protocol.User)

	// OnUnknownEvent fires for dispatches outside the known set, with the
	// raw payload for forward compatibility.
	OnUnknownEvent func(event protocol.Event, raw json.RawMessage)

	// OnClose fires when the peer initiated an orderly close; payload is
	// whatever the close frame carried.
	OnClose func(payload json.RawMessage)

	// OnDisconnect fires when the connection died without a close
	// handshake, with the classified failure.
	OnDisconnect func(err error)

	// OnFrameSent and OnFrameReceived are wire taps observing every frame
	// after encode and after decode. Handy for debugging and tests.
	OnFrameSent     func(f *protocol.Frame)
	OnFrameReceived func(f *protocol.Frame)
}

// listenerRef shares one swappable listener between the client and its
// connections, so SetListener takes effect on a live connection without
// restarting the reader.
type listenerRef struct {
	mu sync.RWMutex
	l  *Listener
}

func (r *listenerRef) set(l *Listener) {
	r.mu.Lock()
	r.l = l
	r.mu.Unlock()
}

func (r *listenerRef) get() *Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.l
}

func (r *listenerRef) fireReady() {
	if l := r.get(); l != nil && l.OnReady != nil {
		l.OnReady()
	}
}

func (r *listenerRef) fireActivityJoin(secret string) {
	if l := r.get(); l != nil && l.OnActivityJoin != nil {
		l.OnActivityJoin(secret)
	}
}

func (r *listenerRef) fireActivitySpectate(secret string) {
	if l := r.get(); l != nil && l.OnActivitySpectate != nil {
		l.OnActivitySpectate(secret)
	}
}

func (r *listenerRef) fireActivityJoinRequest(secret string, user *protocol.User) {
	if l := r.get(); l != nil && l.OnActivityJoinRequest != nil {
		l.OnActivityJoinRequest(secret, user)
	}
}

func (r *listenerRef) fireUnknownEvent(event protocol.Event, raw json.RawMessage) {
	if l := r.get(); l != nil && l.OnUnknownEvent != nil {
		l.OnUnknownEvent(event, raw)
	}
}

func (r *listenerRef) fireClose(payload json.RawMessage) {
	if l := r.get(); l != nil && l.OnClose != nil {
		l.OnClose(payload)
	}
}

func (r *listenerRef) fireDisconnect(err error) {
	if l := r.get(); l != nil && l.OnDisconnect != nil {
		l.OnDisconnect(err)
	}
}

func (r *listenerRef) fireFrameSent(f *protocol.Frame) {
	if l := r.get(); l != nil && l.OnFrameSent != nil {
		l.OnFrameSent(f)
	}
}

func (r *listenerRef) fireFrameReceived(f *protocol.Frame) {
	if l := r.get(); l != nil && l.OnFrameReceived != nil {
		l.OnFrameReceived(f)
	}
}
