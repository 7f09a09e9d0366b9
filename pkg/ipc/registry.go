package ipc

import (
	"sync"

	"github.com/ajitpratap0/discord-ipc-go/pkg/errors"
)

// callbackRegistry correlates outbound commands with inbound replies by
// nonce. Registration and lookup-and-remove are atomic, so a callback fires
// at most once even if the peer repeats a reply.
type callbackRegistry struct {
	mu      sync.Mutex
	pending map[string]*Callback
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{pending: make(map[string]*Callback)}
}

// register stores cb under nonce. A token that is still pending is a caller
// error, never a silent overwrite.
func (r *callbackRegistry) register(nonce string, cb *Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[nonce]; exists {
		return errors.DuplicateNonce(nonce)
	}
	r.pending[nonce] = cb
	return nil
}

// take removes and returns the callback registered under nonce. The removal
// is what makes delivery at-most-once: a second reply with the same token
// finds nothing.
func (r *callbackRegistry) take(nonce string) (*Callback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.pending[nonce]
	if ok {
		delete(r.pending, nonce)
	}
	return cb, ok
}

// size reports the number of callbacks still awaiting replies.
func (r *callbackRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
