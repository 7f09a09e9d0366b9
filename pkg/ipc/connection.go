package ipc

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	ipcerrors "github.com/ajitpratap0/discord-ipc-go/pkg/errors"
	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

// connection owns one live pipe from discovery until a terminal state. It
// is born Connected; Closed (orderly, local or peer) and Disconnected
// (failure) end its life. A client discards its connection on terminal
// states and builds a fresh one on the next Connect.
type connection struct {
	conn   transport.Conn
	reader *transport.FrameReader
	index  int
	build  protocol.Build
	user   *protocol.User

	nonce    NonceGenerator
	registry *callbackRegistry
	listener *listenerRef
	logger   logging.Logger
	instr    Instrumentation

	mu    sync.Mutex
	state Status

	// stop asks a blocked read to give up; done closes when the reader
	// goroutine has exited.
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newConnection(cand *candidate, poll time.Duration, nonce NonceGenerator, listener *listenerRef, logger logging.Logger, instr Instrumentation) *connection {
	c := &connection{
		conn:     cand.conn,
		reader:   transport.NewFrameReader(cand.conn, poll),
		index:    cand.index,
		build:    cand.build,
		user:     cand.user,
		nonce:    nonce,
		registry: newCallbackRegistry(),
		listener: listener,
		logger: logger.WithFields(
			logging.Int("pipe", cand.index),
			logging.String("build", cand.build.String())),
		instr: instr,
		state: StatusConnected,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	c.instr.RecordStatus(StatusConnected.String())
	return c
}

// start launches the reader goroutine. Called exactly once, by Connect.
func (c *connection) start() {
	go c.readLoop()
}

// status returns the connection's current lifecycle state.
func (c *connection) status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// transition moves the state machine forward under the lock and reports the
// move. Terminal states refuse further transitions.
func (c *connection) transition(to Status) {
	c.logger.Debug("state transition",
		logging.String("from", c.state.String()),
		logging.String("to", to.String()))
	c.state = to
	c.instr.RecordStatus(to.String())
}

// send correlates, encodes, and writes one command envelope as a single
// Write call. It may be called from any goroutine.
//
// Synchronous errors are limited to precondition violations, argument
// marshal failures, and duplicate correlation tokens. A failed write is not
// returned: it moves the connection to Disconnected and fires the
// disconnect hook, like any other transport death in the async phase.
func (c *connection) send(op protocol.Opcode, cmd protocol.Command, cb *Callback) error {
	c.mu.Lock()
	if c.state != StatusConnected {
		st := c.state
		c.mu.Unlock()
		return ipcerrors.NotConnected(sendLabel(op, cmd), st.String())
	}
	c.mu.Unlock()

	cmd.Nonce = c.nonce()
	payload, err := json.Marshal(cmd)
	if err != nil {
		return ipcerrors.InvalidArgument("command arguments are not serializable: %v", err)
	}

	registered := !cb.trivial()
	if registered {
		if err := c.registry.register(cmd.Nonce, cb); err != nil {
			return err
		}
	}

	frame := protocol.NewFrame(op, payload)
	if _, err := c.conn.Write(frame.Encode()); err != nil {
		if registered {
			c.registry.take(cmd.Nonce)
		}
		c.logger.Error("frame write failed",
			logging.String("opcode", op.String()),
			logging.ErrorField(err))
		c.fail(ipcerrors.WriteFailed(err))
		return nil
	}

	c.instr.RecordFrame(DirectionSent, op.String(), len(payload))
	c.listener.fireFrameSent(frame)
	c.logger.Debug("frame sent",
		logging.String("opcode", op.String()),
		logging.String("cmd", cmd.Cmd),
		logging.String("nonce", cmd.Nonce),
		logging.Int("bytes", len(payload)))
	return nil
}

// sendLabel names a rejected send in precondition errors.
func sendLabel(op protocol.Opcode, cmd protocol.Command) string {
	if cmd.Cmd != "" {
		return strings.ToLower(cmd.Cmd)
	}
	return strings.ToLower(op.String())
}

// close shuts the connection down in order: announce Closing, stop the
// reader, send the courtesy close frame, mark Closed, release the pipe,
// join the reader goroutine.
func (c *connection) close() error {
	c.mu.Lock()
	if c.state != StatusConnected {
		st := c.state
		c.mu.Unlock()
		return ipcerrors.NotConnected("close", st.String())
	}
	c.transition(StatusClosing)
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.stop) })

	// Courtesy only: the pipe may already be gone.
	if err := protocol.WriteFrame(c.conn, protocol.NewFrame(protocol.OpcodeClose, []byte("{}"))); err != nil {
		c.logger.Debug("close frame not delivered", logging.ErrorField(err))
	}

	c.mu.Lock()
	c.transition(StatusClosed)
	c.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug("pipe close failed", logging.ErrorField(err))
	}
	<-c.done
	c.logger.Info("connection closed")
	return nil
}

// fail moves a live connection to Disconnected and fires the disconnect
// hook. During a local close, and after a terminal state, it does nothing:
// whoever completed the first terminal transition owns the hooks.
func (c *connection) fail(err error) {
	c.mu.Lock()
	if c.state != StatusConnected {
		c.mu.Unlock()
		return
	}
	c.transition(StatusDisconnected)
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.stop) })
	_ = c.conn.Close()

	c.logger.Error("connection lost", logging.ErrorField(err))
	c.listener.fireDisconnect(err)
}

// peerClosed handles an orderly close initiated by the peer.
func (c *connection) peerClosed(payload json.RawMessage) {
	c.mu.Lock()
	if c.state != StatusConnected {
		c.mu.Unlock()
		return
	}
	c.transition(StatusClosed)
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.stop) })
	_ = c.conn.Close()

	c.logger.Info("peer closed the connection")
	c.listener.fireClose(payload)
}

// readLoop is the connection's single reader goroutine. Frames are
// processed strictly in arrival order, one at a time; the loop exits on a
// close frame, a requested stop, or any read or decode failure.
func (c *connection) readLoop() {
	defer close(c.done)

	for {
		frame, err := c.reader.Next(c.stop)
		if err != nil {
			c.readFailed(err)
			return
		}

		c.instr.RecordFrame(DirectionReceived, frame.Op.String(), len(frame.Payload))
		c.listener.fireFrameReceived(frame)

		if exit := c.dispatch(frame); exit {
			return
		}
	}
}

// readFailed classifies a reader error and completes the state machine.
// Malformed wire data is a peer protocol fault; everything else, a clean
// EOF included, is transport loss.
func (c *connection) readFailed(err error) {
	switch {
	case errors.Is(err, transport.ErrStopped):
		// Local close in progress; it owns the transition.
	case protocol.IsMalformed(err):
		c.fail(ipcerrors.MalformedFrame(err))
	default:
		c.fail(ipcerrors.ConnectionLost("read", err))
	}
}

// dispatch routes one inbound frame. It returns true when the reader loop
// must exit.
func (c *connection) dispatch(frame *protocol.Frame) bool {
	switch frame.Op {
	case protocol.OpcodeClose:
		c.peerClosed(frame.Payload)
		return true

	case protocol.OpcodePing:
		return c.echoPong(frame.Payload)

	case protocol.OpcodePong:
		c.resolvePong(frame.Payload)
		return false

	default:
		return c.dispatchMessage(frame.Payload)
	}
}

// echoPong answers a peer ping with a pong carrying the same payload.
func (c *connection) echoPong(payload []byte) bool {
	frame := protocol.NewFrame(protocol.OpcodePong, payload)
	if _, err := c.conn.Write(frame.Encode()); err != nil {
		c.fail(ipcerrors.WriteFailed(err))
		return true
	}
	c.instr.RecordFrame(DirectionSent, protocol.OpcodePong.String(), len(payload))
	c.listener.fireFrameSent(frame)
	return false
}

// resolvePong completes a pending round-trip probe. Pongs we never asked
// for are logged and dropped.
func (c *connection) resolvePong(payload []byte) {
	var echo struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(payload, &echo); err != nil || echo.Nonce == "" {
		c.logger.Debug("unsolicited pong")
		return
	}
	cb, ok := c.registry.take(echo.Nonce)
	if !ok {
		c.logger.Debug("pong without pending probe", logging.String("nonce", echo.Nonce))
		return
	}
	c.instr.RecordCallback(OutcomeOK)
	cb.succeed(payload)
}

// dispatchMessage decodes one FRAME payload and routes the resulting
// message variant. Returns true when the payload was undecodable and the
// connection has been failed.
func (c *connection) dispatchMessage(payload []byte) bool {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		c.fail(ipcerrors.InvalidPayload(err))
		return true
	}

	switch m := msg.(type) {
	case *protocol.Reply:
		cb, ok := c.registry.take(m.Nonce)
		if !ok {
			c.logger.Debug("reply with no pending callback", logging.String("nonce", m.Nonce))
			return false
		}
		c.instr.RecordCallback(OutcomeOK)
		cb.succeed(m.Data)

	case *protocol.ErrorReply:
		cb, ok := c.registry.take(m.Nonce)
		if !ok {
			c.logger.Warn("peer error with no pending callback",
				logging.String("nonce", m.Nonce),
				logging.Int("peer_code", m.Code),
				logging.String("message", m.Message))
			return false
		}
		c.instr.RecordCallback(OutcomeError)
		cb.fail(ipcerrors.PeerError(m.Nonce, m.Code, m.Message))

	case *protocol.ActivityJoin:
		c.instr.RecordDispatch(string(protocol.EventActivityJoin))
		c.listener.fireActivityJoin(m.Secret)

	case *protocol.ActivitySpectate:
		c.instr.RecordDispatch(string(protocol.EventActivitySpectate))
		c.listener.fireActivitySpectate(m.Secret)

	case *protocol.ActivityJoinRequest:
		c.instr.RecordDispatch(string(protocol.EventActivityJoinRequest))
		c.listener.fireActivityJoinRequest(m.Secret, m.User)

	case *protocol.UnknownEvent:
		if m.Event == protocol.EventReady {
			c.instr.RecordDispatch(string(protocol.EventReady))
			c.listener.fireReady()
			return false
		}
		c.instr.RecordDispatch("unknown")
		c.logger.Debug("unknown event", logging.String("evt", string(m.Event)))
		c.listener.fireUnknownEvent(m.Event, m.Raw)
	}
	return false
}
