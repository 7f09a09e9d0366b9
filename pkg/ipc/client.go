package ipc

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ipcerrors "github.com/ajitpratap0/discord-ipc-go/pkg/errors"
	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/presence"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/register"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

// Client drives the local IPC protocol for one application identifier. A
// client is created once, connected (possibly repeatedly, one live
// connection at a time), and handed commands; all methods are safe for
// concurrent use.
type Client struct {
	clientID string

	logger       logging.Logger
	dialer       transport.Dialer
	pollInterval time.Duration
	dialTimeout  time.Duration
	instr        Instrumentation
	tracer       trace.Tracer
	nonce        NonceGenerator
	autoRegister bool
	steamID      string

	listener *listenerRef

	mu         sync.Mutex
	connecting bool
	conn       *connection
}

// New creates a client for the given application identifier. The identifier
// must be the decimal form of the application's snowflake id; anything else
// is rejected before any pipe is touched.
func New(clientID string, opts ...Option) (*Client, error) {
	if _, err := strconv.ParseUint(clientID, 10, 64); err != nil {
		return nil, ipcerrors.InvalidClientID(clientID)
	}

	c := &Client{
		clientID:     clientID,
		logger:       logging.GetGlobalLogger(),
		pollInterval: transport.DefaultPollInterval,
		instr:        nopInstrumentation{},
		nonce:        defaultNonceGenerator,
		listener:     &listenerRef{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer == nil {
		c.dialer = transport.NewDialer(c.dialTimeout)
	}
	return c, nil
}

// Connect discovers a local endpoint satisfying the build preference list
// and binds the client to it. No arguments means "any build". Discovery
// failure is returned synchronously; ctx bounds the whole scan.
//
// Connecting a client that is already connecting or connected is a
// precondition violation. After a connection has died, Connect may be
// called again for a fresh one.
func (c *Client) Connect(ctx context.Context, builds ...protocol.Build) error {
	prefs, err := normalizePreferences(builds)
	if err != nil {
		return err
	}

	c.mu.Lock()
	switch st := c.statusLocked(); st {
	case StatusConnecting, StatusConnected, StatusClosing:
		c.mu.Unlock()
		return ipcerrors.AlreadyConnected(st.String())
	}
	c.connecting = true
	c.mu.Unlock()

	start := time.Now()
	ctx, span := c.startConnectSpan(ctx, prefs)
	defer span.End()

	neg := &negotiator{
		clientID: c.clientID,
		dialer:   c.dialer,
		poll:     c.pollInterval,
		logger:   logging.ForComponent(c.logger, "discovery"),
		instr:    c.instr,
		tracer:   c.tracer,
	}
	cand, err := neg.discover(ctx, prefs)

	c.mu.Lock()
	c.connecting = false
	if err != nil {
		c.mu.Unlock()
		c.instr.RecordConnect(OutcomeError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "discovery failed")
		c.logger.Error("connect failed", logging.ErrorField(err))
		return err
	}
	conn := newConnection(cand, c.pollInterval, c.nonce, c.listener,
		logging.ForComponent(c.logger, "connection"), c.instr)
	c.conn = conn
	c.mu.Unlock()

	conn.start()
	c.instr.RecordConnect(OutcomeOK, time.Since(start))
	span.SetAttributes(attribute.String("ipc.build", conn.build.String()))
	c.logger.Info("connected",
		logging.Int("pipe", conn.index),
		logging.String("build", conn.build.String()),
		logging.String("user", conn.user.Tag()),
		logging.Duration("took", time.Since(start)))

	if c.autoRegister {
		c.registerScheme()
	}
	return nil
}

// Send writes one command envelope on the live connection. The callback,
// when non-trivial, fires at most once when the correlated reply arrives.
// Most callers want the named command methods instead.
func (c *Client) Send(op protocol.Opcode, cmd protocol.Command, cb *Callback) error {
	conn := c.current()
	if conn == nil {
		return ipcerrors.NotConnected(sendLabel(op, cmd), c.Status().String())
	}

	if c.tracer != nil {
		_, span := c.tracer.Start(context.Background(), "ipc.send",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("ipc.opcode", op.String()),
				attribute.String("ipc.cmd", cmd.Cmd)))
		defer span.End()
		if err := conn.send(op, cmd, cb); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send rejected")
			return err
		}
		return nil
	}
	return conn.send(op, cmd, cb)
}

// setActivityArgs is the SET_ACTIVITY argument object. Activity is an
// interface so a nil presence clears to an empty object rather than null.
type setActivityArgs struct {
	PID      int         `json:"pid"`
	Activity interface{} `json:"activity"`
}

// joinResponseArgs carries the target of a join-request response.
type joinResponseArgs struct {
	UserID string `json:"user_id"`
}

// SetActivity publishes the rich-presence activity for this process. A nil
// activity publishes an empty one, clearing whatever was shown.
func (c *Client) SetActivity(a *presence.Activity, cb *Callback) error {
	args := setActivityArgs{PID: os.Getpid(), Activity: a}
	if a == nil {
		args.Activity = struct{}{}
	}
	return c.Send(protocol.OpcodeFrame, protocol.Command{
		Cmd:  protocol.CmdSetActivity,
		Args: args,
	}, cb)
}

// ClearActivity removes the published activity.
func (c *Client) ClearActivity(cb *Callback) error {
	return c.SetActivity(nil, cb)
}

// Subscribe asks the peer to start dispatching ev. Only the activity events
// are subscribable.
func (c *Client) Subscribe(ev protocol.Event, cb *Callback) error {
	if !ev.Subscribable() {
		return ipcerrors.NotSubscribable(string(ev))
	}
	return c.Send(protocol.OpcodeFrame, protocol.Command{
		Cmd: protocol.CmdSubscribe,
		Evt: ev,
	}, cb)
}

// Unsubscribe stops dispatches of ev.
func (c *Client) Unsubscribe(ev protocol.Event, cb *Callback) error {
	if !ev.Subscribable() {
		return ipcerrors.NotSubscribable(string(ev))
	}
	return c.Send(protocol.OpcodeFrame, protocol.Command{
		Cmd: protocol.CmdUnsubscribe,
		Evt: ev,
	}, cb)
}

// RespondToJoinRequest accepts or dismisses a pending join request from
// userID, as delivered by the OnActivityJoinRequest hook.
func (c *Client) RespondToJoinRequest(userID string, accept bool, cb *Callback) error {
	if strings.TrimSpace(userID) == "" {
		return ipcerrors.InvalidArgument("join response requires a user id")
	}
	cmd := protocol.CmdCloseActivityJoinRequest
	if accept {
		cmd = protocol.CmdSendActivityJoinInvite
	}
	return c.Send(protocol.OpcodeFrame, protocol.Command{
		Cmd:  cmd,
		Args: joinResponseArgs{UserID: userID},
	}, cb)
}

// Ping measures one round trip over the live connection. It blocks until
// the echo arrives, ctx ends, or the connection dies.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	conn := c.current()
	if conn == nil {
		return 0, ipcerrors.NotConnected("ping", c.Status().String())
	}

	start := time.Now()
	outcome := make(chan error, 1)
	cb := &Callback{
		OnSuccess: func(json.RawMessage) { outcome <- nil },
		OnError:   func(err error) { outcome <- err },
	}
	if err := conn.send(protocol.OpcodePing, protocol.Command{}, cb); err != nil {
		return 0, err
	}

	select {
	case err := <-outcome:
		if err != nil {
			return 0, err
		}
		return time.Since(start), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-conn.done:
		// The reader is gone; drain a racing echo before giving up.
		select {
		case err := <-outcome:
			if err != nil {
				return 0, err
			}
			return time.Since(start), nil
		default:
			return 0, ipcerrors.ConnectionLost("ping", nil)
		}
	}
}

// SetListener installs the event listener. It may be swapped at any time,
// including while connected; a nil listener silences all hooks.
func (c *Client) SetListener(l *Listener) {
	c.listener.set(l)
}

// Status reports the client's lifecycle state: a client-level phase while
// nothing is connected, otherwise the current connection's state — which,
// for a dead connection, stays at its terminal value until the next
// successful Connect.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Client) statusLocked() Status {
	if c.connecting {
		return StatusConnecting
	}
	if c.conn == nil {
		return StatusUninitialized
	}
	return c.conn.status()
}

// Build reports the discovered build variant, always a concrete one. Zero
// while nothing has been discovered.
func (c *Client) Build() protocol.Build {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.build
}

// User reports the account identity parsed from the handshake reply, or nil
// while nothing has been discovered.
func (c *Client) User() *protocol.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.user
}

// Close shuts the live connection down in order and joins its reader. Only
// a connected client may be closed.
func (c *Client) Close() error {
	conn := c.current()
	if conn == nil {
		return ipcerrors.NotConnected("close", c.Status().String())
	}
	return conn.close()
}

// current returns the connection commands should use, nil while none exists
// or discovery is in flight.
func (c *Client) current() *connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connecting {
		return nil
	}
	return c.conn
}

// registerScheme performs the post-connect best-effort URL-scheme
// registration requested by WithAutoRegister.
func (c *Client) registerScheme() {
	var err error
	if c.steamID != "" {
		err = register.SteamGame(c.clientID, c.steamID)
	} else {
		err = register.App(c.clientID, "")
	}
	if err != nil {
		c.logger.Warn("url scheme registration failed", logging.ErrorField(err))
		return
	}
	c.logger.Debug("url scheme registered", logging.String("client_id", c.clientID))
}

func (c *Client) startConnectSpan(ctx context.Context, prefs []protocol.Build) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	names := make([]string, len(prefs))
	for i, p := range prefs {
		names[i] = p.String()
	}
	return c.tracer.Start(ctx, "ipc.connect",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ipc.client_id", c.clientID),
			attribute.StringSlice("ipc.builds", names)))
}

// normalizePreferences validates the caller's build list. No entries means
// the wildcard; blank entries are dropped; unknown names are rejected.
func normalizePreferences(builds []protocol.Build) ([]protocol.Build, error) {
	if len(builds) == 0 {
		return []protocol.Build{protocol.BuildAny}, nil
	}
	prefs := make([]protocol.Build, 0, len(builds))
	for _, b := range builds {
		if strings.TrimSpace(string(b)) == "" {
			continue
		}
		parsed, err := protocol.ParseBuild(string(b))
		if err != nil {
			return nil, ipcerrors.InvalidArgument("unknown build variant %q", string(b))
		}
		prefs = append(prefs, parsed)
	}
	if len(prefs) == 0 {
		return nil, ipcerrors.EmptyPreferenceList()
	}
	return prefs, nil
}
