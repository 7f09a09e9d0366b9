package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

const (
	testPoll     = 5 * time.Millisecond
	testClientID = "123456789012345678"
	testTimeout  = 2 * time.Second
)

// fakeEndpoint scripts the desktop end of one numbered pipe. The zero reply
// means "answer the handshake canonically for build"; a non-nil reply is
// sent verbatim instead; mute accepts the dial and never answers.
type fakeEndpoint struct {
	build protocol.Build
	reply []byte
	mute  bool
}

// scriptedDialer hands out in-memory pipe pairs per the endpoint scripts
// and parks the desktop halves for the test to drive.
type scriptedDialer struct {
	mu      sync.Mutex
	scripts map[int]fakeEndpoint
	dialed  []int
	peers   map[int]chan net.Conn
}

func newScriptedDialer(scripts map[int]fakeEndpoint) *scriptedDialer {
	d := &scriptedDialer{
		scripts: make(map[int]fakeEndpoint, len(scripts)),
		peers:   make(map[int]chan net.Conn),
	}
	for index, script := range scripts {
		d.scripts[index] = script
		d.peers[index] = make(chan net.Conn, 16)
	}
	return d
}

func (d *scriptedDialer) Dial(_ context.Context, index int) (transport.Conn, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, index)
	script, ok := d.scripts[index]
	peers := d.peers[index]
	d.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("dial pipe %d: connection refused", index)
	}
	local, remote := net.Pipe()
	go answerHandshake(script, remote, peers)
	return local, nil
}

// setScript adds or replaces an endpoint while the dialer is live.
func (d *scriptedDialer) setScript(index int, script fakeEndpoint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts[index] = script
	if d.peers[index] == nil {
		d.peers[index] = make(chan net.Conn, 16)
	}
}

// dialedIndices returns the probe order observed so far.
func (d *scriptedDialer) dialedIndices() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.dialed...)
}

// peer returns the desktop half of the oldest unclaimed accepted dial of
// index, failing the test if none arrives.
func (d *scriptedDialer) peer(t *testing.T, index int) net.Conn {
	t.Helper()
	d.mu.Lock()
	ch := d.peers[index]
	d.mu.Unlock()
	require.NotNil(t, ch, "no script for pipe %d", index)

	select {
	case conn := <-ch:
		return conn
	case <-time.After(testTimeout):
		t.Fatalf("no peer connection handed off for pipe %d", index)
		return nil
	}
}

// answerHandshake consumes the handshake frame, answers with the scripted
// reply, and parks the connection for the test to claim.
func answerHandshake(script fakeEndpoint, conn net.Conn, peers chan net.Conn) {
	frame, err := protocol.ReadFrame(conn)
	if err != nil || frame.Op != protocol.OpcodeHandshake {
		_ = conn.Close()
		return
	}
	if script.mute {
		select {
		case peers <- conn:
		default:
			_ = conn.Close()
		}
		return
	}
	reply := script.reply
	if reply == nil {
		reply = handshakeReply(script.build, 99, "tester")
	}
	if err := protocol.WriteFrame(conn, protocol.NewFrame(protocol.OpcodeFrame, reply)); err != nil {
		_ = conn.Close()
		return
	}
	select {
	case peers <- conn:
	default:
		_ = conn.Close()
	}
}

// handshakeReply renders the canonical READY reply announcing build.
func handshakeReply(build protocol.Build, userID int64, username string) []byte {
	endpoints := map[protocol.Build]string{
		protocol.BuildStable: "https://discordapp.com/api",
		protocol.BuildPTB:    "https://ptb.discordapp.com/api",
		protocol.BuildCanary: "https://canary.discordapp.com/api",
	}
	return []byte(fmt.Sprintf(
		`{"cmd":"DISPATCH","evt":"READY","data":{"config":{"api_endpoint":%q},"user":{"id":"%d","username":%q,"discriminator":"0","avatar":""}}}`,
		endpoints[build], userID, username))
}

// quietLogger returns a logger that swallows all test output.
func quietLogger() logging.Logger {
	return logging.New(io.Discard, logging.NewTextFormatter())
}

// newTestClient builds a client on the scripted dialer with quiet logging
// and a fast poll.
func newTestClient(t *testing.T, dialer transport.Dialer, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithDialer(dialer),
		WithPollInterval(testPoll),
		WithLogger(quietLogger()),
	}
	c, err := New(testClientID, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// connectAndClaim connects the client and returns the desktop half of the
// chosen pipe.
func connectAndClaim(t *testing.T, c *Client, d *scriptedDialer, index int, builds ...protocol.Build) net.Conn {
	t.Helper()
	require.NoError(t, c.Connect(context.Background(), builds...))
	return d.peer(t, index)
}

// readPeerFrame reads one frame on the desktop half with a deadline.
func readPeerFrame(t *testing.T, conn net.Conn) *protocol.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(testTimeout)))
	frame, err := protocol.ReadFrame(conn)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Time{}))
	return frame
}

// writePeerFrame writes one frame from the desktop half with a deadline.
func writePeerFrame(t *testing.T, conn net.Conn, op protocol.Opcode, payload string) {
	t.Helper()
	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(testTimeout)))
	require.NoError(t, protocol.WriteFrame(conn, protocol.NewFrame(op, []byte(payload))))
	// Clearing the deadline races the client closing its half in reaction
	// to the delivered frame; net.Pipe refuses deadline ops on a pipe with
	// a closed end.
	if err := conn.SetWriteDeadline(time.Time{}); err != nil {
		require.ErrorIs(t, err, io.ErrClosedPipe)
	}
}

// nextPeerFrame arms a one-frame read on the desktop half before the client
// writes. In-memory pipe writes block until read, so the read must already
// be in flight when the command goes out. The channel closes on read failure.
func nextPeerFrame(conn net.Conn) <-chan *protocol.Frame {
	ch := make(chan *protocol.Frame, 1)
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(testTimeout))
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			close(ch)
			return
		}
		_ = conn.SetReadDeadline(time.Time{})
		ch <- frame
	}()
	return ch
}

// awaitFrame collects the frame armed by nextPeerFrame.
func awaitFrame(t *testing.T, ch <-chan *protocol.Frame) *protocol.Frame {
	t.Helper()
	select {
	case frame, ok := <-ch:
		require.True(t, ok, "peer read failed")
		return frame
	case <-time.After(testTimeout):
		t.Fatal("no frame arrived at the peer")
		return nil
	}
}

// discardPeerFrames pumps the desktop half so synchronous in-memory writes
// by the code under test never block. It stops when the pipe dies.
func discardPeerFrames(conn net.Conn) {
	go func() {
		for {
			if _, err := protocol.ReadFrame(conn); err != nil {
				return
			}
		}
	}()
}

// recv pops the next value off ch, failing the test after the shared
// timeout. Listener hooks in tests report through buffered channels; this is
// the matching receive side.
func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("expected value never arrived")
		var zero T
		return zero
	}
}

// sentEnvelope is the decoded body of an outbound command frame.
type sentEnvelope struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Args  json.RawMessage `json:"args"`
}

func decodeSent(t *testing.T, frame *protocol.Frame) sentEnvelope {
	t.Helper()
	var env sentEnvelope
	require.NoError(t, json.Unmarshal(frame.Payload, &env))
	return env
}

// waitForStatus polls until the client reports want, failing after the
// shared timeout.
func waitForStatus(t *testing.T, c *Client, want Status) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for time.Now().Before(deadline) {
		if c.Status() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("status never reached %s, still %s", want, c.Status())
}
