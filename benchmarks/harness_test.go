// Package benchmarks exercises the IPC client end to end over in-memory
// pipes: frame codec costs, presence marshalling, and command throughput
// against a scripted peer.
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ajitpratap0/discord-ipc-go/pkg/ipc"
	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/presence"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

const benchClientID = "123456789012345678"

// readyReply is the handshake READY dispatch of a stable endpoint.
const readyReply = `{"cmd":"DISPATCH","evt":"READY","data":{"v":1,"config":{"api_endpoint":"https://discordapp.com/api","cdn_host":"cdn.discordapp.com","environment":"production"},"user":{"id":"99","username":"bench","discriminator":"0"}},"nonce":""}`

// peerBehavior runs the scripted peer's side of the pipe once the
// handshake has completed.
type peerBehavior func(conn net.Conn)

// pipeDialer serves one scripted endpoint at index 0 over net.Pipe.
type pipeDialer struct {
	behavior peerBehavior
}

func (d *pipeDialer) Dial(ctx context.Context, index int) (transport.Conn, error) {
	if index != 0 {
		return nil, fmt.Errorf("dial pipe %d: connection refused", index)
	}
	local, remote := net.Pipe()
	go d.serve(remote)
	return local, nil
}

func (d *pipeDialer) serve(conn net.Conn) {
	defer conn.Close()

	f, err := protocol.ReadFrame(conn)
	if err != nil || f.Op != protocol.OpcodeHandshake {
		return
	}
	if writePeer(conn, protocol.OpcodeFrame, []byte(readyReply)) != nil {
		return
	}
	d.behavior(conn)
}

// discardFrames consumes client frames without answering, ending on CLOSE
// or a dead pipe.
func discardFrames(conn net.Conn) {
	for {
		f, err := protocol.ReadFrame(conn)
		if err != nil || f.Op == protocol.OpcodeClose {
			return
		}
	}
}

// ackFrames answers every command with a success reply and echoes pings.
func ackFrames(conn net.Conn) {
	for {
		f, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		switch f.Op {
		case protocol.OpcodeClose:
			return
		case protocol.OpcodePing:
			if writePeer(conn, protocol.OpcodePong, f.Payload) != nil {
				return
			}
		case protocol.OpcodeFrame:
			var env struct {
				Cmd   string `json:"cmd"`
				Nonce string `json:"nonce"`
			}
			if json.Unmarshal(f.Payload, &env) != nil {
				return
			}
			reply := fmt.Sprintf(`{"cmd":%q,"data":{},"nonce":%q}`, env.Cmd, env.Nonce)
			if writePeer(conn, protocol.OpcodeFrame, []byte(reply)) != nil {
				return
			}
		}
	}
}

func writePeer(conn net.Conn, op protocol.Opcode, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return err
	}
	return protocol.WriteFrame(conn, protocol.NewFrame(op, payload))
}

func quietLogger() logging.Logger {
	return logging.New(io.Discard, logging.NewTextFormatter())
}

// newBenchClient returns a client connected to a peer running behavior.
func newBenchClient(tb testing.TB, behavior peerBehavior) *ipc.Client {
	tb.Helper()

	c, err := ipc.New(benchClientID,
		ipc.WithDialer(&pipeDialer{behavior: behavior}),
		ipc.WithPollInterval(time.Millisecond),
		ipc.WithLogger(quietLogger()),
	)
	if err != nil {
		tb.Fatal(err)
	}
	if err := c.Connect(context.Background(), protocol.BuildStable); err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { _ = c.Close() })
	return c
}

// benchActivity is a representative full-shape presence payload.
func benchActivity() *presence.Activity {
	return presence.NewBuilder().
		State("In a Group").
		Details("Competitive Match").
		StartTimestamp(time.Unix(1700000000, 0)).
		LargeImage("map_dust2", "Dust II").
		Party("bench-party", 2, 5).
		JoinSecret("join-me").
		Instance(true).
		Build()
}
