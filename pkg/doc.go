// Package pkg groups the components of the Discord IPC SDK.
//
// The SDK speaks the local IPC protocol a running Discord desktop client
// exposes to applications on the same machine: rich presence updates,
// activity events, and join-request handling over a named pipe or Unix
// socket.
//
// # Typical Usage
//
// Most programs need only the ipc and presence packages:
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/discord-ipc-go/pkg/ipc"
//	    "github.com/ajitpratap0/discord-ipc-go/pkg/presence"
//	    "github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
//	)
//
//	func main() {
//	    c, err := ipc.New("123456789012345678")
//	    if err != nil {
//	        // Handle error
//	    }
//
//	    ctx := context.Background()
//	    if err := c.Connect(ctx, protocol.BuildAny); err != nil {
//	        // Handle error
//	    }
//	    defer c.Close()
//
//	    activity := presence.NewBuilder().
//	        State("In a Group").
//	        Build()
//	    c.SetActivity(activity, nil)
//	}
//
// # Sub-packages
//
// The SDK consists of several sub-packages:
//
//   - ipc: The client, pipe discovery, and the connection lifecycle
//   - presence: Rich presence activities and their JSON shaping
//   - protocol: Frame codec, opcodes, commands, events, and envelopes
//   - transport: Platform pipe addressing, dialing, and frame reading
//   - register: discord-<id> URL scheme registration with the OS
//   - errors: Typed errors with codes shared across the SDK
//   - logging: Structured logging used throughout the SDK
//   - observability: Prometheus metrics and OpenTelemetry tracing
//   - utils: Test helpers shared by the SDK's own suites
package pkg
