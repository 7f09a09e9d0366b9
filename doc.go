// Package discordipc provides a client for Discord's local IPC protocol.
//
// A Discord desktop client listens on a named pipe (Windows) or Unix socket
// and lets locally running applications publish rich presence, receive
// activity events, and respond to join requests. This package is the root
// of the SDK for Go, providing convenient exports of the core components
// from the sub-packages.
//
// # Overview
//
// The SDK consists of several sub-packages:
//
//   - pkg/ipc: Implements the client, discovery, and the connection lifecycle
//   - pkg/presence: Builds rich presence activities
//   - pkg/protocol: Defines the wire format, opcodes, commands, and events
//   - pkg/transport: Opens and frames the platform pipe
//   - pkg/register: Registers discord-<id> URL schemes with the OS
//   - pkg/errors: Typed errors with codes shared across the SDK
//   - pkg/logging: Structured logging used throughout the SDK
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//
// # Connecting
//
// To connect to a running Discord client:
//
//	import (
//	    "context"
//	    discordipc "github.com/ajitpratap0/discord-ipc-go"
//	)
//
//	func main() {
//	    client, err := discordipc.New("123456789012345678")
//	    if err != nil {
//	        // Handle error
//	    }
//
//	    // Probe the pipe range and take the first build found
//	    ctx := context.Background()
//	    if err := client.Connect(ctx, discordipc.BuildAny); err != nil {
//	        // Handle error
//	    }
//	    defer client.Close()
//
//	    // client.Build() and client.User() describe the peer...
//	}
//
// Preference order matters: Connect(ctx, BuildPTB, BuildAny) hands the
// connection to a PTB client when one is running and falls back to whatever
// else answered the probe.
//
// # Publishing an Activity
//
// Presence updates travel as SET_ACTIVITY commands:
//
//	activity := discordipc.NewActivity().
//	    State("In a Group").
//	    Details("Competitive").
//	    StartTimestamp(time.Now()).
//	    Build()
//
//	if err := client.SetActivity(activity, nil); err != nil {
//	    // Handle error
//	}
//
// Passing a callback instead of nil correlates the reply:
//
//	cb := &ipc.Callback{
//	    OnSuccess: func(data json.RawMessage) { /* acknowledged */ },
//	    OnError:   func(err error) { /* rejected */ },
//	}
//	client.SetActivity(activity, cb)
//
// # Listening for Events
//
// Join and spectate events arrive after a SUBSCRIBE:
//
//	client.SetListener(&ipc.Listener{
//	    OnActivityJoin: func(secret string) {
//	        // Connect to the game session named by secret
//	    },
//	    OnActivityJoinRequest: func(secret string, user *protocol.User) {
//	        client.RespondToJoinRequest(strconv.FormatInt(user.ID, 10), true, nil)
//	    },
//	    OnDisconnect: func(err error) {
//	        // The pipe died; reconnect or surface the error
//	    },
//	})
//	client.Subscribe(discordipc.EventActivityJoin, nil)
//	client.Subscribe(discordipc.EventActivityJoinRequest, nil)
//
// # Examples
//
// The SDK includes several examples in the examples directory:
//
//   - simple-presence: Publish one activity and hold it until interrupted
//   - activity-events: Subscribe to join/spectate events and answer join requests
//   - presence-cli: A cobra CLI that loads activities from YAML and serves metrics
package discordipc
