// Package ipc implements the client side of the local rich-presence IPC
// protocol: pipe discovery with build preferences, the versioned handshake,
// framed command exchange, and the connection state machine.
//
// A Client is created for one application identifier, connected to the
// desktop application over a numbered local pipe, and handed commands. One
// reader goroutine per live connection routes replies to per-command
// callbacks and dispatch events to listener hooks.
//
// # Connecting
//
//	c, err := ipc.New("1234567890123456789")
//	if err != nil {
//	    return err
//	}
//	if err := c.Connect(ctx); err != nil {
//	    // No local pipe satisfied the preference list.
//	    return err
//	}
//	defer c.Close()
//
//	fmt.Println(c.Build())     // the concrete build that answered
//	fmt.Println(c.User().Tag())
//
// Connect scans pipes 0 through 9 and picks the candidate best satisfying
// the build preference list: its first entry greedily during the scan, the
// remaining entries against everything discovered afterwards. No arguments
// means any build:
//
//	err = c.Connect(ctx, protocol.BuildPTB, protocol.BuildAny)
//
// # Commands and callbacks
//
// Commands are asynchronous. Each carries a fresh correlation token; the
// optional Callback fires at most once when the matching reply arrives:
//
//	err = c.SetActivity(activity, &ipc.Callback{
//	    OnSuccess: func(data json.RawMessage) { log.Print("shown") },
//	    OnError:   func(err error) { log.Print(err) },
//	})
//
// A synchronous error from a command method is always a precondition
// violation or an encoding failure — nothing was written. Transport death
// after connect is reported through the OnDisconnect hook, never through
// command return values.
//
// # Events
//
// Dispatch events arrive on the listener, installed with SetListener and
// swappable at any time. Hooks run on the connection's reader goroutine:
//
//	c.SetListener(&ipc.Listener{
//	    OnActivityJoin: func(secret string) { go joinGame(secret) },
//	    OnDisconnect:   func(err error) { log.Print(err) },
//	})
//	err = c.Subscribe(protocol.EventActivityJoin, nil)
//
// # Lifecycle
//
// The connection state machine is
//
//	uninitialized → connecting → connected → closing → closed
//	                                       ↘ disconnected
//
// Closed and Disconnected are terminal per connection: a dead connection is
// never resurrected. Connect again for a fresh one, or use
// ConnectWithRetry, which waits under exponential backoff for the desktop
// application to appear.
package ipc
