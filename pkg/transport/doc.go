// Package transport opens and frames the local pipe to a running desktop
// client.
//
// The desktop application listens on up to PipeCount numbered endpoints:
// named pipes \\.\pipe\discord-ipc-N on Windows, Unix domain sockets
// discord-ipc-N elsewhere. This package resolves those endpoint addresses,
// dials them, and turns the raw byte stream into protocol frames.
//
// # Endpoint Resolution
//
// PipePath maps an index to the platform address. On Unix the socket
// directory comes from the first non-empty runtime-directory variable
// (XDG_RUNTIME_DIR, TMPDIR, TMP, TEMP), falling back to /tmp, and descends
// into snap or flatpak subdirectories when the application runs sandboxed.
// On Windows the pipe namespace is fixed.
//
// # Dialing
//
//	d := transport.NewDialer(2 * time.Second)
//	conn, err := d.Dial(ctx, 0)
//
// Dial failures for absent endpoints are expected during discovery; callers
// distinguish "nothing listening here" from hard errors and keep probing.
//
// # Reading Frames
//
// FrameReader blocks until a full frame arrives while staying cancellable
// without closing the conn. Local pipes have no portable read-cancellation
// primitive, so the reader arms short read deadlines and re-checks the stop
// channel on every tick:
//
//	r := transport.NewFrameReader(conn, transport.DefaultPollInterval)
//	for {
//	    f, err := r.Next(stop)
//	    if errors.Is(err, transport.ErrStopped) {
//	        return // orderly shutdown
//	    }
//	    ...
//	}
//
// A stop request unblocks the read within one poll interval. Streams that
// end mid-frame surface as protocol.ErrTruncatedFrame; a clean EOF on a
// frame boundary surfaces as io.EOF.
package transport
