package transport

import (
	"context"
	"errors"
	"io"
	"time"
)

// PipeCount is the number of numbered endpoints the application may expose
// concurrently. Discovery probes indices 0 through PipeCount-1.
const PipeCount = 10

// DefaultPollInterval paces the cooperative-cancellation read loop. A
// blocked read notices a requested stop within one interval.
const DefaultPollInterval = 50 * time.Millisecond

// ErrStopped is returned by FrameReader.Next when the stop channel closes
// before a full frame has arrived.
var ErrStopped = errors.New("transport: read stopped")

// Conn is a duplex byte channel to one local endpoint. Platform pipes and
// net.Pipe test connections both satisfy it.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer

	// SetReadDeadline bounds future Read calls, as on net.Conn. FrameReader
	// arms short deadlines so a blocked read can poll for cancellation.
	SetReadDeadline(t time.Time) error
}

// Dialer opens the numbered local endpoint. PipeDialer is the platform
// implementation; tests inject scripted fakes.
type Dialer interface {
	Dial(ctx context.Context, index int) (Conn, error)
}

// PipeDialer dials the platform transport for the numbered endpoint: a
// named pipe on Windows, a Unix domain socket elsewhere.
type PipeDialer struct {
	// Timeout bounds a single dial attempt. Zero relies on ctx alone.
	Timeout time.Duration
}

// NewDialer returns the platform pipe dialer with the given per-attempt
// timeout.
func NewDialer(timeout time.Duration) Dialer {
	return &PipeDialer{Timeout: timeout}
}

// Dial opens the endpoint at index.
func (d *PipeDialer) Dial(ctx context.Context, index int) (Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	return dialPipe(ctx, PipePath(index))
}
