package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

// FrameReader decodes frames from a Conn. Reads block until a full frame
// arrives but stay cancellable: the reader arms a short read deadline and
// re-checks the caller's stop channel on every tick, so a requested stop
// unblocks the read within one poll interval instead of hanging on a quiet
// pipe.
type FrameReader struct {
	conn Conn
	poll time.Duration
}

// NewFrameReader wraps conn. A non-positive poll interval falls back to
// DefaultPollInterval.
func NewFrameReader(conn Conn, poll time.Duration) *FrameReader {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &FrameReader{conn: conn, poll: poll}
}

// Next blocks until one full frame arrives, the stop channel closes, or the
// conn fails. A nil stop channel disables cancellation.
//
// Returned errors: ErrStopped after a requested stop; io.EOF for a clean end
// of stream at a frame boundary; errors matching protocol.IsMalformed for a
// bad header or a stream that ends mid-frame; anything else is an I/O
// failure from the conn.
func (r *FrameReader) Next(stop <-chan struct{}) (*protocol.Frame, error) {
	var header [protocol.HeaderSize]byte
	if err := r.readFull(stop, header[:], true); err != nil {
		return nil, err
	}

	op, length, err := protocol.ParseHeader(header[:])
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if err := r.readFull(stop, payload, false); err != nil {
		return nil, err
	}
	return &protocol.Frame{Op: op, Payload: payload}, nil
}

// readFull fills buf, polling the stop channel on every deadline tick.
// atBoundary marks a read that starts at a frame boundary, where a clean EOF
// with nothing read means connection loss rather than a truncated frame.
func (r *FrameReader) readFull(stop <-chan struct{}, buf []byte, atBoundary bool) error {
	read := 0
	for read < len(buf) {
		select {
		case <-stop:
			return ErrStopped
		default:
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(r.poll)); err != nil {
			return fmt.Errorf("arm read deadline: %w", err)
		}

		n, err := r.conn.Read(buf[read:])
		read += n
		if err == nil {
			continue
		}

		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			continue
		}
		if errors.Is(err, io.EOF) {
			if atBoundary && read == 0 {
				return io.EOF
			}
			return fmt.Errorf("%w: stream ended after %d of %d bytes", protocol.ErrTruncatedFrame, read, len(buf))
		}
		return err
	}
	return nil
}
