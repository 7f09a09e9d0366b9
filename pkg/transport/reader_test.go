package transport

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

const testPoll = 5 * time.Millisecond

func TestFrameReaderDeliversFrame(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	go func() {
		_ = protocol.WriteFrame(peer, protocol.NewFrame(protocol.OpcodeFrame, []byte(`{"cmd":"DISPATCH"}`)))
	}()

	r := NewFrameReader(local, testPoll)
	frame, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.OpcodeFrame, frame.Op)
	assert.JSONEq(t, `{"cmd":"DISPATCH"}`, string(frame.Payload))
}

func TestFrameReaderReassemblesSplitWrites(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	raw := protocol.NewFrame(protocol.OpcodePong, []byte(`{}`)).Encode()
	go func() {
		for i := range raw {
			if _, err := peer.Write(raw[i : i+1]); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	r := NewFrameReader(local, testPoll)
	frame, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.OpcodePong, frame.Op)
	assert.Equal(t, []byte(`{}`), frame.Payload)
}

func TestFrameReaderSequentialFrames(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	raw := protocol.NewFrame(protocol.OpcodeFrame, []byte(`{"n":1}`)).Encode()
	raw = append(raw, protocol.NewFrame(protocol.OpcodeClose, []byte(`{"n":2}`)).Encode()...)
	go func() {
		_, _ = peer.Write(raw)
	}()

	r := NewFrameReader(local, testPoll)

	first, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.OpcodeFrame, first.Op)
	assert.Equal(t, []byte(`{"n":1}`), first.Payload)

	second, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.OpcodeClose, second.Op)
	assert.Equal(t, []byte(`{"n":2}`), second.Payload)
}

func TestFrameReaderEmptyPayload(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	go func() {
		_ = protocol.WriteFrame(peer, protocol.NewFrame(protocol.OpcodePing, nil))
	}()

	r := NewFrameReader(local, testPoll)
	frame, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.OpcodePing, frame.Op)
	assert.Empty(t, frame.Payload)
}

func TestFrameReaderStopUnblocks(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	stop := make(chan struct{})
	errc := make(chan error, 1)
	r := NewFrameReader(local, testPoll)
	go func() {
		_, err := r.Next(stop)
		errc <- err
	}()

	time.Sleep(3 * testPoll)
	close(stop)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("read did not unblock after stop")
	}
}

func TestFrameReaderCleanEOF(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()

	_ = peer.Close()

	r := NewFrameReader(local, testPoll)
	frame, err := r.Next(nil)
	assert.Nil(t, frame)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, protocol.IsMalformed(err))
}

func TestFrameReaderTruncatedHeader(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()

	go func() {
		_, _ = peer.Write([]byte{1, 0, 0})
		_ = peer.Close()
	}()

	r := NewFrameReader(local, testPoll)
	_, err := r.Next(nil)
	assert.ErrorIs(t, err, protocol.ErrTruncatedFrame)
	assert.True(t, protocol.IsMalformed(err))
}

func TestFrameReaderTruncatedPayload(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()

	header := make([]byte, protocol.HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(protocol.OpcodeFrame))
	binary.LittleEndian.PutUint32(header[4:8], 64)
	go func() {
		_, _ = peer.Write(header)
		_, _ = peer.Write([]byte(`{"pa`))
		_ = peer.Close()
	}()

	r := NewFrameReader(local, testPoll)
	_, err := r.Next(nil)
	assert.ErrorIs(t, err, protocol.ErrTruncatedFrame)
	assert.True(t, protocol.IsMalformed(err))
}

// A bad header must be rejected as soon as it is read, without waiting for
// payload bytes that will never arrive.
func TestFrameReaderRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint32
		length uint32
		want   error
	}{
		{"unknown opcode", 9, 2, protocol.ErrUnknownOpcode},
		{"negative length", uint32(protocol.OpcodeFrame), 0xFFFFFFFF, protocol.ErrInvalidLength},
		{"oversized length", uint32(protocol.OpcodeFrame), uint32(protocol.MaxPayloadSize + 1), protocol.ErrPayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, peer := net.Pipe()
			defer local.Close()
			defer peer.Close()

			header := make([]byte, protocol.HeaderSize)
			binary.LittleEndian.PutUint32(header[0:4], tt.opcode)
			binary.LittleEndian.PutUint32(header[4:8], tt.length)
			go func() {
				_, _ = peer.Write(header)
			}()

			r := NewFrameReader(local, testPoll)
			done := make(chan error, 1)
			go func() {
				_, err := r.Next(nil)
				done <- err
			}()

			select {
			case err := <-done:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.want)
				assert.True(t, protocol.IsMalformed(err))
			case <-time.After(time.Second):
				t.Fatal("reader hung on a bad header")
			}
		})
	}
}

func TestFrameReaderDefaultPoll(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	r := NewFrameReader(local, 0)
	assert.Equal(t, DefaultPollInterval, r.poll)
}
