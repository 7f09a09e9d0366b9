package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Opcode identifies the kind of a wire frame.
type Opcode int32

// Opcodes as assigned by the wire protocol. The values are fixed ordinals
// and must not be reordered.
const (
	// OpcodeHandshake carries the version/client_id handshake request.
	OpcodeHandshake Opcode = iota
	// OpcodeFrame carries a command or dispatch envelope.
	OpcodeFrame
	// OpcodeClose signals an orderly shutdown of the pipe.
	OpcodeClose
	// OpcodePing requests an OpcodePong echo of its payload.
	OpcodePing
	// OpcodePong answers an OpcodePing.
	OpcodePong

	opcodeCount
)

// String returns the protocol-level name of the opcode.
func (o Opcode) String() string {
	switch o {
	case OpcodeHandshake:
		return "HANDSHAKE"
	case OpcodeFrame:
		return "FRAME"
	case OpcodeClose:
		return "CLOSE"
	case OpcodePing:
		return "PING"
	case OpcodePong:
		return "PONG"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(o))
	}
}

// Valid reports whether the opcode is one of the assigned ordinals.
func (o Opcode) Valid() bool {
	return o >= OpcodeHandshake && o < opcodeCount
}

const (
	// HeaderSize is the fixed size of the frame header in bytes.
	HeaderSize = 8
	// MaxPayloadSize bounds the declared payload length of a single frame.
	// The peer only ever sends small JSON documents; anything beyond this is
	// corrupt framing, not a large message.
	MaxPayloadSize = 1 << 20
)

// Sentinel errors distinguishing malformed wire data from plain I/O failure.
var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrInvalidLength   = errors.New("invalid payload length")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrTruncatedFrame  = errors.New("truncated frame")
	ErrInvalidPayload  = errors.New("invalid message payload")
)

// IsMalformed reports whether err indicates malformed wire data, as opposed
// to an I/O failure on the underlying pipe. The two are handled differently
// by callers: malformed data is a protocol fault of the peer, an I/O failure
// is a transport fault of the channel.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrUnknownOpcode) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrPayloadTooLarge) ||
		errors.Is(err, ErrTruncatedFrame) ||
		errors.Is(err, ErrInvalidPayload)
}

// Frame is one opcode-tagged, length-prefixed unit on the wire. The payload
// is a UTF-8 JSON document. Frames are immutable once constructed and exist
// only transiently during encode/decode.
//
// Wire format, both header words little-endian regardless of platform:
//
//	+---------------+---------------+--------------------+
//	|  opcode (4B)  |  length (4B)  |  payload (length)  |
//	+---------------+---------------+--------------------+
type Frame struct {
	Op      Opcode
	Payload []byte
}

// NewFrame constructs a frame with the given opcode and payload.
func NewFrame(op Opcode, payload []byte) *Frame {
	return &Frame{Op: op, Payload: payload}
}

// Encode serializes the frame into a single contiguous byte slice, header
// followed by payload. A single slice lets callers hand the whole frame to
// one Write call.
func (f *Frame) Encode() []byte {
	buf := make([]byte, HeaderSize+len(f.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(f.Op))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf
}

// WriteFrame encodes f and writes it to w as one Write call.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(f.Payload))
	}
	if _, err := w.Write(f.Encode()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ParseHeader validates an 8-byte frame header and returns its opcode and
// declared payload length. The returned error matches IsMalformed.
func ParseHeader(header []byte) (Opcode, int, error) {
	if len(header) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedFrame, HeaderSize, len(header))
	}

	op := Opcode(int32(binary.LittleEndian.Uint32(header[0:4])))
	length := int32(binary.LittleEndian.Uint32(header[4:8]))

	if !op.Valid() {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownOpcode, int32(op))
	}
	if length < 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if length > MaxPayloadSize {
		return 0, 0, fmt.Errorf("%w: declared %d bytes", ErrPayloadTooLarge, length)
	}
	return op, int(length), nil
}

// ReadFrame reads exactly one frame from r, blocking until the full frame
// has arrived.
//
// Error classification matters to callers: io.EOF is returned only for a
// clean end of stream at a frame boundary. A stream ending inside a header
// or inside a declared payload, an out-of-range opcode, and an absurd
// declared length all return errors matching IsMalformed. Anything else is
// an I/O failure from r, returned as-is (wrapped).
func ReadFrame(r io.Reader) (*Frame, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: stream ended inside header", ErrTruncatedFrame)
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	op, length, err := ParseHeader(header[:])
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: declared %d payload bytes, stream ended early", ErrTruncatedFrame, length)
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	return &Frame{Op: op, Payload: payload}, nil
}

// Decode parses one frame from the head of b. The declared payload length
// must not exceed the bytes actually present.
func Decode(b []byte) (*Frame, error) {
	f, err := ReadFrame(bytes.NewReader(b))
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty buffer", ErrTruncatedFrame)
	}
	return f, err
}
