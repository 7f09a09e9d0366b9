// Package protocol defines the wire format and message types of the local
// IPC presence protocol.
//
// Every message on the pipe is one Frame: a 4-byte opcode and a 4-byte
// payload length, both little-endian, followed by a UTF-8 JSON payload.
// Five opcodes exist: HANDSHAKE opens a session, FRAME carries command and
// dispatch envelopes, CLOSE ends the session, and PING/PONG are liveness
// echoes.
//
// # Package Organization
//
//   - frame.go: the binary frame codec and its validation rules
//   - envelope.go: outbound envelopes (Handshake, Command) and command names
//   - message.go: the decoded inbound message variants and DecodeMessage
//   - build.go: build variant identities and endpoint discrimination
//   - events.go: dispatch event names and subscribability
//   - user.go: the account identity snapshot and avatar helpers
//
// # Inbound Message Model
//
// The peer multiplexes replies and events over the FRAME opcode using an
// evt discriminator. DecodeMessage resolves it once into a closed variant
// set: Reply and ErrorReply correlate to an outstanding nonce, the three
// activity events carry join/spectate secrets, and anything unrecognized
// becomes UnknownEvent. Callers switch on the variant type.
//
// # Error Classification
//
// Codec and decode failures wrap sentinel errors, and IsMalformed separates
// them from plain I/O failures: malformed data is a protocol fault of the
// peer, an I/O failure is a transport fault of the channel. The connection
// layer maps the two onto different error categories.
package protocol
