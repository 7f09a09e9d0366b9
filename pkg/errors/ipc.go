package errors

import (
	"fmt"
	"strings"
)

// DiscoveryErrorData contains structured data for discovery failures
type DiscoveryErrorData struct {
	Builds          []string `json:"builds"`
	IndicesProbed   int      `json:"indices_probed"`
	CandidatesFound int      `json:"candidates_found"`
}

// PipeErrorData contains structured data for pipe-level transport errors
type PipeErrorData struct {
	Index     int    `json:"index,omitempty"`
	Path      string `json:"path,omitempty"`
	Operation string `json:"operation,omitempty"`
	Retryable bool   `json:"retryable"`
}

// PeerErrorData contains structured data for peer-reported command failures
type PeerErrorData struct {
	PeerCode int    `json:"peer_code"`
	Nonce    string `json:"nonce"`
}

// DiscoveryFailed creates the error returned when no probed pipe satisfied
// the build preference list. It is the only error Connect returns for a
// completed-but-empty scan.
func DiscoveryFailed(builds []string, indicesProbed, candidatesFound int) IPCError {
	return NewErrorf(
		CodeDiscoveryFailed,
		CategoryDiscovery,
		SeverityCritical,
		"no local pipe satisfied build preference [%s]",
		strings.Join(builds, ", "),
	).WithData(&DiscoveryErrorData{
		Builds:          builds,
		IndicesProbed:   indicesProbed,
		CandidatesFound: candidatesFound,
	}).WithContext(&Context{
		Component: "discovery",
		Operation: "connect",
	})
}

// HandshakeInvalid creates an error for a candidate whose handshake reply
// could not be used. Discovery treats it like a failed open.
func HandshakeInvalid(index int, cause error) IPCError {
	return WrapErrorf(
		cause,
		CodeHandshakeInvalid,
		CategoryDiscovery,
		SeverityWarning,
		"pipe %d answered the handshake with an unusable reply",
		index,
	).WithContext(&Context{
		Component: "discovery",
		Operation: "handshake",
		PipeIndex: index,
	})
}

// PipeOpenFailed creates an error for a pipe that could not be opened.
func PipeOpenFailed(index int, path string, cause error) IPCError {
	return WrapErrorf(
		cause,
		CodePipeOpenFailed,
		CategoryTransport,
		SeverityWarning,
		"failed to open pipe %d at %s",
		index, path,
	).WithData(&PipeErrorData{
		Index:     index,
		Path:      path,
		Operation: "open",
		Retryable: true,
	})
}

// TransportError creates a generic transport error for the given operation.
func TransportError(operation string, cause error) IPCError {
	message := "pipe transport error"
	if operation != "" {
		message = fmt.Sprintf("pipe transport error during %s", operation)
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	return WrapError(
		cause,
		CodeTransportError,
		message,
		CategoryTransport,
		SeverityError,
	).WithData(&PipeErrorData{
		Operation: operation,
		Retryable: false,
	})
}

// ConnectionLost creates the error carried by the disconnect hook when pipe
// I/O fails after connect.
func ConnectionLost(operation string, cause error) IPCError {
	return WrapErrorf(
		cause,
		CodeConnectionLost,
		CategoryTransport,
		SeverityError,
		"connection lost during %s",
		operation,
	).WithContext(&Context{
		Component: "connection",
		Operation: operation,
	})
}

// WriteFailed creates an error for a frame write that did not complete. It
// is observed through the disconnect hook, not returned to the sender.
func WriteFailed(cause error) IPCError {
	return WrapError(
		cause,
		CodeWriteFailed,
		"frame write failed",
		CategoryTransport,
		SeverityError,
	).WithData(&PipeErrorData{
		Operation: "write",
		Retryable: false,
	})
}

// MalformedFrame creates an error for wire data violating the frame format.
func MalformedFrame(cause error) IPCError {
	return WrapError(
		cause,
		CodeMalformedFrame,
		"malformed wire frame",
		CategoryProtocol,
		SeverityError,
	)
}

// InvalidPayload creates an error for a frame payload that cannot be decoded.
func InvalidPayload(cause error) IPCError {
	return WrapError(
		cause,
		CodeInvalidPayload,
		"undecodable frame payload",
		CategoryProtocol,
		SeverityError,
	)
}

// PeerError creates an error from a peer-reported ERROR reply. It is routed
// to the failing command's callback only and is never connection-fatal.
func PeerError(nonce string, peerCode int, message string) IPCError {
	if message == "" {
		message = "command rejected by peer"
	}
	return NewError(
		CodePeerError,
		message,
		CategoryApplication,
		SeverityWarning,
	).WithData(&PeerErrorData{
		PeerCode: peerCode,
		Nonce:    nonce,
	}).WithContext(&Context{
		Component: "connection",
		Operation: "dispatch",
		Nonce:     nonce,
	})
}

// NotConnected creates a precondition violation for data exchange attempted
// while the client is not connected.
func NotConnected(operation, status string) IPCError {
	return NewErrorf(
		CodeNotConnected,
		CategoryPrecondition,
		SeverityError,
		"%s requires a connected client (status %s)",
		operation, status,
	)
}

// AlreadyConnected creates a precondition violation for connecting a client
// that already has a live connection attempt.
func AlreadyConnected(status string) IPCError {
	return NewErrorf(
		CodeAlreadyConnected,
		CategoryPrecondition,
		SeverityError,
		"client is already %s; close it and connect a fresh one",
		status,
	)
}

// DuplicateNonce creates a precondition violation for registering a callback
// under a correlation token that is still pending.
func DuplicateNonce(nonce string) IPCError {
	return NewErrorf(
		CodeDuplicateNonce,
		CategoryPrecondition,
		SeverityError,
		"correlation token %q already has a pending callback",
		nonce,
	).WithContext(&Context{
		Component: "registry",
		Operation: "register",
		Nonce:     nonce,
	})
}

// NotSubscribable creates a precondition violation for SUBSCRIBE targets
// outside the subscribable event set.
func NotSubscribable(event string) IPCError {
	return NewErrorf(
		CodeNotSubscribable,
		CategoryPrecondition,
		SeverityError,
		"event %s cannot be subscribed to",
		event,
	)
}

// EmptyPreferenceList creates a precondition violation for an explicit build
// preference list that normalized to nothing usable.
func EmptyPreferenceList() IPCError {
	return NewError(
		CodeEmptyPreferenceList,
		"build preference list is empty",
		CategoryPrecondition,
		SeverityError,
	)
}

// InvalidClientID creates a precondition violation for client identifiers
// that are not decimal snowflakes.
func InvalidClientID(id string) IPCError {
	return NewErrorf(
		CodeInvalidClientID,
		CategoryPrecondition,
		SeverityError,
		"client id %q is not a decimal application id",
		id,
	)
}

// InvalidArgument creates a generic precondition violation.
func InvalidArgument(format string, args ...interface{}) IPCError {
	return NewErrorf(
		CodeInvalidArgument,
		CategoryPrecondition,
		SeverityError,
		format, args...,
	)
}
