package errors

// Error codes are stable and grouped by category. Peer-reported application
// errors additionally carry the peer's own code in their error data; the
// codes below identify the client-side classification only.
const (
	// Discovery Errors (1000-1099)
	CodeDiscoveryFailed  int = 1000 // No candidate satisfied the preference list
	CodeHandshakeInvalid int = 1001 // Candidate answered the handshake with an unusable reply

	// Transport Errors (1100-1199)
	CodeTransportError   int = 1100 // Generic transport error
	CodePipeOpenFailed   int = 1101 // Failed to open a local pipe
	CodeConnectionLost   int = 1102 // Pipe I/O failed after connect
	CodeWriteFailed      int = 1103 // Frame write failed
	CodeConnectionClosed int = 1104 // Operation on a closed pipe

	// Protocol Errors (1200-1299)
	CodeProtocolError  int = 1200 // Generic protocol error
	CodeMalformedFrame int = 1201 // Frame header or length violates the wire format
	CodeInvalidPayload int = 1202 // Frame payload cannot be decoded

	// Application Errors (1300-1399)
	CodePeerError int = 1300 // Peer-reported command failure (see PeerErrorData)

	// Precondition Errors (1400-1499)
	CodeNotConnected        int = 1400 // Data exchange attempted while not connected
	CodeAlreadyConnected    int = 1401 // Connect attempted on a live client
	CodeInvalidArgument     int = 1402 // Argument outside the protocol's domain
	CodeDuplicateNonce      int = 1403 // Correlation token already has a pending callback
	CodeNotSubscribable     int = 1404 // SUBSCRIBE target is not a subscribable event
	CodeInvalidClientID     int = 1405 // Client identifier is not a decimal snowflake
	CodeEmptyPreferenceList int = 1406 // Build preference list resolved to nothing usable
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

// errorCodeRegistry maps error codes to their information
var errorCodeRegistry = map[int]ErrorCodeInfo{
	// Discovery Errors
	CodeDiscoveryFailed:  {CodeDiscoveryFailed, "DiscoveryFailed", "No pipe satisfied the build preference list", CategoryDiscovery, SeverityCritical},
	CodeHandshakeInvalid: {CodeHandshakeInvalid, "HandshakeInvalid", "Handshake reply was unusable", CategoryDiscovery, SeverityWarning},

	// Transport Errors
	CodeTransportError:   {CodeTransportError, "TransportError", "Transport error", CategoryTransport, SeverityError},
	CodePipeOpenFailed:   {CodePipeOpenFailed, "PipeOpenFailed", "Failed to open local pipe", CategoryTransport, SeverityWarning},
	CodeConnectionLost:   {CodeConnectionLost, "ConnectionLost", "Connection lost", CategoryTransport, SeverityError},
	CodeWriteFailed:      {CodeWriteFailed, "WriteFailed", "Frame write failed", CategoryTransport, SeverityError},
	CodeConnectionClosed: {CodeConnectionClosed, "ConnectionClosed", "Pipe already closed", CategoryTransport, SeverityInfo},

	// Protocol Errors
	CodeProtocolError:  {CodeProtocolError, "ProtocolError", "Protocol error", CategoryProtocol, SeverityError},
	CodeMalformedFrame: {CodeMalformedFrame, "MalformedFrame", "Malformed wire frame", CategoryProtocol, SeverityError},
	CodeInvalidPayload: {CodeInvalidPayload, "InvalidPayload", "Undecodable frame payload", CategoryProtocol, SeverityError},

	// Application Errors
	CodePeerError: {CodePeerError, "PeerError", "Peer-reported command failure", CategoryApplication, SeverityWarning},

	// Precondition Errors
	CodeNotConnected:        {CodeNotConnected, "NotConnected", "Client is not connected", CategoryPrecondition, SeverityError},
	CodeAlreadyConnected:    {CodeAlreadyConnected, "AlreadyConnected", "Client is already connected", CategoryPrecondition, SeverityError},
	CodeInvalidArgument:     {CodeInvalidArgument, "InvalidArgument", "Invalid argument", CategoryPrecondition, SeverityError},
	CodeDuplicateNonce:      {CodeDuplicateNonce, "DuplicateNonce", "Correlation token already pending", CategoryPrecondition, SeverityError},
	CodeNotSubscribable:     {CodeNotSubscribable, "NotSubscribable", "Event cannot be subscribed to", CategoryPrecondition, SeverityError},
	CodeInvalidClientID:     {CodeInvalidClientID, "InvalidClientID", "Client identifier is not a decimal snowflake", CategoryPrecondition, SeverityError},
	CodeEmptyPreferenceList: {CodeEmptyPreferenceList, "EmptyPreferenceList", "Build preference list unusable", CategoryPrecondition, SeverityError},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code int) (ErrorCodeInfo, bool) {
	info, exists := errorCodeRegistry[code]
	return info, exists
}

// GetErrorCodeName returns the name of an error code
func GetErrorCodeName(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Name
	}
	return "UnknownError"
}

// GetErrorCodeDescription returns the description of an error code
func GetErrorCodeDescription(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Description
	}
	return "Unknown error"
}

// GetErrorCodeCategory returns the category of an error code
func GetErrorCodeCategory(code int) Category {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Category
	}
	return CategoryTransport
}

// GetErrorCodeSeverity returns the severity of an error code
func GetErrorCodeSeverity(code int) Severity {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Severity
	}
	return SeverityError
}

// ListErrorCodes returns all registered error codes
func ListErrorCodes() []ErrorCodeInfo {
	codes := make([]ErrorCodeInfo, 0, len(errorCodeRegistry))
	for _, info := range errorCodeRegistry {
		codes = append(codes, info)
	}
	return codes
}
