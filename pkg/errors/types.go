// Package errors provides structured error handling for the IPC client.
// It defines custom error types that carry the failure taxonomy of the
// protocol (discovery, transport, protocol, application, precondition) and
// rich context for debugging and programmatic error handling.
package errors

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category represents the type/category of an error for classification and handling
type Category string

const (
	// CategoryDiscovery covers failures of the pipe scan and handshake
	// negotiation; the only category returned synchronously from Connect.
	CategoryDiscovery Category = "discovery"
	// CategoryTransport covers OS-level I/O failures opening, reading, or
	// writing a pipe.
	CategoryTransport Category = "transport"
	// CategoryProtocol covers malformed frames and undecodable payloads.
	CategoryProtocol Category = "protocol"
	// CategoryApplication covers peer-reported command failures correlated
	// to a specific nonce; never fatal to the connection.
	CategoryApplication Category = "application"
	// CategoryPrecondition covers API misuse, raised synchronously to the
	// misbehaving caller and never sent over the wire.
	CategoryPrecondition Category = "precondition"
)

// Severity indicates how critical an error is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Context provides additional context about where and when an error occurred
type Context struct {
	Component string                 `json:"component,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	PipeIndex int                    `json:"pipe_index,omitempty"`
	Build     string                 `json:"build,omitempty"`
	Nonce     string                 `json:"nonce,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// IPCError defines the interface for all errors produced by this module
type IPCError interface {
	error

	// Code returns the stable numeric error code
	Code() int

	// Message returns a human-readable error message
	Message() string

	// Details returns detailed technical description for debugging
	Details() string

	// Data returns structured error data for programmatic handling
	Data() interface{}

	// Category returns the error category for classification
	Category() Category

	// Severity returns the error severity level
	Severity() Severity

	// Context returns the error context information
	Context() *Context

	// WithContext returns a new error with the provided context
	WithContext(ctx *Context) IPCError

	// WithDetail returns a new error with additional detail
	WithDetail(detail string) IPCError

	// WithData returns a new error with structured data
	WithData(data interface{}) IPCError

	// Unwrap returns the underlying error for error chain traversal
	Unwrap() error

	// ToJSON returns the error as a JSON-serializable map
	ToJSON() map[string]interface{}
}

// baseError implements the IPCError interface
type baseError struct {
	code     int
	message  string
	details  string
	data     interface{}
	category Category
	severity Severity
	context  *Context
	cause    error
}

// Error implements the error interface
func (e *baseError) Error() string {
	if e.details != "" {
		return fmt.Sprintf("%s: %s", e.message, e.details)
	}
	return e.message
}

// Code returns the stable numeric error code
func (e *baseError) Code() int {
	return e.code
}

// Message returns the human-readable error message
func (e *baseError) Message() string {
	return e.message
}

// Details returns detailed technical description
func (e *baseError) Details() string {
	return e.details
}

// Data returns structured error data
func (e *baseError) Data() interface{} {
	return e.data
}

// Category returns the error category
func (e *baseError) Category() Category {
	return e.category
}

// Severity returns the error severity
func (e *baseError) Severity() Severity {
	return e.severity
}

// Context returns the error context
func (e *baseError) Context() *Context {
	return e.context
}

// WithContext returns a new error with the provided context
func (e *baseError) WithContext(ctx *Context) IPCError {
	newErr := *e
	newErr.context = ctx
	return &newErr
}

// WithDetail returns a new error with additional detail
func (e *baseError) WithDetail(detail string) IPCError {
	newErr := *e
	if newErr.details != "" {
		newErr.details = fmt.Sprintf("%s; %s", newErr.details, detail)
	} else {
		newErr.details = detail
	}
	return &newErr
}

// WithData returns a new error with structured data
func (e *baseError) WithData(data interface{}) IPCError {
	newErr := *e
	newErr.data = data
	return &newErr
}

// Unwrap returns the underlying error
func (e *baseError) Unwrap() error {
	return e.cause
}

// ToJSON returns the error as a JSON-serializable map
func (e *baseError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"code":     e.code,
		"message":  e.message,
		"category": string(e.category),
		"severity": string(e.severity),
	}

	if e.details != "" {
		result["details"] = e.details
	}

	if e.data != nil {
		result["data"] = e.data
	}

	if e.context != nil {
		result["context"] = e.context
	}

	if e.cause != nil {
		result["cause"] = e.cause.Error()
	}

	return result
}

// NewError creates a new IPCError with the specified parameters
func NewError(code int, message string, category Category, severity Severity) IPCError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// NewErrorf creates a new IPCError with formatted message
func NewErrorf(code int, category Category, severity Severity, format string, args ...interface{}) IPCError {
	return &baseError{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		category: category,
		severity: severity,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// WrapError wraps an existing error as an IPCError
func WrapError(err error, code int, message string, category Category, severity Severity) IPCError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		cause:    err,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// WrapErrorf wraps an existing error as an IPCError with formatted message
func WrapErrorf(err error, code int, category Category, severity Severity, format string, args ...interface{}) IPCError {
	return &baseError{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		category: category,
		severity: severity,
		cause:    err,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// AsIPCError extracts an IPCError from any error, or reports that it is not one
func AsIPCError(err error) (IPCError, bool) {
	if err == nil {
		return nil, false
	}

	if ipcErr, ok := err.(IPCError); ok {
		return ipcErr, true
	}

	return nil, false
}

// IsIPCError checks if an error is an IPCError
func IsIPCError(err error) bool {
	_, ok := AsIPCError(err)
	return ok
}

// IsCategory checks if an error is of a specific category
func IsCategory(err error, category Category) bool {
	if ipcErr, ok := AsIPCError(err); ok {
		return ipcErr.Category() == category
	}
	return false
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code int) bool {
	if ipcErr, ok := AsIPCError(err); ok {
		return ipcErr.Code() == code
	}
	return false
}

// IsDiscoveryFailure checks if an error came from the pipe scan/handshake phase
func IsDiscoveryFailure(err error) bool {
	return IsCategory(err, CategoryDiscovery)
}

// IsTransportFailure checks if an error is an OS-level I/O failure
func IsTransportFailure(err error) bool {
	return IsCategory(err, CategoryTransport)
}

// IsProtocolFailure checks if an error indicates malformed wire data
func IsProtocolFailure(err error) bool {
	return IsCategory(err, CategoryProtocol)
}

// IsApplicationError checks if an error is a peer-reported command failure
func IsApplicationError(err error) bool {
	return IsCategory(err, CategoryApplication)
}

// IsPreconditionViolation checks if an error indicates API misuse
func IsPreconditionViolation(err error) bool {
	return IsCategory(err, CategoryPrecondition)
}

// MarshalJSON implements json.Marshaler for baseError
func (e *baseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}
