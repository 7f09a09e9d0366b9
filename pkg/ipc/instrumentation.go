package ipc

import "time"

// Frame direction labels passed to Instrumentation.RecordFrame.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Outcome labels passed to the Record* hooks.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeNoPipe   = "no_pipe"
)

// Instrumentation observes client activity. The observability package
// provides a Prometheus-backed implementation; the zero value of a client
// uses a no-op. Implementations must be safe for concurrent use: probes,
// sends, and reader dispatches report from different goroutines.
type Instrumentation interface {
	// RecordProbe counts one discovery probe of a numbered endpoint.
	// Outcome is OutcomeOK for a validated candidate, OutcomeNoPipe when
	// the endpoint did not open, OutcomeRejected for an unusable handshake.
	RecordProbe(index int, outcome string)

	// RecordConnect counts one Connect attempt with its duration.
	RecordConnect(outcome string, d time.Duration)

	// RecordFrame counts one wire frame and its payload size.
	RecordFrame(direction, opcode string, payloadBytes int)

	// RecordDispatch counts one inbound event routed to listener hooks.
	RecordDispatch(event string)

	// RecordCallback counts one callback resolution.
	RecordCallback(outcome string)

	// RecordStatus reports a connection state transition.
	RecordStatus(status string)
}

// nopInstrumentation discards every observation.
type nopInstrumentation struct{}

func (nopInstrumentation) RecordProbe(int, string)             {}
func (nopInstrumentation) RecordConnect(string, time.Duration) {}
func (nopInstrumentation) RecordFrame(string, string, int)     {}
func (nopInstrumentation) RecordDispatch(string)               {}
func (nopInstrumentation) RecordCallback(string)               {}
func (nopInstrumentation) RecordStatus(string)                 {}
