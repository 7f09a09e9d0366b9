package ipc

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

// NonceGenerator produces correlation tokens for outbound commands. The
// default generator returns UUID v4 strings; tests inject deterministic
// sequences.
type NonceGenerator func() string

// Option configures a client at construction time. There is no global
// mutable configuration: everything an instance needs travels with it.
type Option func(*Client)

// WithLogger sets the logger. Defaults to the package-global logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDialer replaces the platform pipe dialer. Tests script discovery by
// injecting a fake.
func WithDialer(d transport.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithPollInterval sets the read-cancellation poll interval. Close latency
// on a quiet pipe is bounded by this value.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithDialTimeout bounds each pipe open attempt during discovery. Applies
// only to the default platform dialer.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = timeout
	}
}

// WithInstrumentation attaches a metrics sink, such as the Prometheus
// provider in the observability package.
func WithInstrumentation(instr Instrumentation) Option {
	return func(c *Client) {
		if instr != nil {
			c.instr = instr
		}
	}
}

// WithTracer attaches an OpenTelemetry tracer. Connect, handshake probes,
// and sends become spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithNonceGenerator replaces the correlation token source.
func WithNonceGenerator(gen NonceGenerator) Option {
	return func(c *Client) {
		if gen != nil {
			c.nonce = gen
		}
	}
}

// WithAutoRegister asks the client to register the application's discord-
// URL scheme with the OS after each successful Connect, in the manner of
// the classic RPC initializers. An empty steamID registers the running
// executable; a non-empty one registers the Steam launch URL instead.
// Registration is best-effort: failures are logged, never fatal.
func WithAutoRegister(steamID string) Option {
	return func(c *Client) {
		c.autoRegister = true
		c.steamID = steamID
	}
}

func defaultNonceGenerator() string {
	return uuid.NewString()
}
