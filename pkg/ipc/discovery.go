package ipc

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/discord-ipc-go/pkg/errors"
	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/transport"
)

// candidate is one validated endpoint: pipe opened, handshake answered,
// build and user identity parsed out of the reply.
type candidate struct {
	conn  transport.Conn
	index int
	build protocol.Build
	user  *protocol.User
}

// negotiator runs the probe scan for one Connect call.
type negotiator struct {
	clientID string
	dialer   transport.Dialer
	poll     time.Duration
	logger   logging.Logger
	instr    Instrumentation
	tracer   trace.Tracer
}

// discover probes endpoints 0 through transport.PipeCount-1 in order and
// returns the candidate satisfying prefs:
//
//   - a candidate matching prefs[0] (or any candidate at all when prefs[0]
//     is the wildcard) is accepted the moment it validates, ending the scan;
//   - otherwise validated candidates are remembered per concrete build, a
//     later same-build candidate superseding (and closing) the earlier one,
//     and after the scan the first prefs[1:] entry with a remembered
//     candidate wins — the wildcard resolving to the most recently
//     remembered one;
//   - every remembered candidate that was not chosen is closed.
//
// The returned candidate always carries a concrete build identity, never
// the wildcard. With no candidate, discover returns a discovery failure
// carrying the preference list and probe count.
func (n *negotiator) discover(ctx context.Context, prefs []protocol.Build) (*candidate, error) {
	// remembered keys validated candidates by concrete build. anyAlias
	// tracks the most recently remembered one for wildcard resolution; it
	// is a lookup into remembered, never a second owner, so no candidate
	// can be closed twice.
	remembered := make(map[protocol.Build]*candidate)
	var anyAlias *candidate
	var chosen *candidate
	probed := 0

	for i := 0; i < transport.PipeCount && chosen == nil; i++ {
		select {
		case <-ctx.Done():
			n.closeLeftovers(remembered, nil)
			return nil, ctx.Err()
		default:
		}

		probed++
		cand, err := n.probe(ctx, i)
		if err != nil {
			outcome := OutcomeRejected
			if errors.IsCode(err, errors.CodePipeOpenFailed) {
				outcome = OutcomeNoPipe
			}
			n.instr.RecordProbe(i, outcome)
			n.logger.Debug("probe failed",
				logging.Int("index", i),
				logging.ErrorField(err))
			continue
		}
		n.instr.RecordProbe(i, OutcomeOK)
		n.logger.Debug("probe validated",
			logging.Int("index", i),
			logging.String("build", cand.build.String()),
			logging.String("user", cand.user.Tag()))

		if prefs[0] == protocol.BuildAny || cand.build == prefs[0] {
			chosen = cand
			break
		}

		if prev, ok := remembered[cand.build]; ok {
			// A later pipe with the same build supersedes the earlier one.
			_ = prev.conn.Close()
			n.logger.Debug("superseded remembered candidate",
				logging.Int("index", prev.index),
				logging.String("build", prev.build.String()))
		}
		remembered[cand.build] = cand
		anyAlias = cand
	}

	if chosen == nil {
		for _, pref := range prefs[1:] {
			if pref == protocol.BuildAny {
				if anyAlias != nil {
					chosen = anyAlias
					break
				}
				continue
			}
			if cand, ok := remembered[pref]; ok {
				chosen = cand
				break
			}
		}
	}

	n.closeLeftovers(remembered, chosen)

	if chosen == nil {
		builds := make([]string, len(prefs))
		for i, p := range prefs {
			builds[i] = p.String()
		}
		return nil, errors.DiscoveryFailed(builds, probed, len(remembered))
	}
	return chosen, nil
}

// probe opens one numbered endpoint, performs the version handshake, and
// parses the reply into a candidate. Every failure closes the pipe and is
// reported so the caller can move on to the next index.
func (n *negotiator) probe(ctx context.Context, index int) (*candidate, error) {
	ctx, span := n.startProbeSpan(ctx, index)
	defer span.End()

	conn, err := n.dialer.Dial(ctx, index)
	if err != nil {
		span.RecordError(err)
		return nil, errors.PipeOpenFailed(index, transport.PipePath(index), err)
	}

	cand, err := n.handshake(ctx, conn, index)
	if err != nil {
		_ = conn.Close()
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("ipc.build", cand.build.String()))
	return cand, nil
}

// handshake writes the version envelope and blocks for exactly one reply
// frame. Any unusable reply invalidates the candidate.
func (n *negotiator) handshake(ctx context.Context, conn transport.Conn, index int) (*candidate, error) {
	payload, err := json.Marshal(protocol.Handshake{
		V:        protocol.HandshakeVersion,
		ClientID: n.clientID,
	})
	if err != nil {
		return nil, errors.HandshakeInvalid(index, err)
	}
	if err := protocol.WriteFrame(conn, protocol.NewFrame(protocol.OpcodeHandshake, payload)); err != nil {
		return nil, errors.HandshakeInvalid(index, err)
	}

	reply, err := transport.NewFrameReader(conn, n.poll).Next(ctx.Done())
	if err != nil {
		return nil, errors.HandshakeInvalid(index, err)
	}

	build, user, err := protocol.ParseHandshakeReply(reply.Payload)
	if err != nil {
		return nil, errors.HandshakeInvalid(index, err)
	}
	return &candidate{conn: conn, index: index, build: build, user: user}, nil
}

// closeLeftovers closes every remembered candidate except the chosen one,
// concurrently. Close failures on losing candidates are only logged.
func (n *negotiator) closeLeftovers(remembered map[protocol.Build]*candidate, chosen *candidate) {
	g := new(errgroup.Group)
	for _, cand := range remembered {
		if cand == chosen {
			continue
		}
		n.logger.Debug("closing unchosen candidate",
			logging.Int("index", cand.index),
			logging.String("build", cand.build.String()))
		g.Go(cand.conn.Close)
	}
	if err := g.Wait(); err != nil {
		n.logger.Warn("leftover candidate close failed", logging.ErrorField(err))
	}
}

func (n *negotiator) startProbeSpan(ctx context.Context, index int) (context.Context, trace.Span) {
	if n.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return n.tracer.Start(ctx, "ipc.handshake",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("ipc.pipe_index", index)))
}
