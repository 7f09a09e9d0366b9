package ipc

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/discord-ipc-go/pkg/errors"
	"github.com/ajitpratap0/discord-ipc-go/pkg/presence"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

// activityArgs is the decoded SET_ACTIVITY argument object.
type activityArgs struct {
	PID      int             `json:"pid"`
	Activity json.RawMessage `json:"activity"`
}

func TestSetActivityEnvelope(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	activity := presence.NewBuilder().
		State("In a Group").
		Details("Competitive").
		Build()

	pending := nextPeerFrame(peer)
	require.NoError(t, c.SetActivity(activity, nil))
	frame := awaitFrame(t, pending)
	require.Equal(t, protocol.OpcodeFrame, frame.Op)

	env := decodeSent(t, frame)
	assert.Equal(t, protocol.CmdSetActivity, env.Cmd)
	assert.NotEmpty(t, env.Nonce)

	var args activityArgs
	require.NoError(t, json.Unmarshal(env.Args, &args))
	assert.Equal(t, os.Getpid(), args.PID)
	assert.JSONEq(t, `{"state":"In a Group","details":"Competitive","instance":false}`, string(args.Activity))
}

func TestClearActivitySendsEmptyObject(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	pending := nextPeerFrame(peer)
	require.NoError(t, c.ClearActivity(nil))
	env := decodeSent(t, awaitFrame(t, pending))
	assert.Equal(t, protocol.CmdSetActivity, env.Cmd)

	var args activityArgs
	require.NoError(t, json.Unmarshal(env.Args, &args))
	assert.Equal(t, os.Getpid(), args.PID)

	// Clearing publishes an empty object, never null.
	assert.JSONEq(t, `{}`, string(args.Activity))
}

func TestSubscribeEnvelopes(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	pending := nextPeerFrame(peer)
	require.NoError(t, c.Subscribe(protocol.EventActivityJoin, nil))
	env := decodeSent(t, awaitFrame(t, pending))
	assert.Equal(t, protocol.CmdSubscribe, env.Cmd)
	assert.Equal(t, string(protocol.EventActivityJoin), env.Evt)
	assert.NotEmpty(t, env.Nonce)
	assert.Empty(t, env.Args)

	pending = nextPeerFrame(peer)
	require.NoError(t, c.Unsubscribe(protocol.EventActivityJoin, nil))
	env = decodeSent(t, awaitFrame(t, pending))
	assert.Equal(t, protocol.CmdUnsubscribe, env.Cmd)
	assert.Equal(t, string(protocol.EventActivityJoin), env.Evt)
}

func TestSubscribeRejectsLifecycleEvents(t *testing.T) {
	c, err := New(testClientID)
	require.NoError(t, err)

	for _, ev := range []protocol.Event{protocol.EventReady, protocol.EventError, protocol.Event("VOICE_STATE_UPDATE")} {
		err := c.Subscribe(ev, nil)
		require.Error(t, err, "event %s", ev)
		assert.True(t, errors.IsCode(err, errors.CodeNotSubscribable), "event %s", ev)

		err = c.Unsubscribe(ev, nil)
		require.Error(t, err, "event %s", ev)
		assert.True(t, errors.IsCode(err, errors.CodeNotSubscribable), "event %s", ev)
	}
}

func TestRespondToJoinRequestEnvelopes(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	pending := nextPeerFrame(peer)
	require.NoError(t, c.RespondToJoinRequest("53908232506183680", true, nil))
	env := decodeSent(t, awaitFrame(t, pending))
	assert.Equal(t, protocol.CmdSendActivityJoinInvite, env.Cmd)
	assert.JSONEq(t, `{"user_id":"53908232506183680"}`, string(env.Args))

	pending = nextPeerFrame(peer)
	require.NoError(t, c.RespondToJoinRequest("53908232506183680", false, nil))
	env = decodeSent(t, awaitFrame(t, pending))
	assert.Equal(t, protocol.CmdCloseActivityJoinRequest, env.Cmd)
	assert.JSONEq(t, `{"user_id":"53908232506183680"}`, string(env.Args))

	err := c.RespondToJoinRequest("   ", true, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestCommandsRequireConnection(t *testing.T) {
	c, err := New(testClientID)
	require.NoError(t, err)

	calls := []struct {
		name string
		call func() error
	}{
		{"send", func() error {
			return c.Send(protocol.OpcodeFrame, protocol.Command{Cmd: protocol.CmdSetActivity}, nil)
		}},
		{"set activity", func() error { return c.SetActivity(nil, nil) }},
		{"subscribe", func() error { return c.Subscribe(protocol.EventActivityJoin, nil) }},
		{"respond", func() error { return c.RespondToJoinRequest("1", true, nil) }},
		{"close", func() error { return c.Close() }},
	}
	for _, tc := range calls {
		err := tc.call()
		require.Error(t, err, tc.name)
		assert.True(t, errors.IsCode(err, errors.CodeNotConnected), tc.name)
		assert.True(t, errors.IsPreconditionViolation(err), tc.name)
	}

	_, err = c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotConnected))
}

func TestDuplicateNonceRejected(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d, WithNonceGenerator(func() string { return "fixed" }))

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()
	discardPeerFrames(peer)

	cb := &Callback{OnSuccess: func(json.RawMessage) {}}
	require.NoError(t, c.SetActivity(nil, cb))

	err := c.SetActivity(nil, cb)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDuplicateNonce))

	// The first registration keeps its slot; nothing was overwritten.
	assert.Equal(t, 1, c.current().registry.size())
	assert.Equal(t, StatusConnected, c.Status())
}

func TestPingRoundTrip(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	// Echo server: answer every ping with a pong carrying the same payload.
	go func() {
		for {
			frame, err := protocol.ReadFrame(peer)
			if err != nil {
				return
			}
			if frame.Op != protocol.OpcodePing {
				continue
			}
			if err := protocol.WriteFrame(peer, protocol.NewFrame(protocol.OpcodePong, frame.Payload)); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	rtt, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Greater(t, rtt, time.Duration(0))
	assert.Equal(t, 0, c.current().registry.size())
}

func TestPingContextDeadline(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()
	discardPeerFrames(peer)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Ping(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// A swallowed echo times the caller out; it does not kill the pipe.
	assert.Equal(t, StatusConnected, c.Status())
}

func TestPingFailsWhenConnectionDies(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)

	// The peer consumes the ping and drops the pipe instead of echoing.
	go func() {
		_, _ = protocol.ReadFrame(peer)
		_ = peer.Close()
	}()

	_, err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTransportFailure(err))

	waitForStatus(t, c, StatusDisconnected)
}

func TestReaderEchoesPeerPing(t *testing.T) {
	d := newScriptedDialer(map[int]fakeEndpoint{
		0: {build: protocol.BuildStable},
	})
	c := newTestClient(t, d)

	peer := connectAndClaim(t, c, d, 0)
	defer peer.Close()

	writePeerFrame(t, peer, protocol.OpcodePing, `{"nonce":"p-1"}`)

	frame := awaitFrame(t, nextPeerFrame(peer))
	assert.Equal(t, protocol.OpcodePong, frame.Op)
	assert.JSONEq(t, `{"nonce":"p-1"}`, string(frame.Payload))
	assert.Equal(t, StatusConnected, c.Status())
}
