package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is the decoded form of one inbound FRAME payload. The peer
// multiplexes command replies and dispatch events over the same opcode,
// discriminated by the evt field; DecodeMessage resolves that discriminator
// exactly once, at the protocol boundary, into a closed set of variants.
// Downstream dispatch switches on the variant type, never on raw strings.
type Message interface {
	message()
}

// Reply is a successful command reply correlated by nonce.
type Reply struct {
	Nonce string
	Data  json.RawMessage
}

// ErrorReply is a failed command reply correlated by nonce. Code and
// Message are the peer-reported error fields.
type ErrorReply struct {
	Nonce   string
	Code    int
	Message string
	Data    json.RawMessage
}

// Error implements the error interface so an ErrorReply can flow through
// failure callbacks directly.
func (e *ErrorReply) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("peer error %d", e.Code)
	}
	return fmt.Sprintf("peer error %d: %s", e.Code, e.Message)
}

// ActivityJoin is dispatched when the local user accepts a join invite.
type ActivityJoin struct {
	Secret string
}

// ActivitySpectate is dispatched when the local user starts spectating.
type ActivitySpectate struct {
	Secret string
}

// ActivityJoinRequest is dispatched when another user asks to join the
// local user's party.
type ActivityJoinRequest struct {
	Secret string
	User   *User
}

// UnknownEvent is any dispatch whose evt is not part of the closed set. It
// is surfaced for observability only.
type UnknownEvent struct {
	Event Event
	Raw   json.RawMessage
}

func (*Reply) message()               {}
func (*ErrorReply) message()          {}
func (*ActivityJoin) message()        {}
func (*ActivitySpectate) message()    {}
func (*ActivityJoinRequest) message() {}
func (*UnknownEvent) message()        {}

// envelope is the superset shape of every inbound FRAME payload. Evt is a
// pointer so an explicit null and an absent field both decode to nil.
type envelope struct {
	Cmd   string          `json:"cmd"`
	Evt   *Event          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type secretData struct {
	Secret string `json:"secret"`
}

type joinRequestData struct {
	Secret string `json:"secret"`
	User   *User  `json:"user"`
}

type errorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DecodeMessage parses one inbound FRAME payload into its Message variant.
// Errors wrap ErrInvalidPayload and indicate a peer protocol fault.
func DecodeMessage(payload []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if env.Evt == nil || *env.Evt == "" {
		return &Reply{Nonce: env.Nonce, Data: env.Data}, nil
	}

	switch *env.Evt {
	case EventError:
		var ed errorData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &ed); err != nil {
				return nil, fmt.Errorf("%w: ERROR data: %v", ErrInvalidPayload, err)
			}
		}
		return &ErrorReply{Nonce: env.Nonce, Code: ed.Code, Message: ed.Message, Data: env.Data}, nil

	case EventActivityJoin:
		var sd secretData
		if err := json.Unmarshal(env.Data, &sd); err != nil {
			return nil, fmt.Errorf("%w: ACTIVITY_JOIN data: %v", ErrInvalidPayload, err)
		}
		return &ActivityJoin{Secret: sd.Secret}, nil

	case EventActivitySpectate:
		var sd secretData
		if err := json.Unmarshal(env.Data, &sd); err != nil {
			return nil, fmt.Errorf("%w: ACTIVITY_SPECTATE data: %v", ErrInvalidPayload, err)
		}
		return &ActivitySpectate{Secret: sd.Secret}, nil

	case EventActivityJoinRequest:
		var jd joinRequestData
		if err := json.Unmarshal(env.Data, &jd); err != nil {
			return nil, fmt.Errorf("%w: ACTIVITY_JOIN_REQUEST data: %v", ErrInvalidPayload, err)
		}
		return &ActivityJoinRequest{Secret: jd.Secret, User: jd.User}, nil

	default:
		return &UnknownEvent{Event: *env.Evt, Raw: payload}, nil
	}
}

// readyData is the body of the READY dispatch answering a handshake.
type readyData struct {
	Config struct {
		APIEndpoint string `json:"api_endpoint"`
	} `json:"config"`
	User *User `json:"user"`
}

// ParseHandshakeReply extracts the build identity and account identity from
// the single reply frame a pipe sends after a handshake. Malformed JSON,
// missing fields, and an endpoint no known build announces all wrap
// ErrInvalidPayload; discovery treats every such reply as an invalid
// candidate.
func ParseHandshakeReply(payload []byte) (Build, *User, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", nil, fmt.Errorf("%w: handshake reply: %v", ErrInvalidPayload, err)
	}
	var rd readyData
	if err := json.Unmarshal(env.Data, &rd); err != nil {
		return "", nil, fmt.Errorf("%w: handshake reply data: %v", ErrInvalidPayload, err)
	}
	if rd.Config.APIEndpoint == "" {
		return "", nil, fmt.Errorf("%w: handshake reply missing api_endpoint", ErrInvalidPayload)
	}
	endpoint := strings.TrimPrefix(rd.Config.APIEndpoint, "https:")
	build, ok := BuildFromEndpoint(endpoint)
	if !ok {
		return "", nil, fmt.Errorf("%w: unrecognized api_endpoint %q", ErrInvalidPayload, rd.Config.APIEndpoint)
	}
	if rd.User == nil {
		return "", nil, fmt.Errorf("%w: handshake reply missing user", ErrInvalidPayload)
	}
	return build, rd.User, nil
}
