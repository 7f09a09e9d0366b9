package protocol

// HandshakeVersion is the protocol version announced in the handshake.
const HandshakeVersion = 1

// Handshake is the first payload written on a freshly opened pipe.
type Handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

// Command is the outbound request envelope carried by FRAME opcodes. Args
// holds the command-specific arguments object; Evt is set only by
// subscription commands, which name the event at the top level. The nonce is
// assigned by the sender at write time. PING frames reuse the envelope with
// every field but the nonce empty.
type Command struct {
	Cmd   string      `json:"cmd,omitempty"`
	Args  interface{} `json:"args,omitempty"`
	Evt   Event       `json:"evt,omitempty"`
	Nonce string      `json:"nonce,omitempty"`
}

// Command names understood by the peer.
const (
	CmdDispatch                 = "DISPATCH"
	CmdSetActivity              = "SET_ACTIVITY"
	CmdSubscribe                = "SUBSCRIBE"
	CmdUnsubscribe              = "UNSUBSCRIBE"
	CmdSendActivityJoinInvite   = "SEND_ACTIVITY_JOIN_INVITE"
	CmdCloseActivityJoinRequest = "CLOSE_ACTIVITY_JOIN_REQUEST"
)
