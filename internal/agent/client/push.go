package client

// CommandKind is the remote command vocabulary recognized at the push
// ingestion point. Unrecognized kinds are logged and ignored.
type CommandKind string

const (
	CommandLock        CommandKind = "LOCK"
	CommandUnlock      CommandKind = "UNLOCK"
	CommandSetMessage  CommandKind = "SET_MESSAGE"
	CommandLocateNow   CommandKind = "LOCATE_NOW"
	CommandSetPasscode CommandKind = "SET_PASSCODE"
	CommandPing        CommandKind = "PING"
	CommandReboot      CommandKind = "REBOOT"
)

// PushMessage is what the push transport delivers: a command kind plus an
// opaque payload. Delivery is at-least-once with no ordering guarantee
// across kinds; downstream handling must be idempotent.
type PushMessage struct {
	Kind    CommandKind       `json:"kind"`
	Payload map[string]string `json:"payload,omitempty"`
}

// PushHandler is the single ingestion point the push transport invokes. A
// returned error asks the transport to redeliver the message.
type PushHandler func(msg PushMessage) error
