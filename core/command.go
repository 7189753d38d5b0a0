package core

// Kind identifies one of the protocol's commands. The set is closed:
// anything outside it is rejected before dispatch.
type Kind string

const (
	// KindCheckAvailability queries backend readiness.
	KindCheckAvailability Kind = "check-availability"
	// KindOpenSession allocates a fresh conversational session.
	KindOpenSession Kind = "open-session"
	// KindMessage executes a generation request against a session.
	KindMessage Kind = "message"
	// KindCloseSession removes a session and releases its backend handle.
	KindCloseSession Kind = "close-session"
	// KindShutdown stops the process after an orderly resource release.
	KindShutdown Kind = "shutdown"
)

// KnownKind reports whether k belongs to the closed command set.
func KnownKind(k Kind) bool {
	switch k {
	case KindCheckAvailability, KindOpenSession, KindMessage, KindCloseSession, KindShutdown:
		return true
	default:
		return false
	}
}

// Command is a single parsed protocol request. Commands are transient:
// they exist only for the duration of one dispatch. Field presence is
// command specific; absent fields are empty strings so validation can
// surface precise error codes instead of a generic one.
type Command struct {
	Kind         Kind
	SessionID    string
	Instructions string
	Prompt       string
	Content      string
	OutputFormat string
}
