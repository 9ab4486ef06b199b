// internal/transport/status.go
package transport

// Status is the connection automaton's state. Transitions:
// connecting -> open -> (close or error) -> reconnecting -> connecting,
// with closed reached only by explicit teardown.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusOpen         Status = "open"
	StatusReconnecting Status = "reconnecting"
	StatusClosed       Status = "closed"
)

func (s Status) String() string { return string(s) }

// ConnectionState is a read-only snapshot of the manager's link state.
type ConnectionState struct {
	Status    Status
	Attempt   int // consecutive failures since the last successful open
	LastError error
}
