package domain

// ConnectionID identifies one live transport connection. Never reused.
type ConnectionID string

type ConnState int

const (
	StateConnected ConnState = iota
	StateInRoom
	StateDisconnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateInRoom:
		return "in_room"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
