package core

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type EventType string

const (
	EvConnected          EventType = "connected"
	EvUserJoined         EventType = "user-joined"
	EvUsername           EventType = "username"
	EvSignal             EventType = "signal"
	EvChat               EventType = "chat-message"
	EvScreenShareStarted EventType = "screen-share-started"
	EvScreenShareStopped EventType = "screen-share-stopped"
	EvUserLeft           EventType = "user-left"
	EvPong               EventType = "pong"
)

// Event is an outbound server message.
type Event interface {
	Type() EventType
}

// Connected tells a new connection its own id.
type Connected struct {
	ID domain.ConnectionID `json:"id"`
}

// UserJoined goes to every member including the joiner. Members is in join
// order; the joiner offers to every other listed member.
type UserJoined struct {
	ID           domain.ConnectionID   `json:"id"`
	Members      []domain.ConnectionID `json:"members"`
	Participants []MemberDTO           `json:"participants"`
}

type UsernameChanged struct {
	ID   domain.ConnectionID `json:"id"`
	Name string              `json:"name"`
}

type SignalRelayed struct {
	From    domain.ConnectionID `json:"from"`
	Payload json.RawMessage     `json:"payload"`
}

type ChatPosted struct {
	domain.ChatMessage
	Replayed bool `json:"replayed,omitempty"`
}

type ScreenShareChanged struct {
	Active bool                `json:"-"`
	ID     domain.ConnectionID `json:"id"`
}

type UserLeft struct {
	ID domain.ConnectionID `json:"id"`
}

type Pong struct{}

func (Connected) Type() EventType       { return EvConnected }
func (UserJoined) Type() EventType      { return EvUserJoined }
func (UsernameChanged) Type() EventType { return EvUsername }
func (SignalRelayed) Type() EventType   { return EvSignal }
func (ChatPosted) Type() EventType      { return EvChat }
func (UserLeft) Type() EventType        { return EvUserLeft }
func (Pong) Type() EventType            { return EvPong }

func (s ScreenShareChanged) Type() EventType {
	if s.Active {
		return EvScreenShareStarted
	}
	return EvScreenShareStopped
}

// EncodeEvent renders e as a JSON object with a leading "type" field.
func EncodeEvent(e Event) (Frame, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	typ, err := json.Marshal(e.Type())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encode %s: not an object", e.Type())
	}

	out := make([]byte, 0, len(body)+len(typ)+9)
	out = append(out, `{"type":`...)
	out = append(out, typ...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}
