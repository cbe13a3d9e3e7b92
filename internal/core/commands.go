package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

type CommandType string

const (
	CmdJoinCall           CommandType = "join-call"
	CmdUsername           CommandType = "username"
	CmdSignal             CommandType = "signal"
	CmdChat               CommandType = "chat-message"
	CmdScreenShareStarted CommandType = "screen-share-started"
	CmdScreenShareStopped CommandType = "screen-share-stopped"
	CmdPing               CommandType = "ping"
)

// Command is an inbound client message. The set of implementations is closed:
// JoinCall, SetUsername, Signal, Chat, ScreenShare, Ping.
type Command interface {
	Type() CommandType
}

type JoinCall struct {
	Room domain.RoomID `json:"room"`
}

type SetUsername struct {
	Name string `json:"name"`
}

// Signal carries an SDP or ICE payload to one peer. Payload is never inspected.
type Signal struct {
	To      domain.ConnectionID `json:"to"`
	Payload json.RawMessage     `json:"payload"`
}

type Chat struct {
	Payload string `json:"payload"`
	Sender  string `json:"sender"`
}

type ScreenShare struct {
	Active bool                `json:"-"`
	Actor  domain.ConnectionID `json:"actor,omitempty"`
}

type Ping struct{}

func (JoinCall) Type() CommandType    { return CmdJoinCall }
func (SetUsername) Type() CommandType { return CmdUsername }
func (Signal) Type() CommandType      { return CmdSignal }
func (Chat) Type() CommandType        { return CmdChat }
func (Ping) Type() CommandType        { return CmdPing }

func (s ScreenShare) Type() CommandType {
	if s.Active {
		return CmdScreenShareStarted
	}
	return CmdScreenShareStopped
}

// DecodeCommand parses one inbound frame into its tagged variant.
func DecodeCommand(data []byte) (Command, error) {
	var env struct {
		Type CommandType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case CmdJoinCall:
		var c JoinCall
		if err := decodeBody(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case CmdUsername:
		var c SetUsername
		if err := decodeBody(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case CmdSignal:
		var c Signal
		if err := decodeBody(data, &c); err != nil {
			return nil, err
		}
		if c.To == "" {
			return nil, fmt.Errorf("%w: signal without target", ErrMalformed)
		}
		if len(c.Payload) == 0 || bytes.Equal(c.Payload, []byte("null")) {
			return nil, fmt.Errorf("%w: signal without payload", ErrMalformed)
		}
		return c, nil
	case CmdChat:
		var c Chat
		if err := decodeBody(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case CmdScreenShareStarted, CmdScreenShareStopped:
		c := ScreenShare{Active: env.Type == CmdScreenShareStarted}
		if err := decodeBody(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case CmdPing:
		return Ping{}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodeBody(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
