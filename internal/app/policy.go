package app

import (
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type BackpressureAction int

const (
	DropEvent BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackpressure(cid domain.ConnectionID) BackpressureAction
}

// SimplePolicy kicks slow consumers; a stalled peer cannot negotiate anyway.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(domain.ConnectionID) BackpressureAction {
	return KickMember
}

// DropPolicy drops the event and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackpressure(domain.ConnectionID) BackpressureAction {
	return DropEvent
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "kick":
		return SimplePolicy{}, nil
	case "drop":
		return DropPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
