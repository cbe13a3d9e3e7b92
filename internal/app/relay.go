package app

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay forwards signaling payloads between two connections. Delivery is
// at-most-once: a stale target drops the payload and nothing is reported back.
type Relay struct {
	b *Broadcaster
}

func NewRelay(b *Broadcaster) *Relay {
	return &Relay{b: b}
}

func (r *Relay) Relay(from, to domain.ConnectionID, payload json.RawMessage) bool {
	if _, ok := r.b.sessions.Conn(to); !ok {
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("stale signal target, dropped")
		return false
	}
	return r.b.Send(to, core.SignalRelayed{From: from, Payload: payload})
}
