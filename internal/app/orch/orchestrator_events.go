package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/stats"
)

func (o *Orchestrator) setName(cid domain.ConnectionID, raw string) {
	name, err := o.Presence.SetName(cid, raw)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(cid)).Msg("rename rejected")
		o.Stats.Incr(stats.InvalidMessages)
		return
	}
	if roomID, ok := o.Registry.RoomOf(cid); ok {
		o.Broadcaster.Broadcast(roomID, core.UsernameChanged{ID: cid, Name: name})
	}
}

func (o *Orchestrator) signal(cid domain.ConnectionID, s core.Signal) {
	if o.Relay.Relay(cid, s.To, s.Payload) {
		o.Stats.Incr(stats.SignalsRelayed)
		return
	}
	o.Stats.Incr(stats.SignalsDropped)
}

func (o *Orchestrator) chat(cid domain.ConnectionID, c core.Chat) {
	roomID, ok := o.Registry.RoomOf(cid)
	if !ok {
		log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("chat outside a room dropped")
		return
	}
	sender := c.Sender
	if sender == "" {
		sender = o.Presence.DisplayName(cid)
	}
	msg := domain.ChatMessage{
		SenderName: sender,
		Payload:    c.Payload,
		SenderID:   cid,
		SentAt:     o.now().UTC(),
	}
	if err := o.Registry.Append(roomID, msg); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(roomID)).Msg("append history")
		return
	}
	o.Stats.Incr(stats.ChatMessages)
	o.Broadcaster.Broadcast(roomID, core.ChatPosted{ChatMessage: msg})
}

// screenShare always attributes the event to the sending connection.
func (o *Orchestrator) screenShare(cid domain.ConnectionID, s core.ScreenShare) {
	roomID, ok := o.Registry.RoomOf(cid)
	if !ok {
		log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("screen share outside a room dropped")
		return
	}
	if s.Actor != "" && s.Actor != cid {
		log.Warn().Str("module", "orch").Str("cid", string(cid)).Str("actor", string(s.Actor)).Msg("screen share actor mismatch, using sender")
	}
	o.Broadcaster.Broadcast(roomID, core.ScreenShareChanged{Active: s.Active, ID: cid}, cid)
}
