package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/stats"
)

func (o *Orchestrator) join(cid domain.ConnectionID, roomID domain.RoomID) {
	if err := roomID.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(cid)).Msg("join rejected")
		o.Stats.Incr(stats.InvalidMessages)
		return
	}

	if cur, ok := o.Registry.RoomOf(cid); ok {
		if cur == roomID {
			log.Debug().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Msg("already in room")
			return
		}
		o.leaveRoom(cid)
		log.Info().Str("module", "orch").Str("cid", string(cid)).Str("from_room", string(cur)).Str("to_room", string(roomID)).Msg("switching room")
	}

	members, err := o.Registry.Join(cid, roomID)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Msg("join failed")
		return
	}
	if len(members) == 1 {
		o.Stats.Incr(stats.ActiveRooms)
	}
	o.Presence.MarkJoined(cid, o.now())
	o.Sessions.SetState(cid, domain.StateInRoom)

	o.Broadcaster.Broadcast(roomID, core.UserJoined{
		ID:           cid,
		Members:      members,
		Participants: o.participants(members),
	})

	history := o.Registry.Replay(roomID)
	for _, msg := range history {
		o.Broadcaster.Send(cid, core.ChatPosted{ChatMessage: msg, Replayed: true})
	}
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Int("members", len(members)).Int("replayed", len(history)).Msg("joined")
}

// leaveRoom removes cid from its room, if any, and tells whoever is left.
func (o *Orchestrator) leaveRoom(cid domain.ConnectionID) {
	roomID, remaining, ok := o.Registry.Leave(cid)
	if !ok {
		return
	}
	o.Sessions.SetState(cid, domain.StateConnected)

	if len(remaining) == 0 {
		o.Stats.Decr(stats.ActiveRooms)
		log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Msg("left, room closed")
		return
	}
	o.Broadcaster.Broadcast(roomID, core.UserLeft{ID: cid})
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Int("remaining", len(remaining)).Msg("left")
}

func (o *Orchestrator) participants(members []domain.ConnectionID) []core.MemberDTO {
	out := make([]core.MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, core.MemberDTO{ID: m, Name: o.Presence.DisplayName(m)})
	}
	return out
}
