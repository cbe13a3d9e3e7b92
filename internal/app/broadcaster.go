package app

import (
	"errors"
	"slices"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []domain.ConnectionID
}

// Broadcaster encodes events and pushes them onto connection send queues.
type Broadcaster struct {
	sessions *Sessions
	registry *Registry
	policy   Policy
}

func NewBroadcaster(sessions *Sessions, registry *Registry, policy Policy) *Broadcaster {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Broadcaster{sessions: sessions, registry: registry, policy: policy}
}

// Send delivers ev to one connection. False means it was not queued.
func (b *Broadcaster) Send(cid domain.ConnectionID, ev core.Event) bool {
	conn, ok := b.sessions.Conn(cid)
	if !ok {
		log.Debug().Str("module", "app.broadcast").Str("cid", string(cid)).Str("event", string(ev.Type())).Msg("send to unknown connection")
		return false
	}
	frame, err := core.EncodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("encode event")
		return false
	}
	return b.deliver(cid, conn, frame)
}

// Broadcast delivers ev to every current member of roomID except exclude.
func (b *Broadcaster) Broadcast(roomID domain.RoomID, ev core.Event, exclude ...domain.ConnectionID) PublishResult {
	res := PublishResult{}
	members := b.registry.MembersOf(roomID)
	if len(members) == 0 {
		return res
	}
	frame, err := core.EncodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("encode event")
		return res
	}
	for _, cid := range members {
		if slices.Contains(exclude, cid) {
			continue
		}
		conn, ok := b.sessions.Conn(cid)
		if !ok || !b.deliver(cid, conn, frame) {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.broadcast").Str("room", string(roomID)).Str("event", string(ev.Type())).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (b *Broadcaster) deliver(cid domain.ConnectionID, conn core.SignalConnection, frame core.Frame) bool {
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	if errors.Is(err, core.ErrBackpressure) && b.policy.OnBackpressure(cid) == KickMember {
		log.Warn().Str("module", "app.broadcast").Str("cid", string(cid)).Msg("send queue full, closing connection")
		conn.Close()
		return false
	}
	log.Debug().Err(err).Str("module", "app.broadcast").Str("cid", string(cid)).Msg("event dropped")
	return false
}
