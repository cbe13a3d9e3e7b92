package orch

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/stats"
)

// Orchestrator is the connection lifecycle manager. One instance owns all
// relay state for the life of the process. Every inbound event is handled to
// completion under mu, so a join, its broadcast and its history replay are
// never interleaved with another event.
type Orchestrator struct {
	mu sync.Mutex

	Registry    *app.Registry
	Presence    *app.Presence
	Sessions    *app.Sessions
	Broadcaster *app.Broadcaster
	Relay       *app.Relay
	Stats       stats.StatsProvider

	newID func() domain.ConnectionID
	now   func() time.Time
}

type Options struct {
	HistoryLimit int
	Policy       app.Policy
	Stats        stats.StatsProvider
	// NewID allocates connection ids; defaults to random uuids.
	NewID func() domain.ConnectionID
	Now   func() time.Time
}

func New(opts Options) *Orchestrator {
	reg := app.NewRegistry(opts.HistoryLimit)
	sessions := app.NewSessions()
	b := app.NewBroadcaster(sessions, reg, opts.Policy)

	o := &Orchestrator{
		Registry:    reg,
		Presence:    app.NewPresence(),
		Sessions:    sessions,
		Broadcaster: b,
		Relay:       app.NewRelay(b),
		Stats:       opts.Stats,
		newID:       opts.NewID,
		now:         opts.Now,
	}
	if o.Stats == nil {
		o.Stats = stats.Nop{}
	}
	if o.newID == nil {
		o.newID = func() domain.ConnectionID { return domain.ConnectionID(uuid.NewString()) }
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Connect registers a new transport connection and tells it its id.
func (o *Orchestrator) Connect(conn core.SignalConnection) domain.ConnectionID {
	o.mu.Lock()
	defer o.mu.Unlock()

	cid := o.newID()
	for {
		if _, taken := o.Sessions.Conn(cid); !taken {
			break
		}
		cid = o.newID()
	}
	o.Sessions.Bind(cid, conn)
	o.Presence.Track(cid, o.now())
	o.Stats.Incr(stats.ActiveConnections)
	o.Broadcaster.Send(cid, core.Connected{ID: cid})
	log.Info().Str("module", "orch").Str("cid", string(cid)).Msg("connected")
	return cid
}

// Dispatch handles one inbound command from cid.
func (o *Orchestrator) Dispatch(cid domain.ConnectionID, cmd core.Command) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.Sessions.State(cid) == domain.StateDisconnected {
		log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("command from dead connection dropped")
		return
	}

	switch c := cmd.(type) {
	case core.JoinCall:
		o.join(cid, c.Room)
	case core.SetUsername:
		o.setName(cid, c.Name)
	case core.Signal:
		o.signal(cid, c)
	case core.Chat:
		o.chat(cid, c)
	case core.ScreenShare:
		o.screenShare(cid, c)
	case core.Ping:
		o.Broadcaster.Send(cid, core.Pong{})
	default:
		log.Warn().Str("module", "orch").Str("cid", string(cid)).Msgf("unhandled command %T", cmd)
	}
}

// Disconnect tears down cid. Safe to call more than once and from any state.
func (o *Orchestrator) Disconnect(cid domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Sessions.Conn(cid); !ok {
		return
	}
	o.leaveRoom(cid)
	o.Presence.Remove(cid)
	o.Sessions.Unbind(cid)
	o.Stats.Decr(stats.ActiveConnections)
	log.Info().Str("module", "orch").Str("cid", string(cid)).Msg("disconnected")
}

// Shutdown closes every live transport. The adapters report the resulting
// disconnects through Disconnect.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	conns := o.Sessions.All()
	o.mu.Unlock()

	for cid, conn := range conns {
		log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("closing on shutdown")
		conn.Close()
	}
}

func (o *Orchestrator) RoomList() []core.RoomInfo {
	return o.Registry.List()
}
