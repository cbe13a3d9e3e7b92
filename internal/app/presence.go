package app

import (
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Presence is the per-connection name and join-time table.
type Presence struct {
	mu    sync.RWMutex
	byCID map[domain.ConnectionID]*domain.Participant
}

func NewPresence() *Presence {
	return &Presence{byCID: make(map[domain.ConnectionID]*domain.Participant)}
}

func (p *Presence) Track(cid domain.ConnectionID, connectedAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byCID[cid]; ok {
		return
	}
	p.byCID[cid] = &domain.Participant{ID: cid, ConnectedAt: connectedAt}
}

func (p *Presence) MarkJoined(cid domain.ConnectionID, joinedAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u, ok := p.byCID[cid]; ok {
		u.JoinedAt = joinedAt
	}
}

// SetName validates and stores name, returning the normalized value.
// Names for untracked connections are rejected with ErrUnknownConnection.
func (p *Presence) SetName(cid domain.ConnectionID, name string) (string, error) {
	name, err := domain.NormalizeDisplayName(name)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.byCID[cid]
	if !ok {
		return "", ErrUnknownConnection
	}
	u.Name = name
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("name", name).Msg("updated name")
	return name, nil
}

func (p *Presence) NameOf(cid domain.ConnectionID) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.byCID[cid]
	if !ok || u.Name == "" {
		return "", false
	}
	return u.Name, true
}

// DisplayName is the name if set, else the connection id.
func (p *Presence) DisplayName(cid domain.ConnectionID) string {
	if name, ok := p.NameOf(cid); ok {
		return name
	}
	return string(cid)
}

func (p *Presence) Get(cid domain.ConnectionID) (domain.Participant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.byCID[cid]
	if !ok {
		return domain.Participant{}, false
	}
	return *u, true
}

func (p *Presence) Remove(cid domain.ConnectionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byCID, cid)
}
