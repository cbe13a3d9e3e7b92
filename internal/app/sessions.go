package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrUnknownConnection = errors.New("unknown connection")

type sessionEntry struct {
	Conn  core.SignalConnection
	State domain.ConnState
}

// Sessions maps live connection ids to their transport endpoint.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]*sessionEntry
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[domain.ConnectionID]*sessionEntry)}
}

func (s *Sessions) Bind(cid domain.ConnectionID, conn core.SignalConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cid] = &sessionEntry{Conn: conn, State: domain.StateConnected}
	log.Info().Str("module", "app.sessions").Str("cid", string(cid)).Msg("bound session")
}

// Unbind drops cid and reports whether it was live.
func (s *Sessions) Unbind(cid domain.ConnectionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[cid]; !ok {
		return false
	}
	delete(s.sessions, cid)
	log.Info().Str("module", "app.sessions").Str("cid", string(cid)).Msg("unbind session")
	return true
}

func (s *Sessions) Conn(cid domain.ConnectionID) (core.SignalConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// State returns StateDisconnected for unknown ids.
func (s *Sessions) State(cid domain.ConnectionID) domain.ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[cid]; ok {
		return e.State
	}
	return domain.StateDisconnected
}

func (s *Sessions) SetState(cid domain.ConnectionID, st domain.ConnState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[cid]
	if !ok {
		return false
	}
	e.State = st
	return true
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// All returns a snapshot of every live connection.
func (s *Sessions) All() map[domain.ConnectionID]core.SignalConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.ConnectionID]core.SignalConnection, len(s.sessions))
	for cid, e := range s.sessions {
		out[cid] = e.Conn
	}
	return out
}
