package app

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrInAnotherRoom = errors.New("connection is in another room")
	ErrRoomNotFound  = errors.New("room not found")
)

type room struct {
	id      domain.RoomID
	members []domain.ConnectionID // join order
	history *History
}

// Registry owns every room. A room exists only while it has members; its
// history goes away with it. byConn is the reverse index, kept in lockstep
// with the member lists.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[domain.RoomID]*room
	byConn       map[domain.ConnectionID]domain.RoomID
	historyLimit int
}

func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		rooms:        make(map[domain.RoomID]*room),
		byConn:       make(map[domain.ConnectionID]domain.RoomID),
		historyLimit: historyLimit,
	}
}

// Join adds cid to roomID, creating the room on first join. Joining the same
// room twice is a no-op. The returned slice is a copy in join order.
func (r *Registry) Join(cid domain.ConnectionID, roomID domain.RoomID) ([]domain.ConnectionID, error) {
	if err := roomID.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byConn[cid]; ok && cur != roomID {
		return nil, ErrInAnotherRoom
	}

	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &room{id: roomID, history: NewHistory(r.historyLimit)}
		r.rooms[roomID] = rm
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room created")
	}
	if !slices.Contains(rm.members, cid) {
		rm.members = append(rm.members, cid)
		r.byConn[cid] = roomID
		log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Int("members", len(rm.members)).Msg("member added")
	}
	return slices.Clone(rm.members), nil
}

// Leave removes cid from its room. ok is false when cid was in no room.
// The room and its history are deleted once empty.
func (r *Registry) Leave(cid domain.ConnectionID) (roomID domain.RoomID, remaining []domain.ConnectionID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok = r.byConn[cid]
	if !ok {
		return "", nil, false
	}
	delete(r.byConn, cid)

	rm, exists := r.rooms[roomID]
	if !exists {
		return roomID, nil, true
	}
	rm.members = slices.DeleteFunc(rm.members, func(m domain.ConnectionID) bool { return m == cid })
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Int("members", len(rm.members)).Msg("member removed")

	if len(rm.members) == 0 {
		delete(r.rooms, roomID)
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Int("history", rm.history.Len()).Msg("room deleted")
		return roomID, nil, true
	}
	return roomID, slices.Clone(rm.members), true
}

func (r *Registry) MembersOf(roomID domain.RoomID) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return slices.Clone(rm.members)
}

func (r *Registry) RoomOf(cid domain.ConnectionID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomID, ok := r.byConn[cid]
	return roomID, ok
}

func (r *Registry) Append(roomID domain.RoomID, msg domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	rm.history.Append(msg)
	return nil
}

// Replay returns the room's history oldest first; nil for unknown rooms.
func (r *Registry) Replay(roomID domain.RoomID) []domain.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return rm.history.Replay()
}

func (r *Registry) List() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for id, rm := range r.rooms {
		out = append(out, core.RoomInfo{Name: id, MemberCount: len(rm.members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
