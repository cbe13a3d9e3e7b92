package core

import "github.com/dkeye/Meet/internal/domain"

// MemberDTO is a read-only view for events and APIs (no transport fields).
type MemberDTO struct {
	ID   domain.ConnectionID `json:"id"`
	Name string              `json:"name"`
}

type RoomInfo struct {
	Name        domain.RoomID `json:"name"`
	MemberCount int           `json:"client_count"`
}
