// Package domain contains entities without transport or lifecycle logic.
package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxDisplayNameLen = 64

var (
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

// Participant is presence meta for one connection.
// An empty Name means the client never set one.
type Participant struct {
	ID          ConnectionID `json:"id"`
	Name        string       `json:"name,omitempty"`
	ConnectedAt time.Time    `json:"connected_at"`
	JoinedAt    time.Time    `json:"joined_at,omitempty"`
}

// DisplayName falls back to the connection id when no name was set.
func (p Participant) DisplayName() string {
	if p.Name == "" {
		return string(p.ID)
	}
	return p.Name
}

// NormalizeDisplayName trims the name and checks its bounds.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}
