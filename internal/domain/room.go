package domain

import "errors"

var ErrEmptyRoomID = errors.New("room id empty")

// RoomID is the client-supplied meeting code. Any non-empty string is valid.
type RoomID string

func (r RoomID) Validate() error {
	if r == "" {
		return ErrEmptyRoomID
	}
	return nil
}
