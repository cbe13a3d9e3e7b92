package domain

import "time"

// ChatMessage is immutable once appended to a room history.
type ChatMessage struct {
	SenderName string       `json:"sender"`
	Payload    string       `json:"payload"`
	SenderID   ConnectionID `json:"from"`
	SentAt     time.Time    `json:"sent_at"`
}
